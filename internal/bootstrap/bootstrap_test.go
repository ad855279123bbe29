package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cpt/internal/platform/config"
)

func TestNewWiresHeadlessSolve(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"Puzzle": "8/8/8/8/8/8/7k/K7 w - - 0 1,a1a2 h2h3 a2a3"},
		})
	}))
	t.Cleanup(srv.Close)

	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default(t.TempDir())
			cfg.Source.Endpoint = srv.URL
			cfg.Storage.Backend = backend

			var out strings.Builder
			app, err := New(cfg, nil, &out)
			require.NoError(t, err)

			ctx := context.Background()
			_, outcomes, end, err := app.TrainingCLI.Solve(ctx, "kings", 0, []string{"h2h3"})
			require.NoError(t, err)
			require.Len(t, outcomes, 1)
			require.Equal(t, "solved", outcomes[0].Verdict)
			require.Equal(t, filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(end.NotePath)))), filepath.Join(cfg.Home, "sessions"))
			require.Contains(t, out.String(), "you play black")

			solved, err := app.ProgressCLI.ListSolved(ctx)
			require.NoError(t, err)
			require.Len(t, solved, 1)
		})
	}
}

func TestOfflineCannotFetch(t *testing.T) {
	t.Parallel()
	cfg := config.Default(t.TempDir())
	cfg.Source.Offline = true
	app, err := New(cfg, nil, &strings.Builder{})
	require.NoError(t, err)
	_, err = app.PuzzleCLI.Prefetch(context.Background(), []string{"kings"})
	require.Error(t, err)
}

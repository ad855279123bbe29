package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	progressout "cpt/internal/modules/progress/adapter/out"
	progressdto "cpt/internal/modules/progress/dto"
	progressservice "cpt/internal/modules/progress/service"
	progressusecase "cpt/internal/modules/progress/usecase"
	puzzleout "cpt/internal/modules/puzzle/adapter/out"
	puzzleport "cpt/internal/modules/puzzle/port/out"
	puzzleservice "cpt/internal/modules/puzzle/service"
	puzzleusecase "cpt/internal/modules/puzzle/usecase"
	trainingin "cpt/internal/modules/training/adapter/in"
	trainingout "cpt/internal/modules/training/adapter/out"
	"cpt/internal/modules/training/dto"
	"cpt/internal/modules/training/service"
	"cpt/internal/modules/training/usecase"
	"cpt/internal/platform/clock"
	apperrors "cpt/internal/platform/errors"
	"cpt/internal/platform/id"
)

const scenarioPuzzle = "1k1r4/pp3pp1/2p1p3/4b3/P3n1P1/8/KPP2PN1/3rBR1R b - - 2 31,b8c7 e1a5 b7b6 f1d1"

func TestSolveScenarioEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	home := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"Puzzle": scenarioPuzzle, "White": "Anand", "Black": "Kramnik", "Event": "WCh"},
		})
	}))
	defer srv.Close()

	puzzleSvc := puzzleservice.NewSetService(clock.SystemClock{},
		puzzleout.NewHTTPSetSource(srv.URL, 5*time.Second, nil),
		mustCache(t, filepath.Join(home, "cpt.db")),
		puzzleout.NewCSVSetReader(), nil)
	puzzles := puzzleusecase.NewInteractor(puzzleSvc)

	progress := progressusecase.NewInteractor(progressservice.NewProgressService(
		progressout.NewFileKVStore(filepath.Join(home, "progress.json"), nil), nil))

	var narration strings.Builder
	ctrl := service.NewController(service.ControllerDeps{
		Clock:    clock.SystemClock{},
		IDs:      id.UUID{},
		Catalog:  trainingout.NewPuzzleCatalogAdapter(puzzles),
		Progress: trainingout.NewProgressRecorderAdapter(progress),
		Rules:    trainingout.NewChessRulesFactory(),
		Board:    trainingout.NewConsoleBoard(&narration, "q"),
		Notes:    trainingout.NewMarkdownSessionLog(home),
	})
	handler := trainingin.NewCLIHandler(usecase.NewInteractor(ctrl))

	snap, outcomes, end, err := handler.Solve(ctx, "wch", 0, []string{"h1h7", "b8a7", "e1a5", "f1d1"})
	require.NoError(t, err)
	require.Equal(t, "white", snap.Orientation)
	require.Equal(t, "Anand", snap.White)

	verdicts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		verdicts = append(verdicts, o.Verdict)
	}
	require.Equal(t, []string{"incorrect", "illegal", "correct", "solved"}, verdicts)
	require.Equal(t, "b7b6", outcomes[2].Reply)
	require.Equal(t, dto.StatsOutput{Presented: 1, Solved: 1, Incorrect: 1, Illegal: 1}, end.Stats)
	require.FileExists(t, end.NotePath)
	require.Contains(t, narration.String(), "solved")

	solved, err := progress.ListSolved(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{scenarioPuzzle}, solved)
	attempts, err := progress.ListAttempts(ctx, progressdto.AttemptsInput{FEN: "1k1r4/pp3pp1/2p1p3/4b3/P3n1P1/8/KPP2PN1/3rBR1R b - - 2 31"})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Equal(t, []string{"h1h7"}, attempts[0].Moves)

	// Everything in the set is solved now.
	_, _, _, err = handler.Solve(ctx, "wch", 0, nil)
	require.True(t, errors.Is(err, apperrors.ErrNoMorePuzzles), "got %v", err)

	_, err = os.Stat(filepath.Join(home, "sessions", "index.md"))
	require.NoError(t, err)
}

func TestSubmitRejectsBadToken(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewController(service.ControllerDeps{}))
	_, err := uc.Submit(context.Background(), dto.SubmitInput{Move: "e9e4"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = uc.LegalTargets(context.Background(), "z1")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = uc.Snapshot(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func mustCache(t *testing.T, path string) puzzleport.SetCache {
	t.Helper()
	cache, err := puzzleout.NewSQLiteSetCache(path)
	require.NoError(t, err)
	return cache
}

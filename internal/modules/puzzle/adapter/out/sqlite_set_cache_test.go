package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	puzzleout "cpt/internal/modules/puzzle/adapter/out"
	"cpt/internal/modules/puzzle/domain"
	apperrors "cpt/internal/platform/errors"
)

func TestSQLiteSetCacheRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, err := puzzleout.NewSQLiteSetCache(filepath.Join(t.TempDir(), "data", "cpt.db"))
	require.NoError(t, err)

	_, err = cache.Load(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	fetchedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	set := domain.Set{
		Category:  "blitz",
		FetchedAt: fetchedAt,
		Entries: []domain.Entry{
			{Raw: "p1", White: "A", Black: "B", Event: "E", Site: "S"},
			{Raw: "p2"},
		},
	}
	require.NoError(t, cache.Save(ctx, set))

	got, err := cache.Load(ctx, "blitz")
	require.NoError(t, err)
	if diff := cmp.Diff(set, got); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}

	// Saving again replaces the previous entries.
	set.Entries = set.Entries[:1]
	require.NoError(t, cache.Save(ctx, set))
	got, err = cache.Load(ctx, "blitz")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())

	cats, err := cache.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.CategorySummary{{Category: "blitz", Count: 1, FetchedAt: fetchedAt}}, cats)
}

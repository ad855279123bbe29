package out_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	puzzledto "cpt/internal/modules/puzzle/dto"
	puzzlein "cpt/internal/modules/puzzle/port/in"
	trainingadapter "cpt/internal/modules/training/adapter/out"
	apperrors "cpt/internal/platform/errors"
)

const (
	firstPuzzle  = "1k1r4/pp3pp1/2p1p3/4b3/P3n1P1/8/KPP2PN1/3rBR1R b - - 2 31,b8c7 e1a5 b7b6 f1d1"
	secondPuzzle = "6k1/P7/8/8/8/8/7K/8 w - - 0 1,h2h3 a7a8q"
)

// setOnlyPuzzles serves LoadSet and nothing else; any other call panics
// through the nil embedded interface.
type setOnlyPuzzles struct {
	puzzlein.Usecase
	keys  []string
	loads int
}

func (p *setOnlyPuzzles) LoadSet(_ context.Context, input puzzledto.LoadSetInput) (puzzledto.SetOutput, error) {
	p.loads++
	out := puzzledto.SetOutput{Category: input.Category}
	for i, key := range p.keys {
		out.Entries = append(out.Entries, puzzledto.EntryOutput{Index: i, Key: key, White: "W", Black: "B"})
	}
	return out, nil
}

func TestCatalogServesLoadedSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	puzzles := &setOnlyPuzzles{keys: []string{firstPuzzle, secondPuzzle}}
	catalog := trainingadapter.NewPuzzleCatalogAdapter(puzzles)

	total, err := catalog.Load(ctx, "wch", false)
	require.NoError(t, err)
	require.Equal(t, 2, total)

	// A refetch elsewhere must not move the live session's cursor.
	puzzles.keys = []string{secondPuzzle}

	idx, err := catalog.Next(ctx, "wch", []string{firstPuzzle}, -1)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	record, err := catalog.Record(ctx, "wch", idx)
	require.NoError(t, err)
	require.Equal(t, secondPuzzle, record.Key())
	require.Equal(t, "W", record.Meta.White)

	record, err = catalog.Record(ctx, "wch", 0)
	require.NoError(t, err)
	require.Equal(t, firstPuzzle, record.Key())
	require.Equal(t, 1, puzzles.loads)

	_, err = catalog.Record(ctx, "wch", 2)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = catalog.Next(ctx, "wch", []string{firstPuzzle, secondPuzzle}, -1)
	require.ErrorIs(t, err, apperrors.ErrNoMorePuzzles)

	total, err = catalog.Load(ctx, "wch", true)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestCatalogLoadsOnFirstUse(t *testing.T) {
	t.Parallel()
	puzzles := &setOnlyPuzzles{keys: []string{firstPuzzle}}
	catalog := trainingadapter.NewPuzzleCatalogAdapter(puzzles)

	idx, err := catalog.Next(context.Background(), "wch", nil, -1)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, puzzles.loads)
}

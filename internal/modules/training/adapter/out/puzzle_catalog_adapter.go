package out

import (
	"context"
	"fmt"
	"sync"

	puzzle "cpt/internal/modules/puzzle/domain"
	puzzledto "cpt/internal/modules/puzzle/dto"
	puzzlein "cpt/internal/modules/puzzle/port/in"
	trainingout "cpt/internal/modules/training/port/out"
	apperrors "cpt/internal/platform/errors"
)

// PuzzleCatalogAdapter keeps the set a session loaded in memory. Record and
// Next answer from that copy, so a set re-fetched elsewhere only shows up on
// the next Load.
type PuzzleCatalogAdapter struct {
	puzzles puzzlein.Usecase

	mu   sync.Mutex
	sets map[string]puzzle.Set
}

func NewPuzzleCatalogAdapter(puzzles puzzlein.Usecase) trainingout.Catalog {
	return &PuzzleCatalogAdapter{puzzles: puzzles, sets: map[string]puzzle.Set{}}
}

func (a *PuzzleCatalogAdapter) Load(ctx context.Context, category string, refresh bool) (int, error) {
	out, err := a.puzzles.LoadSet(ctx, puzzledto.LoadSetInput{Category: category, Refresh: refresh})
	if err != nil {
		return 0, err
	}
	set := puzzle.Set{Category: out.Category, FetchedAt: out.FetchedAt, Entries: make([]puzzle.Entry, len(out.Entries))}
	for i, e := range out.Entries {
		set.Entries[i] = puzzle.Entry{Raw: e.Key, White: e.White, Black: e.Black, Event: e.Event, Site: e.Site}
	}
	a.mu.Lock()
	a.sets[category] = set
	a.mu.Unlock()
	return set.Len(), nil
}

func (a *PuzzleCatalogAdapter) Record(ctx context.Context, category string, index int) (puzzle.Record, error) {
	set, err := a.snapshot(ctx, category)
	if err != nil {
		return puzzle.Record{}, err
	}
	if index < 0 || index >= set.Len() {
		return puzzle.Record{}, fmt.Errorf("%w: puzzle %d of %q", apperrors.ErrNotFound, index+1, category)
	}
	return set.Record(index)
}

func (a *PuzzleCatalogAdapter) Next(ctx context.Context, category string, solved []string, after int) (int, error) {
	set, err := a.snapshot(ctx, category)
	if err != nil {
		return -1, err
	}
	done := make(map[string]struct{}, len(solved))
	for _, key := range solved {
		done[key] = struct{}{}
	}
	idx, ok := puzzle.NextUnsolved(set, done, after)
	if !ok {
		return -1, apperrors.ErrNoMorePuzzles
	}
	return idx, nil
}

func (a *PuzzleCatalogAdapter) snapshot(ctx context.Context, category string) (puzzle.Set, error) {
	a.mu.Lock()
	set, ok := a.sets[category]
	a.mu.Unlock()
	if ok {
		return set, nil
	}
	if _, err := a.Load(ctx, category, false); err != nil {
		return puzzle.Set{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sets[category], nil
}

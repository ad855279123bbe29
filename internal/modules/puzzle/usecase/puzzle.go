package usecase

import (
	"context"

	"cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/puzzle/dto"
	puzzlein "cpt/internal/modules/puzzle/port/in"
	"cpt/internal/modules/puzzle/service"
)

type Interactor struct {
	svc *service.SetService
}

func NewInteractor(svc *service.SetService) puzzlein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) FetchSet(ctx context.Context, input dto.FetchInput) (dto.SetOutput, error) {
	set, err := i.svc.Fetch(ctx, input.Category)
	if err != nil {
		return dto.SetOutput{}, err
	}
	return toSetOutput(set), nil
}

func (i *Interactor) LoadSet(ctx context.Context, input dto.LoadSetInput) (dto.SetOutput, error) {
	set, err := i.svc.Load(ctx, input.Category, input.Refresh)
	if err != nil {
		return dto.SetOutput{}, err
	}
	return toSetOutput(set), nil
}

func (i *Interactor) Prefetch(ctx context.Context, input dto.PrefetchInput) ([]dto.CategoryOutput, error) {
	summaries, err := i.svc.Prefetch(ctx, input.Categories)
	if err != nil {
		return nil, err
	}
	return toCategoryOutputs(summaries), nil
}

func (i *Interactor) ImportCSV(ctx context.Context, input dto.ImportInput) (dto.CategoryOutput, error) {
	summary, err := i.svc.Import(ctx, input.Path, input.Category)
	if err != nil {
		return dto.CategoryOutput{}, err
	}
	return dto.CategoryOutput{Category: summary.Category, Count: summary.Count, FetchedAt: summary.FetchedAt}, nil
}

func (i *Interactor) ListCategories(ctx context.Context) ([]dto.CategoryOutput, error) {
	summaries, err := i.svc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryOutputs(summaries), nil
}

func (i *Interactor) GetRecord(ctx context.Context, input dto.GetRecordInput) (dto.RecordOutput, error) {
	record, err := i.svc.Record(ctx, input.Category, input.Index)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	moves := make([]string, len(record.Moves))
	for idx, m := range record.Moves {
		moves[idx] = m.String()
	}
	return dto.RecordOutput{
		Category:   input.Category,
		Index:      input.Index,
		Key:        record.Key(),
		FEN:        record.FEN,
		Moves:      moves,
		Rating:     record.Meta.Rating,
		Popularity: record.Meta.Popularity,
		Themes:     record.Meta.Themes,
		GameURL:    record.Meta.GameURL,
		Opening:    record.Meta.Opening,
		White:      record.Meta.White,
		Black:      record.Meta.Black,
		Event:      record.Meta.Event,
		Site:       record.Meta.Site,
	}, nil
}

func (i *Interactor) NextUnsolved(ctx context.Context, input dto.NextInput) (dto.NextOutput, error) {
	idx, key, err := i.svc.Next(ctx, input.Category, input.Solved, input.After)
	if err != nil {
		return dto.NextOutput{}, err
	}
	return dto.NextOutput{Index: idx, Key: key}, nil
}

func toSetOutput(set domain.Set) dto.SetOutput {
	entries := make([]dto.EntryOutput, 0, set.Len())
	for idx, entry := range set.Entries {
		entries = append(entries, dto.EntryOutput{
			Index: idx,
			Key:   entry.Raw,
			White: entry.White,
			Black: entry.Black,
			Event: entry.Event,
			Site:  entry.Site,
		})
	}
	return dto.SetOutput{Category: set.Category, FetchedAt: set.FetchedAt, Entries: entries}
}

func toCategoryOutputs(summaries []domain.CategorySummary) []dto.CategoryOutput {
	out := make([]dto.CategoryOutput, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.CategoryOutput{Category: s.Category, Count: s.Count, FetchedAt: s.FetchedAt})
	}
	return out
}

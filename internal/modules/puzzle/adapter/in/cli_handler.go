package in

import (
	"context"

	"cpt/internal/modules/puzzle/dto"
	puzzlein "cpt/internal/modules/puzzle/port/in"
)

type CLIHandler struct {
	usecase puzzlein.Usecase
}

func NewCLIHandler(usecase puzzlein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Prefetch(ctx context.Context, categories []string) ([]dto.CategoryOutput, error) {
	return h.usecase.Prefetch(ctx, dto.PrefetchInput{Categories: categories})
}

func (h CLIHandler) ImportCSV(ctx context.Context, path, category string) (dto.CategoryOutput, error) {
	return h.usecase.ImportCSV(ctx, dto.ImportInput{Path: path, Category: category})
}

func (h CLIHandler) ListCategories(ctx context.Context) ([]dto.CategoryOutput, error) {
	return h.usecase.ListCategories(ctx)
}

func (h CLIHandler) LoadSet(ctx context.Context, category string, refresh bool) (dto.SetOutput, error) {
	return h.usecase.LoadSet(ctx, dto.LoadSetInput{Category: category, Refresh: refresh})
}

func (h CLIHandler) GetRecord(ctx context.Context, category string, index int) (dto.RecordOutput, error) {
	return h.usecase.GetRecord(ctx, dto.GetRecordInput{Category: category, Index: index})
}

func (h CLIHandler) NextUnsolved(ctx context.Context, category string, after int, solved []string) (dto.NextOutput, error) {
	return h.usecase.NextUnsolved(ctx, dto.NextInput{Category: category, After: after, Solved: solved})
}

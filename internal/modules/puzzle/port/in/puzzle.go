package in

import (
	"context"

	"cpt/internal/modules/puzzle/dto"
)

type Usecase interface {
	FetchSet(ctx context.Context, input dto.FetchInput) (dto.SetOutput, error)
	LoadSet(ctx context.Context, input dto.LoadSetInput) (dto.SetOutput, error)
	Prefetch(ctx context.Context, input dto.PrefetchInput) ([]dto.CategoryOutput, error)
	ImportCSV(ctx context.Context, input dto.ImportInput) (dto.CategoryOutput, error)
	ListCategories(ctx context.Context) ([]dto.CategoryOutput, error)
	GetRecord(ctx context.Context, input dto.GetRecordInput) (dto.RecordOutput, error)
	NextUnsolved(ctx context.Context, input dto.NextInput) (dto.NextOutput, error)
}

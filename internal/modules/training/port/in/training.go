package in

import (
	"context"

	"cpt/internal/modules/training/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SnapshotOutput, error)
	Submit(ctx context.Context, input dto.SubmitInput) (dto.OutcomeOutput, error)
	Advance(ctx context.Context) (dto.SnapshotOutput, error)
	ToggleFavorite(ctx context.Context) (dto.FavoriteOutput, error)
	Snapshot(ctx context.Context) (dto.SnapshotOutput, error)
	LegalTargets(ctx context.Context, from string) ([]string, error)
	End(ctx context.Context) (dto.EndOutput, error)
}

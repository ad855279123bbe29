package in

import (
	"context"

	"cpt/internal/modules/progress/dto"
)

type Usecase interface {
	ListSolved(ctx context.Context) ([]string, error)
	MarkSolved(ctx context.Context, input dto.KeyInput) error
	ListFavorites(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, input dto.KeyInput) (dto.ToggleFavoriteOutput, error)
	Status(ctx context.Context, input dto.KeyInput) (dto.StatusOutput, error)
	RecordAttempt(ctx context.Context, input dto.RecordAttemptInput) error
	ListAttempts(ctx context.Context, input dto.AttemptsInput) ([]dto.AttemptOutput, error)
	GetLastViewed(ctx context.Context, category string) (dto.LastViewedOutput, error)
	SetLastViewed(ctx context.Context, input dto.LastViewedInput) error
	Reset(ctx context.Context, input dto.KeyInput) error
}

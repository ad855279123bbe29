package in

import (
	"context"

	"cpt/internal/modules/progress/dto"
	progressin "cpt/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListSolved(ctx context.Context) ([]string, error) {
	return h.usecase.ListSolved(ctx)
}

func (h CLIHandler) ListFavorites(ctx context.Context) ([]string, error) {
	return h.usecase.ListFavorites(ctx)
}

func (h CLIHandler) ToggleFavorite(ctx context.Context, key string) (dto.ToggleFavoriteOutput, error) {
	return h.usecase.ToggleFavorite(ctx, dto.KeyInput{Key: key})
}

func (h CLIHandler) ListAttempts(ctx context.Context, fen string) ([]dto.AttemptOutput, error) {
	return h.usecase.ListAttempts(ctx, dto.AttemptsInput{FEN: fen})
}

func (h CLIHandler) Reset(ctx context.Context, key string) error {
	return h.usecase.Reset(ctx, dto.KeyInput{Key: key})
}

func (h CLIHandler) Status(ctx context.Context, key string) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx, dto.KeyInput{Key: key})
}

package in

import (
	"context"

	"cpt/internal/modules/training/dto"
	trainingin "cpt/internal/modules/training/port/in"
)

type TUIHandler struct {
	usecase trainingin.Usecase
}

func NewTUIHandler(usecase trainingin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context, category string, start int, refresh bool) (dto.SnapshotOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Category: category, Start: start, Refresh: refresh})
}

func (h TUIHandler) Move(ctx context.Context, move string) (dto.OutcomeOutput, error) {
	return h.usecase.Submit(ctx, dto.SubmitInput{Move: move})
}

func (h TUIHandler) Next(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.Advance(ctx)
}

func (h TUIHandler) ToggleFavorite(ctx context.Context) (dto.FavoriteOutput, error) {
	return h.usecase.ToggleFavorite(ctx)
}

func (h TUIHandler) Snapshot(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h TUIHandler) LegalTargets(ctx context.Context, from string) ([]string, error) {
	return h.usecase.LegalTargets(ctx, from)
}

func (h TUIHandler) End(ctx context.Context) (dto.EndOutput, error) {
	return h.usecase.End(ctx)
}

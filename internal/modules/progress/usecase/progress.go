package usecase

import (
	"context"

	"cpt/internal/modules/progress/dto"
	progressin "cpt/internal/modules/progress/port/in"
	"cpt/internal/modules/progress/service"
)

type Interactor struct {
	svc *service.ProgressService
}

func NewInteractor(svc *service.ProgressService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListSolved(ctx context.Context) ([]string, error) {
	solved, err := i.svc.Solved(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{}, solved...), nil
}

func (i *Interactor) MarkSolved(ctx context.Context, input dto.KeyInput) error {
	return i.svc.MarkSolved(ctx, input.Key)
}

func (i *Interactor) ListFavorites(ctx context.Context) ([]string, error) {
	favorites, err := i.svc.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{}, favorites...), nil
}

func (i *Interactor) ToggleFavorite(ctx context.Context, input dto.KeyInput) (dto.ToggleFavoriteOutput, error) {
	on, err := i.svc.ToggleFavorite(ctx, input.Key)
	if err != nil {
		return dto.ToggleFavoriteOutput{}, err
	}
	return dto.ToggleFavoriteOutput{Key: input.Key, Favorite: on}, nil
}

func (i *Interactor) Status(ctx context.Context, input dto.KeyInput) (dto.StatusOutput, error) {
	solved, err := i.svc.IsSolved(ctx, input.Key)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	favorite, err := i.svc.IsFavorite(ctx, input.Key)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{Key: input.Key, Solved: solved, Favorite: favorite}, nil
}

func (i *Interactor) RecordAttempt(ctx context.Context, input dto.RecordAttemptInput) error {
	return i.svc.RecordAttempt(ctx, input.FEN, input.Move)
}

// ListAttempts returns every logged position, or only input.FEN when set.
func (i *Interactor) ListAttempts(ctx context.Context, input dto.AttemptsInput) ([]dto.AttemptOutput, error) {
	attempts, err := i.svc.Attempts(ctx)
	if err != nil {
		return nil, err
	}
	if input.FEN != "" {
		moves, ok := attempts[input.FEN]
		if !ok {
			return []dto.AttemptOutput{}, nil
		}
		return []dto.AttemptOutput{{FEN: input.FEN, Moves: moves}}, nil
	}
	out := make([]dto.AttemptOutput, 0, len(attempts))
	for _, fen := range attempts.Positions() {
		out = append(out, dto.AttemptOutput{FEN: fen, Moves: attempts[fen]})
	}
	return out, nil
}

func (i *Interactor) GetLastViewed(ctx context.Context, category string) (dto.LastViewedOutput, error) {
	idx, ok, err := i.svc.LastViewed(ctx, category)
	if err != nil {
		return dto.LastViewedOutput{}, err
	}
	return dto.LastViewedOutput{Category: category, Index: idx, Found: ok}, nil
}

func (i *Interactor) SetLastViewed(ctx context.Context, input dto.LastViewedInput) error {
	return i.svc.SetLastViewed(ctx, input.Category, input.Index)
}

func (i *Interactor) Reset(ctx context.Context, input dto.KeyInput) error {
	return i.svc.Reset(ctx, input.Key)
}

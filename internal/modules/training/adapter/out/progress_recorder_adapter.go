package out

import (
	"context"

	progressdto "cpt/internal/modules/progress/dto"
	progressin "cpt/internal/modules/progress/port/in"
	trainingout "cpt/internal/modules/training/port/out"
)

type ProgressRecorderAdapter struct {
	progress progressin.Usecase
}

func NewProgressRecorderAdapter(progress progressin.Usecase) trainingout.ProgressRecorder {
	return &ProgressRecorderAdapter{progress: progress}
}

func (a *ProgressRecorderAdapter) MarkSolved(ctx context.Context, key string) error {
	return a.progress.MarkSolved(ctx, progressdto.KeyInput{Key: key})
}

func (a *ProgressRecorderAdapter) RecordAttempt(ctx context.Context, fen, move string) error {
	return a.progress.RecordAttempt(ctx, progressdto.RecordAttemptInput{FEN: fen, Move: move})
}

func (a *ProgressRecorderAdapter) ToggleFavorite(ctx context.Context, key string) (bool, error) {
	out, err := a.progress.ToggleFavorite(ctx, progressdto.KeyInput{Key: key})
	if err != nil {
		return false, err
	}
	return out.Favorite, nil
}

func (a *ProgressRecorderAdapter) Status(ctx context.Context, key string) (bool, bool, error) {
	out, err := a.progress.Status(ctx, progressdto.KeyInput{Key: key})
	if err != nil {
		return false, false, err
	}
	return out.Solved, out.Favorite, nil
}

func (a *ProgressRecorderAdapter) Solved(ctx context.Context) ([]string, error) {
	return a.progress.ListSolved(ctx)
}

func (a *ProgressRecorderAdapter) LastViewed(ctx context.Context, category string) (int, bool, error) {
	out, err := a.progress.GetLastViewed(ctx, category)
	if err != nil {
		return 0, false, err
	}
	return out.Index, out.Found, nil
}

func (a *ProgressRecorderAdapter) SetLastViewed(ctx context.Context, category string, index int) error {
	return a.progress.SetLastViewed(ctx, progressdto.LastViewedInput{Category: category, Index: index})
}

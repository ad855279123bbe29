package usecase

import (
	"context"
	"fmt"
	"strings"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	"cpt/internal/modules/training/dto"
	trainingin "cpt/internal/modules/training/port/in"
	"cpt/internal/modules/training/service"
	apperrors "cpt/internal/platform/errors"
)

type Interactor struct {
	ctrl *service.Controller
}

func NewInteractor(ctrl *service.Controller) trainingin.Usecase {
	return &Interactor{ctrl: ctrl}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SnapshotOutput, error) {
	snap, err := i.ctrl.Start(ctx, input.Category, input.Start, input.Refresh)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toSnapshotOutput(snap), nil
}

func (i *Interactor) Submit(ctx context.Context, input dto.SubmitInput) (dto.OutcomeOutput, error) {
	move, err := puzzle.ParseMove(strings.ToLower(strings.TrimSpace(input.Move)))
	if err != nil {
		return dto.OutcomeOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	outcome, err := i.ctrl.Submit(ctx, move)
	if err != nil {
		return dto.OutcomeOutput{}, err
	}
	out := dto.OutcomeOutput{
		Verdict:   outcome.Verdict.String(),
		Move:      outcome.Move.String(),
		MoveIndex: outcome.MoveIndex,
		State:     outcome.State.String(),
	}
	if outcome.Reply != nil {
		out.Reply = outcome.Reply.String()
	}
	return out, nil
}

func (i *Interactor) Advance(ctx context.Context) (dto.SnapshotOutput, error) {
	snap, err := i.ctrl.Advance(ctx)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toSnapshotOutput(snap), nil
}

func (i *Interactor) ToggleFavorite(ctx context.Context) (dto.FavoriteOutput, error) {
	key, on, err := i.ctrl.ToggleFavorite(ctx)
	if err != nil {
		return dto.FavoriteOutput{}, err
	}
	return dto.FavoriteOutput{Key: key, Favorite: on}, nil
}

func (i *Interactor) Snapshot(_ context.Context) (dto.SnapshotOutput, error) {
	snap, err := i.ctrl.Snapshot()
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toSnapshotOutput(snap), nil
}

func (i *Interactor) LegalTargets(_ context.Context, from string) ([]string, error) {
	sq := puzzle.Square(strings.ToLower(strings.TrimSpace(from)))
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: bad square %q", apperrors.ErrInvalidInput, from)
	}
	targets := i.ctrl.LegalTargets(sq)
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}
	return out, nil
}

func (i *Interactor) End(ctx context.Context) (dto.EndOutput, error) {
	session, path, err := i.ctrl.End(ctx)
	if err != nil {
		return dto.EndOutput{}, err
	}
	return dto.EndOutput{
		SessionID: session.ID,
		Category:  session.Category,
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
		NotePath:  path,
		Solved:    session.Solved,
		Stats:     toStatsOutput(session.Stats),
	}, nil
}

func toSnapshotOutput(snap domain.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		SessionID:   snap.SessionID,
		Category:    snap.Category,
		Index:       snap.Index,
		Total:       snap.Total,
		Key:         snap.Key,
		StartFEN:    snap.StartFEN,
		FEN:         snap.FEN,
		Orientation: snap.Orientation.String(),
		State:       snap.State.String(),
		MoveIndex:   snap.MoveIndex,
		TotalMoves:  snap.TotalMoves,
		Favorite:    snap.Favorite,
		Solved:      snap.Solved,
		Rating:      snap.Meta.Rating,
		Themes:      snap.Meta.Themes,
		GameURL:     snap.Meta.GameURL,
		Opening:     snap.Meta.Opening,
		White:       snap.Meta.White,
		Black:       snap.Meta.Black,
		Event:       snap.Meta.Event,
		Site:        snap.Meta.Site,
		Stats:       toStatsOutput(snap.Stats),
	}
}

func toStatsOutput(s domain.Stats) dto.StatsOutput {
	return dto.StatsOutput{
		Presented: s.Presented,
		Solved:    s.Solved,
		Incorrect: s.Incorrect,
		Illegal:   s.Illegal,
		Skipped:   s.Skipped,
	}
}

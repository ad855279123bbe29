package out

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	"cpt/internal/modules/training/dto"
	trainingout "cpt/internal/modules/training/port/out"
	apperrors "cpt/internal/platform/errors"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// TeaBoard forwards board calls to a Bubble Tea program and waits for the
// view to acknowledge the ones that animate or ask the player.
type TeaBoard struct {
	mu     sync.RWMutex
	sender Sender
}

func NewTeaBoard() *TeaBoard {
	return &TeaBoard{}
}

var _ trainingout.Board = (*TeaBoard)(nil)

// Attach sets the program once it exists; calls before that fail with
// apperrors.ErrNotConfigured.
func (b *TeaBoard) Attach(sender Sender) {
	b.mu.Lock()
	b.sender = sender
	b.mu.Unlock()
}

func (b *TeaBoard) Present(ctx context.Context, fen string, orientation domain.Color) error {
	done := make(chan struct{})
	if err := b.send(ctx, dto.BoardPresentMsg{FEN: fen, Orientation: orientation.String(), Done: done}); err != nil {
		return err
	}
	return awaitDone(ctx, done)
}

func (b *TeaBoard) SetPosition(ctx context.Context, fen string, animate bool) error {
	done := make(chan struct{})
	if err := b.send(ctx, dto.BoardPositionMsg{FEN: fen, Animate: animate, Done: done}); err != nil {
		return err
	}
	return awaitDone(ctx, done)
}

func (b *TeaBoard) ShowMarker(ctx context.Context, square domain.Square, kind domain.MarkerKind) error {
	return b.send(ctx, dto.BoardMarkerMsg{Square: string(square), Correct: kind == domain.MarkerCorrect})
}

func (b *TeaBoard) ClearMarkers(ctx context.Context) error {
	return b.send(ctx, dto.BoardClearMarkersMsg{})
}

func (b *TeaBoard) EnableInput(ctx context.Context, side domain.Color) error {
	return b.send(ctx, dto.BoardInputMsg{Enabled: true, Side: side.String()})
}

func (b *TeaBoard) DisableInput(ctx context.Context) error {
	return b.send(ctx, dto.BoardInputMsg{Enabled: false})
}

func (b *TeaBoard) RequestPromotion(ctx context.Context, from, to domain.Square, side domain.Color) (domain.PieceKind, bool, error) {
	choices := make([]string, len(puzzle.PromotionPieces))
	for i, p := range puzzle.PromotionPieces {
		choices[i] = string(p)
	}
	reply := make(chan string, 1)
	msg := dto.BoardPromotionMsg{From: string(from), To: string(to), Side: side.String(), Choices: choices, Reply: reply}
	if err := b.send(ctx, msg); err != nil {
		return puzzle.NoPromotion, false, err
	}
	select {
	case <-ctx.Done():
		return puzzle.NoPromotion, false, context.Cause(ctx)
	case piece := <-reply:
		kind := domain.PieceKind(piece)
		if !kind.Valid() {
			return puzzle.NoPromotion, false, nil
		}
		return kind, true, nil
	}
}

func (b *TeaBoard) ShowSolved(ctx context.Context) error {
	return b.send(ctx, dto.BoardSolvedMsg{})
}

func (b *TeaBoard) send(ctx context.Context, msg tea.Msg) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	b.mu.RLock()
	sender := b.sender
	b.mu.RUnlock()
	if sender == nil {
		return apperrors.ErrNotConfigured
	}
	sender.Send(msg)
	return nil
}

func awaitDone(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-done:
		return nil
	}
}

package out

import (
	"context"
	"fmt"
	"io"
	"sync"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
)

// ConsoleBoard is a headless board that narrates to w. Promotion requests
// are answered with a fixed piece; NoPromotion dismisses them.
type ConsoleBoard struct {
	mu        sync.Mutex
	w         io.Writer
	promotion domain.PieceKind
	fen       string
}

func NewConsoleBoard(w io.Writer, promotion domain.PieceKind) trainingout.Board {
	return &ConsoleBoard{w: w, promotion: promotion}
}

func (b *ConsoleBoard) Present(ctx context.Context, fen string, orientation domain.Color) error {
	return b.printf(ctx, "puzzle %s (you play %s)\n", fen, orientation)
}

func (b *ConsoleBoard) SetPosition(ctx context.Context, fen string, animate bool) error {
	b.mu.Lock()
	changed := b.fen != fen
	b.fen = fen
	b.mu.Unlock()
	if !changed {
		return context.Cause(ctx)
	}
	return b.printf(ctx, "  %s\n", fen)
}

func (b *ConsoleBoard) ShowMarker(ctx context.Context, square domain.Square, kind domain.MarkerKind) error {
	mark := "ok"
	if kind == domain.MarkerIncorrect {
		mark = "wrong"
	}
	return b.printf(ctx, "  %s %s\n", mark, square)
}

func (b *ConsoleBoard) ClearMarkers(ctx context.Context) error { return context.Cause(ctx) }

func (b *ConsoleBoard) EnableInput(ctx context.Context, _ domain.Color) error {
	return context.Cause(ctx)
}

func (b *ConsoleBoard) DisableInput(ctx context.Context) error { return context.Cause(ctx) }

func (b *ConsoleBoard) RequestPromotion(ctx context.Context, from, to domain.Square, _ domain.Color) (domain.PieceKind, bool, error) {
	if err := context.Cause(ctx); err != nil {
		return puzzle.NoPromotion, false, err
	}
	if b.promotion == puzzle.NoPromotion {
		return puzzle.NoPromotion, false, b.printf(ctx, "  promotion %s%s dismissed\n", from, to)
	}
	return b.promotion, true, b.printf(ctx, "  promotion %s%s to %s\n", from, to, b.promotion)
}

func (b *ConsoleBoard) ShowSolved(ctx context.Context) error {
	return b.printf(ctx, "solved\n")
}

func (b *ConsoleBoard) printf(ctx context.Context, format string, args ...any) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := fmt.Fprintf(b.w, format, args...)
	return err
}

package out

import (
	"context"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
)

// RulesEngine is the chess rules provider for one puzzle. It is not safe for
// concurrent use.
type RulesEngine interface {
	Position() string
	Turn() domain.Color
	IsLegal(m domain.Move) bool
	// NeedsPromotion reports whether from-to is legal only with a promotion piece.
	NeedsPromotion(from, to domain.Square) bool
	LegalTargets(from domain.Square) []domain.Square
	Apply(m domain.Move) error
	Undo() error
}

type RulesFactory interface {
	New(fen string) (RulesEngine, error)
}

// Board is the rendering surface of one puzzle. Every call may block until
// the board has caught up and must return early once ctx is done.
type Board interface {
	Present(ctx context.Context, fen string, orientation domain.Color) error
	SetPosition(ctx context.Context, fen string, animate bool) error
	ShowMarker(ctx context.Context, square domain.Square, kind domain.MarkerKind) error
	ClearMarkers(ctx context.Context) error
	EnableInput(ctx context.Context, side domain.Color) error
	DisableInput(ctx context.Context) error
	// RequestPromotion asks for a promotion piece. ok is false when the
	// player dismissed the choice.
	RequestPromotion(ctx context.Context, from, to domain.Square, side domain.Color) (piece domain.PieceKind, ok bool, err error)
	ShowSolved(ctx context.Context) error
}

type ProgressRecorder interface {
	MarkSolved(ctx context.Context, key string) error
	RecordAttempt(ctx context.Context, fen, move string) error
	ToggleFavorite(ctx context.Context, key string) (bool, error)
	Status(ctx context.Context, key string) (solved, favorite bool, err error)
	Solved(ctx context.Context) ([]string, error)
	LastViewed(ctx context.Context, category string) (int, bool, error)
	SetLastViewed(ctx context.Context, category string, index int) error
}

// Catalog gives access to the puzzle sets.
type Catalog interface {
	Load(ctx context.Context, category string, refresh bool) (int, error)
	Record(ctx context.Context, category string, index int) (puzzle.Record, error)
	Next(ctx context.Context, category string, solved []string, after int) (int, error)
}

type SessionLog interface {
	Save(ctx context.Context, session domain.Session) (string, error)
}

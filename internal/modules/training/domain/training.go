package domain

import (
	"time"

	puzzle "cpt/internal/modules/puzzle/domain"
)

const SchemaVersion = 1

type (
	Move      = puzzle.Move
	Square    = puzzle.Square
	PieceKind = puzzle.PieceKind
)

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// State is the move sequencer's position in its lifecycle.
type State int

const (
	AwaitingAutoMove State = iota
	AwaitingUserMove
	Validating
	Correct
	Incorrect
	Solved
)

func (s State) String() string {
	switch s {
	case AwaitingAutoMove:
		return "awaiting_auto_move"
	case AwaitingUserMove:
		return "awaiting_user_move"
	case Validating:
		return "validating"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Solved:
		return "solved"
	default:
		return "unknown"
	}
}

// Verdict is the judgement of one submitted move. Illegal and Cancelled
// leave the puzzle untouched.
type Verdict int

const (
	VerdictIllegal Verdict = iota
	VerdictCancelled
	VerdictCorrect
	VerdictIncorrect
	VerdictSolved
)

func (v Verdict) String() string {
	switch v {
	case VerdictIllegal:
		return "illegal"
	case VerdictCancelled:
		return "cancelled"
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	case VerdictSolved:
		return "solved"
	default:
		return "unknown"
	}
}

type MarkerKind int

const (
	MarkerCorrect MarkerKind = iota
	MarkerIncorrect
)

// Outcome reports what a Submit did. Reply is set when the opponent answered.
type Outcome struct {
	Verdict   Verdict
	Move      Move
	Reply     *Move
	MoveIndex int
	State     State
}

type Pacing struct {
	SeedDelay   time.Duration
	ReplyDelay  time.Duration
	RevertDelay time.Duration
}

type Stats struct {
	Presented int
	Solved    int
	Incorrect int
	Illegal   int
	Skipped   int
}

// Record folds one outcome into the counters.
func (s *Stats) Record(v Verdict) {
	switch v {
	case VerdictSolved:
		s.Solved++
	case VerdictIncorrect:
		s.Incorrect++
	case VerdictIllegal:
		s.Illegal++
	}
}

// Session is one training run over a category. Index is the 0-based cursor
// into the set.
type Session struct {
	ID        string
	Category  string
	StartedAt time.Time
	EndedAt   time.Time
	Index     int
	Solved    []string
	Stats     Stats
}

// Snapshot is a read-only view of the active puzzle for renderers.
type Snapshot struct {
	SessionID   string
	Category    string
	Index       int
	Total       int
	Key         string
	StartFEN    string
	FEN         string
	Orientation Color
	State       State
	MoveIndex   int
	TotalMoves  int
	Favorite    bool
	Solved      bool
	Stats       Stats
	Meta        puzzle.Metadata
}

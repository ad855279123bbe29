package out

import (
	"fmt"

	"github.com/notnil/chess"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
)

type ChessRulesFactory struct{}

func NewChessRulesFactory() trainingout.RulesFactory {
	return ChessRulesFactory{}
}

func (ChessRulesFactory) New(fen string) (trainingout.RulesEngine, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("load position: %w", err)
	}
	return &ChessRules{game: chess.NewGame(opt)}, nil
}

// ChessRules adapts a notnil/chess game. Undo replays from the FEN saved
// before each applied move.
type ChessRules struct {
	game    *chess.Game
	history []string
}

func (r *ChessRules) Position() string {
	return r.game.Position().String()
}

func (r *ChessRules) Turn() domain.Color {
	if r.game.Position().Turn() == chess.Black {
		return domain.Black
	}
	return domain.White
}

func (r *ChessRules) IsLegal(m domain.Move) bool {
	_, ok := r.find(m)
	return ok
}

func (r *ChessRules) NeedsPromotion(from, to domain.Square) bool {
	bare := domain.Move{From: from, To: to}
	for _, legal := range r.legal() {
		if legal.move.SameSquares(bare) && legal.move.Promotion != puzzle.NoPromotion {
			return true
		}
	}
	return false
}

func (r *ChessRules) LegalTargets(from domain.Square) []domain.Square {
	seen := map[domain.Square]bool{}
	var out []domain.Square
	for _, legal := range r.legal() {
		if legal.move.From != from || seen[legal.move.To] {
			continue
		}
		seen[legal.move.To] = true
		out = append(out, legal.move.To)
	}
	return out
}

func (r *ChessRules) Apply(m domain.Move) error {
	native, ok := r.find(m)
	if !ok {
		return fmt.Errorf("illegal move %s in %s", m, r.Position())
	}
	before := r.Position()
	if err := r.game.Move(native); err != nil {
		return fmt.Errorf("apply %s: %w", m, err)
	}
	r.history = append(r.history, before)
	return nil
}

func (r *ChessRules) Undo() error {
	if len(r.history) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	last := r.history[len(r.history)-1]
	opt, err := chess.FEN(last)
	if err != nil {
		return fmt.Errorf("restore position: %w", err)
	}
	r.game = chess.NewGame(opt)
	r.history = r.history[:len(r.history)-1]
	return nil
}

type legalMove struct {
	move   domain.Move
	native *chess.Move
}

func (r *ChessRules) legal() []legalMove {
	pos := r.game.Position()
	notation := chess.UCINotation{}
	valid := r.game.ValidMoves()
	out := make([]legalMove, 0, len(valid))
	for _, native := range valid {
		m, err := puzzle.ParseMove(notation.Encode(pos, native))
		if err != nil {
			continue
		}
		out = append(out, legalMove{move: m, native: native})
	}
	return out
}

func (r *ChessRules) find(m domain.Move) (*chess.Move, bool) {
	for _, legal := range r.legal() {
		if legal.move.Equal(m) {
			return legal.native, true
		}
	}
	return nil, false
}

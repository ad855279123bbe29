package domain

import (
	"fmt"
	"slices"
)

// Square is an algebraic board coordinate such as "e4".
type Square string

func (s Square) Valid() bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

// PieceKind is the one-letter promotion code used in move tokens.
type PieceKind string

const (
	NoPromotion PieceKind = ""
	Queen       PieceKind = "q"
	Rook        PieceKind = "r"
	Bishop      PieceKind = "b"
	Knight      PieceKind = "n"
)

var PromotionPieces = []PieceKind{Queen, Rook, Bishop, Knight}

func (p PieceKind) Valid() bool {
	return slices.Contains(PromotionPieces, p)
}

// Move is a from/to pair with an optional promotion piece. Two moves are
// equal when all three fields are equal.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// ParseMove decodes a 4 or 5 character token: from-square, to-square and an
// optional promotion code.
func ParseMove(token string) (Move, error) {
	if len(token) != 4 && len(token) != 5 {
		return Move{}, fmt.Errorf("move %q: expected 4 or 5 characters", token)
	}
	m := Move{From: Square(token[0:2]), To: Square(token[2:4])}
	if !m.From.Valid() {
		return Move{}, fmt.Errorf("move %q: bad from-square %q", token, m.From)
	}
	if !m.To.Valid() {
		return Move{}, fmt.Errorf("move %q: bad to-square %q", token, m.To)
	}
	if len(token) == 5 {
		m.Promotion = PieceKind(token[4:])
		if !m.Promotion.Valid() {
			return Move{}, fmt.Errorf("move %q: bad promotion piece %q", token, m.Promotion)
		}
	}
	return m, nil
}

// String renders the move back to its fromto[promotion] token.
func (m Move) String() string {
	return string(m.From) + string(m.To) + string(m.Promotion)
}

func (m Move) Equal(other Move) bool {
	return m == other
}

// SameSquares reports whether both moves travel between the same squares,
// ignoring promotion.
func (m Move) SameSquares(other Move) bool {
	return m.From == other.From && m.To == other.To
}

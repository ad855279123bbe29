package board

import (
	"strings"
	"unicode"
)

// placement maps occupied squares of the FEN's first field to their piece
// letter. Anything unparsable yields an empty board.
func placement(fen string) map[string]rune {
	grid := map[string]rune{}
	field, _, _ := strings.Cut(strings.TrimSpace(fen), " ")
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return grid
	}
	for i, rank := range ranks {
		file := 0
		for _, r := range rank {
			if unicode.IsDigit(r) {
				file += int(r - '0')
				continue
			}
			if file < 8 {
				grid[string(rune('a'+file))+string(rune('8'-i))] = r
			}
			file++
		}
	}
	return grid
}

// squareAt converts a screen row and column into a square name. White sees
// rank 8 on top, black sees rank 1 on top with the files mirrored.
func squareAt(orientation string, row, col int) string {
	if orientation == "black" {
		return string(rune('h'-col)) + string(rune('1'+row))
	}
	return string(rune('a'+col)) + string(rune('8'-row))
}

func light(square string) bool {
	return (int(square[0]-'a')+int(square[1]-'1'))%2 == 1
}

func isWhite(piece rune) bool {
	return unicode.IsUpper(piece)
}

var glyphs = map[rune]string{
	'K': "♔", 'Q': "♕", 'R': "♖", 'B': "♗", 'N': "♘", 'P': "♙",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

func glyph(piece rune) string {
	if g, ok := glyphs[piece]; ok {
		return g
	}
	return string(piece)
}

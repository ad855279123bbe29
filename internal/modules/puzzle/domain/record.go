package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "cpt/internal/platform/errors"
)

// MinMoves is the seed move plus at least one move for the solver.
const MinMoves = 2

// Field positions of the canonical record string.
const (
	fieldFEN = iota
	fieldMoves
	fieldRating
	fieldRatingDeviation
	fieldPopularity
	fieldPlays
	fieldThemes
	fieldGameURL
	fieldOpening
)

// MalformedPuzzleError reports a record string that cannot be played.
type MalformedPuzzleError struct {
	Raw    string
	Reason string
}

func (e *MalformedPuzzleError) Error() string {
	return fmt.Sprintf("malformed puzzle %q: %s", truncate(e.Raw, 48), e.Reason)
}

func (e *MalformedPuzzleError) Unwrap() error { return apperrors.ErrMalformedPuzzle }

type Metadata struct {
	Rating          int
	RatingDeviation int
	Popularity      int
	Plays           int
	Themes          []string
	GameURL         string
	Opening         []string
	White           string
	Black           string
	Event           string
	Site            string
}

// Record is one parsed puzzle. Raw is the string it was parsed from and
// doubles as the persistent key.
type Record struct {
	Raw   string
	FEN   string
	Moves []Move
	Meta  Metadata
}

// ParseRecord decodes fen,moves[,rating,rd,popularity,plays,themes,url,opening...].
// Only the first two fields are required; the rest is display metadata.
func ParseRecord(raw string) (Record, error) {
	fields := strings.Split(raw, ",")
	if len(fields) < 2 {
		return Record{}, &MalformedPuzzleError{Raw: raw, Reason: "expected at least fen and moves fields"}
	}
	fen := strings.TrimSpace(fields[fieldFEN])
	if fen == "" || !strings.Contains(fen, "/") {
		return Record{}, &MalformedPuzzleError{Raw: raw, Reason: "missing board position"}
	}
	tokens := strings.Fields(fields[fieldMoves])
	if len(tokens) < MinMoves {
		return Record{}, &MalformedPuzzleError{Raw: raw, Reason: fmt.Sprintf("expected at least %d moves, got %d", MinMoves, len(tokens))}
	}
	moves := make([]Move, 0, len(tokens))
	for _, token := range tokens {
		m, err := ParseMove(token)
		if err != nil {
			return Record{}, &MalformedPuzzleError{Raw: raw, Reason: err.Error()}
		}
		moves = append(moves, m)
	}
	return Record{Raw: raw, FEN: fen, Moves: moves, Meta: parseMetadata(fields)}, nil
}

func (r Record) Key() string { return r.Raw }

// MovesString re-serializes the expected moves as space separated tokens.
func (r Record) MovesString() string {
	return FormatMoves(r.Moves)
}

func FormatMoves(moves []Move) string {
	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.String()
	}
	return strings.Join(tokens, " ")
}

// FormatRecord builds a canonical record string from its parts.
func FormatRecord(fen, moves string, meta ...string) string {
	parts := append([]string{fen, moves}, meta...)
	for len(parts) > 2 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ",")
}

func parseMetadata(fields []string) Metadata {
	at := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	num := func(i int) int {
		n, _ := strconv.Atoi(at(i))
		return n
	}
	meta := Metadata{
		Rating:          num(fieldRating),
		RatingDeviation: num(fieldRatingDeviation),
		Popularity:      num(fieldPopularity),
		Plays:           num(fieldPlays),
		Themes:          strings.Fields(at(fieldThemes)),
		GameURL:         at(fieldGameURL),
	}
	// Opening tags may themselves have been split on commas.
	if len(fields) > fieldOpening {
		for _, f := range fields[fieldOpening:] {
			meta.Opening = append(meta.Opening, strings.Fields(f)...)
		}
	}
	return meta
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

package out

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cpt/internal/modules/puzzle/domain"
	puzzleout "cpt/internal/modules/puzzle/port/out"
	apperrors "cpt/internal/platform/errors"
)

// lichessColumns is the column order of the Lichess puzzle database export.
var lichessColumns = []string{"PuzzleId", "FEN", "Moves", "Rating", "RatingDeviation", "Popularity", "NbPlays", "Themes", "GameUrl", "OpeningTags"}

// CSVSetReader converts a Lichess puzzle CSV (id first) into canonical
// fen,moves,... entries.
type CSVSetReader struct{}

func NewCSVSetReader() puzzleout.SetFileReader {
	return CSVSetReader{}
}

func (CSVSetReader) Read(ctx context.Context, path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open puzzle csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = false

	columns := map[string]int{}
	for i, name := range lichessColumns {
		columns[name] = i
	}

	var entries []domain.Entry
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read puzzle csv line %d: %w", line, err)
		}
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "PuzzleId") {
			columns = headerColumns(row)
			if _, ok := columns["FEN"]; !ok {
				return nil, fmt.Errorf("%w: csv header has no FEN column", apperrors.ErrInvalidInput)
			}
			if _, ok := columns["Moves"]; !ok {
				return nil, fmt.Errorf("%w: csv header has no Moves column", apperrors.ErrInvalidInput)
			}
			continue
		}
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		raw := domain.FormatRecord(field("FEN"), field("Moves"),
			field("Rating"), field("RatingDeviation"), field("Popularity"), field("NbPlays"),
			field("Themes"), field("GameUrl"), field("OpeningTags"))
		entries = append(entries, domain.Entry{Raw: raw, Site: field("GameUrl")})
	}
	return entries, nil
}

func headerColumns(row []string) map[string]int {
	out := make(map[string]int, len(row))
	for i, name := range row {
		for _, known := range lichessColumns {
			if strings.EqualFold(strings.TrimSpace(name), known) {
				out[known] = i
			}
		}
	}
	return out
}

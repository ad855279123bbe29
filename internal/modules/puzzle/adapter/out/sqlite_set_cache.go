package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cpt/internal/modules/puzzle/domain"
	puzzleout "cpt/internal/modules/puzzle/port/out"
	apperrors "cpt/internal/platform/errors"
	"cpt/internal/platform/sqlitedb"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteSetCache struct {
	db *sql.DB
}

func NewSQLiteSetCache(dbPath string) (puzzleout.SetCache, error) {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	cache := &SQLiteSetCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return cache, nil
}

func (s *SQLiteSetCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS puzzle_sets (
  category TEXT PRIMARY KEY,
  entry_count INTEGER NOT NULL,
  fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS puzzle_entries (
  category TEXT NOT NULL,
  position INTEGER NOT NULL,
  raw TEXT NOT NULL,
  white TEXT,
  black TEXT,
  event TEXT,
  site TEXT,
  PRIMARY KEY (category, position)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create puzzle tables: %w", err)
	}
	return nil
}

func (s *SQLiteSetCache) Save(ctx context.Context, set domain.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save set: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM puzzle_entries WHERE category = ?`, set.Category); err != nil {
		return fmt.Errorf("clear set entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO puzzle_entries (category, position, raw, white, black, event, site) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()
	for i, entry := range set.Entries {
		if _, err := stmt.ExecContext(ctx, set.Category, i, entry.Raw, entry.White, entry.Black, entry.Event, entry.Site); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	const upsert = `
INSERT INTO puzzle_sets (category, entry_count, fetched_at)
VALUES (?, ?, ?)
ON CONFLICT(category) DO UPDATE SET
  entry_count=excluded.entry_count,
  fetched_at=excluded.fetched_at;
`
	if _, err := tx.ExecContext(ctx, upsert, set.Category, set.Len(), set.FetchedAt.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("upsert set: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set: %w", err)
	}
	return nil
}

func (s *SQLiteSetCache) Load(ctx context.Context, category string) (domain.Set, error) {
	var fetchedAt string
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM puzzle_sets WHERE category = ?`, category).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Set{}, fmt.Errorf("%w: puzzle set %q", apperrors.ErrNotFound, category)
	}
	if err != nil {
		return domain.Set{}, fmt.Errorf("load set: %w", err)
	}
	set := domain.Set{Category: category, FetchedAt: parseTime(fetchedAt)}

	rows, err := s.db.QueryContext(ctx, `SELECT raw, white, black, event, site FROM puzzle_entries WHERE category = ? ORDER BY position`, category)
	if err != nil {
		return domain.Set{}, fmt.Errorf("load set entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entry domain.Entry
		var white, black, event, site sql.NullString
		if err := rows.Scan(&entry.Raw, &white, &black, &event, &site); err != nil {
			return domain.Set{}, fmt.Errorf("scan entry: %w", err)
		}
		entry.White, entry.Black, entry.Event, entry.Site = white.String, black.String, event.String, site.String
		set.Entries = append(set.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.Set{}, fmt.Errorf("iterate entries: %w", err)
	}
	return set, nil
}

func (s *SQLiteSetCache) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, entry_count, fetched_at FROM puzzle_sets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()
	var out []domain.CategorySummary
	for rows.Next() {
		var summary domain.CategorySummary
		var fetchedAt string
		if err := rows.Scan(&summary.Category, &summary.Count, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		summary.FetchedAt = parseTime(fetchedAt)
		out = append(out, summary)
	}
	return out, rows.Err()
}

func parseTime(raw string) time.Time {
	t, _ := time.Parse(timeLayout, raw)
	return t
}

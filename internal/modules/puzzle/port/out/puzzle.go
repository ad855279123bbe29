package out

import (
	"context"

	"cpt/internal/modules/puzzle/domain"
)

// SetSource downloads a puzzle set. Failures are *domain.FetchError.
type SetSource interface {
	Fetch(ctx context.Context, category string) (domain.Set, error)
}

type SetCache interface {
	Save(ctx context.Context, set domain.Set) error
	Load(ctx context.Context, category string) (domain.Set, error)
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
}

// SetFileReader reads puzzle entries from a local export.
type SetFileReader interface {
	Read(ctx context.Context, path string) ([]domain.Entry, error)
}

package domain

import (
	"fmt"

	apperrors "cpt/internal/platform/errors"
)

// FetchError reports a failed download of a puzzle set. It matches both
// apperrors.ErrFetch and the underlying cause.
type FetchError struct {
	Category string
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch puzzle set %q: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("fetch puzzle set %q from %s: %v", e.Category, e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{apperrors.ErrFetch, e.Err} }

package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrNotConfigured   = errors.New("dependency not configured")
	ErrFetch           = errors.New("fetch puzzle set")
	ErrMalformedPuzzle = errors.New("malformed puzzle")
	ErrNoMorePuzzles   = errors.New("no more puzzles")
	ErrInputDisabled   = errors.New("move input disabled")
	ErrPuzzleSolved    = errors.New("puzzle already solved")
	ErrStalePuzzle     = errors.New("puzzle is no longer active")
)

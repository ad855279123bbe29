package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	apperrors "cpt/internal/platform/errors"
)

// Persistent keys.
const (
	KeySolved     = "solved_puzzles"
	KeyFavorites  = "favorites"
	KeyAttempts   = "attempts"
	KeyLastViewed = "last_viewed"
)

var Keys = []string{KeySolved, KeyFavorites, KeyAttempts, KeyLastViewed}

func ValidKey(key string) error {
	for _, k := range Keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown progress key %q", apperrors.ErrInvalidInput, key)
}

// OrderedSet keeps puzzle keys in insertion order without duplicates.
type OrderedSet []string

func (s OrderedSet) Contains(key string) bool {
	for _, k := range s {
		if k == key {
			return true
		}
	}
	return false
}

// Add appends key unless present. The boolean reports whether it changed.
func (s OrderedSet) Add(key string) (OrderedSet, bool) {
	if s.Contains(key) {
		return s, false
	}
	return append(s, key), true
}

func (s OrderedSet) Remove(key string) OrderedSet {
	out := make(OrderedSet, 0, len(s))
	for _, k := range s {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

// Toggle adds a missing key or removes a present one and reports membership
// after the call.
func (s OrderedSet) Toggle(key string) (OrderedSet, bool) {
	if s.Contains(key) {
		return s.Remove(key), false
	}
	return append(s, key), true
}

// Attempts maps a starting position to the wrong moves tried from it.
type Attempts map[string][]string

// Record appends move for fen once. The boolean reports whether it changed.
func (a Attempts) Record(fen, move string) bool {
	for _, m := range a[fen] {
		if m == move {
			return false
		}
	}
	a[fen] = append(a[fen], move)
	return true
}

func (a Attempts) Positions() []string {
	out := make([]string, 0, len(a))
	for fen := range a {
		out = append(out, fen)
	}
	sort.Strings(out)
	return out
}

// LastViewed maps a category to the 0-based index of the last shown puzzle.
type LastViewed map[string]int

func DecodeSet(raw string) (OrderedSet, error) {
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, err
	}
	var out OrderedSet
	for _, k := range keys {
		out, _ = out.Add(k)
	}
	return out, nil
}

func DecodeAttempts(raw string) (Attempts, error) {
	out := Attempts{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Attempts{}
	}
	return out, nil
}

func DecodeLastViewed(raw string) (LastViewed, error) {
	out := LastViewed{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = LastViewed{}
	}
	return out, nil
}

func Encode(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

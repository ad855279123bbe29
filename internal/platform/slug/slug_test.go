package slug_test

import (
	"strings"
	"testing"

	"cpt/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"World Cup":          "world-cup",
		"  --Mate in 2!! ":   "mate-in-2",
		"Café Noir":          "caf-noir",
		"":                   "untitled",
		"♔♕":                 "untitled",
		"blitz_2025/round 3": "blitz-2025-round-3",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	if got := slug.Make(strings.Repeat("ab ", 40)); len(got) > 48 || strings.HasSuffix(got, "-") {
		t.Errorf("long input not trimmed: %q", got)
	}
}

package domain_test

import (
	"testing"

	"cpt/internal/modules/puzzle/domain"
)

func sampleSet() domain.Set {
	return domain.Set{Category: "test", Entries: []domain.Entry{
		{Raw: "a"}, {Raw: "b"}, {Raw: "c"}, {Raw: "d"},
	}}
}

func TestNextUnsolvedSkipsSolvedAndIsStrictlyAfter(t *testing.T) {
	t.Parallel()
	set := sampleSet()
	solved := map[string]struct{}{"b": {}, "c": {}}

	if idx, ok := domain.NextUnsolved(set, solved, -1); !ok || idx != 0 {
		t.Fatalf("expected 0, got %d %v", idx, ok)
	}
	if idx, ok := domain.NextUnsolved(set, solved, 0); !ok || idx != 3 {
		t.Fatalf("expected 3 after skipping solved, got %d %v", idx, ok)
	}
	if _, ok := domain.NextUnsolved(set, solved, 3); ok {
		t.Fatalf("expected not found at end of set")
	}
	if idx, ok := domain.NextUnsolved(set, nil, -7); !ok || idx != 0 {
		t.Fatalf("negative start clamps to beginning, got %d %v", idx, ok)
	}
}

func TestNextUnsolvedAllSolved(t *testing.T) {
	t.Parallel()
	set := sampleSet()
	solved := map[string]struct{}{"a": {}, "b": {}, "c": {}, "d": {}}
	if idx, ok := domain.NextUnsolved(set, solved, -1); ok || idx != -1 {
		t.Fatalf("expected not found, got %d %v", idx, ok)
	}
}

func TestSetRecordMergesEndpointMetadata(t *testing.T) {
	t.Parallel()
	set := domain.Set{Entries: []domain.Entry{{
		Raw:   scenarioPuzzle,
		White: "Carlsen",
		Black: "Nepomniachtchi",
	}}}
	record, err := set.Record(0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if record.Meta.White != "Carlsen" || record.Meta.Black != "Nepomniachtchi" {
		t.Fatalf("metadata not merged: %+v", record.Meta)
	}
}

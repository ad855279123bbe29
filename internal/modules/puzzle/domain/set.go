package domain

import "time"

// Entry is one raw puzzle of a set together with the metadata the endpoint
// delivered next to it.
type Entry struct {
	Raw   string
	White string
	Black string
	Event string
	Site  string
}

// Set is an ordered, immutable list of puzzles for one category.
type Set struct {
	Category  string
	Entries   []Entry
	FetchedAt time.Time
}

func (s Set) Len() int { return len(s.Entries) }

func (s Set) Key(index int) string { return s.Entries[index].Raw }

// Record parses the entry at index and merges the endpoint metadata.
func (s Set) Record(index int) (Record, error) {
	entry := s.Entries[index]
	record, err := ParseRecord(entry.Raw)
	if err != nil {
		return Record{}, err
	}
	record.Meta.White = entry.White
	record.Meta.Black = entry.Black
	record.Meta.Event = entry.Event
	record.Meta.Site = entry.Site
	return record, nil
}

// NextUnsolved returns the first index strictly after `after` whose key is
// not in solved. The boolean is false when every remaining puzzle is solved.
func NextUnsolved(set Set, solved map[string]struct{}, after int) (int, bool) {
	if after < -1 {
		after = -1
	}
	for i := after + 1; i < set.Len(); i++ {
		if _, done := solved[set.Key(i)]; !done {
			return i, true
		}
	}
	return -1, false
}

// CategorySummary describes one cached set.
type CategorySummary struct {
	Category  string
	Count     int
	FetchedAt time.Time
}

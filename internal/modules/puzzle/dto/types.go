package dto

import "time"

type FetchInput struct {
	Category string
}

type LoadSetInput struct {
	Category string
	Refresh  bool
}

type PrefetchInput struct {
	Categories []string
}

type ImportInput struct {
	Path     string
	Category string
}

type GetRecordInput struct {
	Category string
	Index    int
}

type NextInput struct {
	Category string
	After    int
	Solved   []string
}

type NextOutput struct {
	Index int
	Key   string
}

type CategoryOutput struct {
	Category  string
	Count     int
	FetchedAt time.Time
}

type EntryOutput struct {
	Index int
	Key   string
	White string
	Black string
	Event string
	Site  string
}

type SetOutput struct {
	Category  string
	FetchedAt time.Time
	Entries   []EntryOutput
}

type RecordOutput struct {
	Category   string
	Index      int
	Key        string
	FEN        string
	Moves      []string
	Rating     int
	Popularity int
	Themes     []string
	GameURL    string
	Opening    []string
	White      string
	Black      string
	Event      string
	Site       string
}

package dto

import "time"

type StartInput struct {
	Category string
	Start    int
	Refresh  bool
}

type SubmitInput struct {
	Move string
}

type StatsOutput struct {
	Presented int
	Solved    int
	Incorrect int
	Illegal   int
	Skipped   int
}

type SnapshotOutput struct {
	SessionID   string
	Category    string
	Index       int
	Total       int
	Key         string
	StartFEN    string
	FEN         string
	Orientation string
	State       string
	MoveIndex   int
	TotalMoves  int
	Favorite    bool
	Solved      bool
	Rating      int
	Themes      []string
	GameURL     string
	Opening     []string
	White       string
	Black       string
	Event       string
	Site        string
	Stats       StatsOutput
}

type OutcomeOutput struct {
	Verdict   string
	Move      string
	Reply     string
	MoveIndex int
	State     string
}

type FavoriteOutput struct {
	Key      string
	Favorite bool
}

type EndOutput struct {
	SessionID string
	Category  string
	StartedAt time.Time
	EndedAt   time.Time
	NotePath  string
	Solved    []string
	Stats     StatsOutput
}

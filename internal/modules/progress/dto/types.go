package dto

type KeyInput struct {
	Key string
}

type ToggleFavoriteOutput struct {
	Key      string
	Favorite bool
}

type RecordAttemptInput struct {
	FEN  string
	Move string
}

type AttemptsInput struct {
	FEN string
}

type AttemptOutput struct {
	FEN   string
	Moves []string
}

type LastViewedInput struct {
	Category string
	Index    int
}

type LastViewedOutput struct {
	Category string
	Index    int
	Found    bool
}

type StatusOutput struct {
	Key      string
	Solved   bool
	Favorite bool
}

package dto

// Board messages travel from a running sequencer to the terminal board view.
// Done channels are closed by the view once the board has settled; Reply
// receives the chosen promotion piece, or "" when the choice was dismissed.

type BoardPresentMsg struct {
	FEN         string
	Orientation string
	Done        chan struct{}
}

type BoardPositionMsg struct {
	FEN     string
	Animate bool
	Done    chan struct{}
}

type BoardMarkerMsg struct {
	Square  string
	Correct bool
}

type BoardClearMarkersMsg struct{}

type BoardInputMsg struct {
	Enabled bool
	Side    string
}

// BoardPromotionMsg asks for one of Choices; Reply receives "" when the
// player dismisses the prompt.
type BoardPromotionMsg struct {
	From    string
	To      string
	Side    string
	Choices []string
	Reply   chan string
}

type BoardSolvedMsg struct{}

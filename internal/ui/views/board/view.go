package board

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trainingdto "cpt/internal/modules/training/dto"
	"cpt/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Move(ctx context.Context, move string) (trainingdto.OutcomeOutput, error)
	LegalTargets(ctx context.Context, from string) ([]string, error)
	Snapshot(ctx context.Context) (trainingdto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// MovedMsg carries the verdict for a submitted move.
type MovedMsg struct {
	Outcome trainingdto.OutcomeOutput
	Err     error
}

type TargetsMsg struct {
	From    string
	Targets []string
	Err     error
}

type SnapshotMsg struct {
	Snapshot trainingdto.SnapshotOutput
	Err      error
}

type settledMsg struct{ done chan struct{} }

// ─── model ───────────────────────────────────────────────────────────────────

// Model draws the active puzzle and turns cursor input into moves. It also
// answers the board messages a running puzzle sends through the program.
type Model struct {
	port      Port
	animation time.Duration

	fen         string
	orientation string
	markers     map[string]bool
	input       bool
	side        string
	solved      bool
	promotion   *trainingdto.BoardPromotionMsg

	row, col int
	selected string
	targets  map[string]bool

	snapshot  trainingdto.SnapshotOutput
	hasPuzzle bool
	verdict   string
	width     int
	height    int
}

func New(port Port, animation time.Duration) Model {
	return Model{
		port:        port,
		animation:   animation,
		orientation: "white",
		markers:     map[string]bool{},
		targets:     map[string]bool{},
		row:         6,
		col:         4,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case trainingdto.BoardPresentMsg:
		m.fen = msg.FEN
		m.orientation = msg.Orientation
		m.markers = map[string]bool{}
		m.solved = false
		m.promotion = nil
		m.verdict = ""
		m.clearSelection()
		close(msg.Done)

	case trainingdto.BoardPositionMsg:
		m.fen = msg.FEN
		if msg.Animate && m.animation > 0 {
			done := msg.Done
			return m, tea.Tick(m.animation, func(time.Time) tea.Msg { return settledMsg{done: done} })
		}
		close(msg.Done)

	case settledMsg:
		close(msg.done)

	case trainingdto.BoardMarkerMsg:
		m.markers[msg.Square] = msg.Correct

	case trainingdto.BoardClearMarkersMsg:
		m.markers = map[string]bool{}

	case trainingdto.BoardInputMsg:
		m.input = msg.Enabled
		if msg.Enabled {
			m.side = msg.Side
		} else {
			m.clearSelection()
		}

	case trainingdto.BoardPromotionMsg:
		p := msg
		m.promotion = &p

	case trainingdto.BoardSolvedMsg:
		m.solved = true

	case MovedMsg:
		if msg.Err != nil {
			m.verdict = theme.Bad.Render(msg.Err.Error())
		} else {
			m.verdict = renderVerdict(msg.Outcome)
		}
		return m, m.snapshotCmd()

	case TargetsMsg:
		if msg.Err == nil && msg.From == m.selected {
			m.targets = map[string]bool{}
			for _, t := range msg.Targets {
				m.targets[t] = true
			}
		}

	case SnapshotMsg:
		if msg.Err == nil {
			m.SetSnapshot(msg.Snapshot)
		}

	case tea.KeyMsg:
		if m.promotion != nil {
			return m.choosePromotion(msg.String())
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) View() string {
	boardView := m.renderBoard()
	side := lipgloss.NewStyle().
		PaddingLeft(3).
		Width(max(m.width-lipgloss.Width(boardView)-2, 20)).
		Render(m.renderSidebar())
	return lipgloss.JoinHorizontal(lipgloss.Top, boardView, side)
}

// SetSnapshot replaces the puzzle details shown beside the board.
func (m *Model) SetSnapshot(s trainingdto.SnapshotOutput) {
	m.snapshot = s
	m.hasPuzzle = true
	if m.fen == "" {
		m.fen = s.FEN
		m.orientation = s.Orientation
	}
}

// Capturing reports whether the board wants every key, which is the case
// while a promotion piece is being chosen.
func (m Model) Capturing() bool {
	return m.promotion != nil
}

// Submit sends a move typed in the palette.
func (m Model) Submit(move string) tea.Cmd {
	return m.moveCmd(move)
}

// Targets selects a square and asks for its legal destinations.
func (m *Model) Targets(square string) tea.Cmd {
	m.selected = square
	m.targets = map[string]bool{}
	return m.targetsCmd(square)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) handleKey(k string) (Model, tea.Cmd) {
	switch k {
	case "up", "k":
		m.row = max(m.row-1, 0)
	case "down", "j":
		m.row = min(m.row+1, 7)
	case "left", "h":
		m.col = max(m.col-1, 0)
	case "right", "l":
		m.col = min(m.col+1, 7)
	case "esc":
		m.clearSelection()
	case "enter", " ":
		if !m.input {
			return m, nil
		}
		here := squareAt(m.orientation, m.row, m.col)
		switch m.selected {
		case "":
			cmd := m.Targets(here)
			return m, cmd
		case here:
			m.clearSelection()
		default:
			move := m.selected + here
			m.clearSelection()
			return m, m.moveCmd(move)
		}
	}
	return m, nil
}

func (m Model) choosePromotion(k string) (Model, tea.Cmd) {
	piece := ""
	switch {
	case k == "esc":
	case slices.Contains(m.promotion.Choices, k):
		piece = k
	default:
		return m, nil
	}
	m.promotion.Reply <- piece
	m.promotion = nil
	return m, nil
}

func (m *Model) clearSelection() {
	m.selected = ""
	m.targets = map[string]bool{}
}

func (m Model) renderBoard() string {
	grid := placement(m.fen)
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sq := squareAt(m.orientation, row, 0)
		sb.WriteString(theme.Muted.Render(string(sq[1])) + " ")
		for col := 0; col < 8; col++ {
			sq = squareAt(m.orientation, row, col)
			sb.WriteString(m.renderSquare(sq, grid[sq], row == m.row && col == m.col))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	for col := 0; col < 8; col++ {
		sq := squareAt(m.orientation, 0, col)
		sb.WriteString(theme.Muted.Render(" " + string(sq[0]) + " "))
	}
	if m.promotion != nil {
		sb.WriteString("\n\n" + theme.Hot.Render(fmt.Sprintf("promote %s%s: %s  (esc cancels)",
			m.promotion.From, m.promotion.To, strings.Join(m.promotion.Choices, " "))))
	}
	return sb.String()
}

func (m Model) renderSquare(sq string, piece rune, cursor bool) string {
	style := theme.DarkSquare
	if light(sq) {
		style = theme.LightSquare
	}
	highlighted := true
	correct, marked := m.markers[sq]
	switch {
	case cursor && m.input:
		style = theme.CursorSquare
	case sq == m.selected:
		style = theme.SelectedSquare
	case marked && correct:
		style = theme.CorrectSquare
	case marked:
		style = theme.WrongSquare
	case m.targets[sq]:
		style = theme.TargetSquare
	default:
		highlighted = false
	}
	if piece == 0 {
		if m.targets[sq] {
			return style.Render("·")
		}
		return style.Render(" ")
	}
	if !highlighted {
		if isWhite(piece) {
			style = style.Foreground(theme.WhiteMen)
		} else {
			style = style.Foreground(theme.BlackMen)
		}
	}
	return style.Render(glyph(piece))
}

func (m Model) renderSidebar() string {
	if !m.hasPuzzle {
		return theme.Muted.Render("No puzzle loaded.\nUse :start <category> or pick one in Puzzles.")
	}
	s := m.snapshot
	var sb strings.Builder
	title := fmt.Sprintf("Puzzle %d / %d", s.Index+1, s.Total)
	if s.Favorite {
		title += "  ★"
	}
	sb.WriteString(theme.Title.Render(title) + "\n")
	sb.WriteString(theme.Muted.Render(s.Category) + "\n\n")
	if s.White != "" || s.Black != "" {
		sb.WriteString(fmt.Sprintf("%s – %s\n", s.White, s.Black))
	}
	if s.Event != "" {
		sb.WriteString(theme.Muted.Render(s.Event) + "\n")
	}
	if s.Rating > 0 {
		sb.WriteString(theme.Muted.Render("rating: ") + fmt.Sprint(s.Rating) + "\n")
	}
	if len(s.Themes) > 0 {
		sb.WriteString(theme.Muted.Render("themes: ") + strings.Join(s.Themes, ", ") + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render("you play: ") + s.Orientation + "\n")
	sb.WriteString(theme.Muted.Render("move:     ") + fmt.Sprintf("%d / %d", s.MoveIndex, s.TotalMoves) + "\n")
	sb.WriteString(theme.Muted.Render("state:    ") + strings.ReplaceAll(s.State, "_", " ") + "\n")
	if m.input {
		sb.WriteString(theme.Hot.Render(m.side+" to move") + "\n")
	}
	if m.verdict != "" {
		sb.WriteString("\n" + m.verdict + "\n")
	}
	if m.solved {
		sb.WriteString("\n" + theme.Good.Render("Solved! n: next puzzle") + "\n")
	}
	st := s.Stats
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf(
		"session: %d shown  %d solved  %d wrong  %d illegal  %d skipped",
		st.Presented, st.Solved, st.Incorrect, st.Illegal, st.Skipped)))
	sb.WriteString("\n\n" + theme.Muted.Render("arrows: cursor  enter: pick/drop  esc: clear  n: next  f: favorite"))
	return sb.String()
}

func renderVerdict(o trainingdto.OutcomeOutput) string {
	switch o.Verdict {
	case "correct":
		line := "✓ " + o.Move
		if o.Reply != "" {
			line += "  reply " + o.Reply
		}
		return theme.Good.Render(line)
	case "solved":
		return theme.Good.Render("✓ " + o.Move)
	case "incorrect":
		return theme.Bad.Render("✗ " + o.Move + " is not the move")
	case "illegal":
		return theme.Hot.Render(o.Move + " is illegal")
	case "cancelled":
		return theme.Muted.Render("promotion cancelled")
	}
	return o.Verdict
}

func (m Model) moveCmd(move string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Move(context.Background(), move)
		return MovedMsg{Outcome: out, Err: err}
	}
}

func (m Model) targetsCmd(from string) tea.Cmd {
	return func() tea.Msg {
		targets, err := m.port.LegalTargets(context.Background(), from)
		return TargetsMsg{From: from, Targets: targets, Err: err}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.Snapshot(context.Background())
		return SnapshotMsg{Snapshot: s, Err: err}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trainingdto "cpt/internal/modules/training/dto"
	apperrors "cpt/internal/platform/errors"
	"cpt/internal/ui/components"
	"cpt/internal/ui/theme"
	boardview "cpt/internal/ui/views/board"
	puzzlesview "cpt/internal/ui/views/puzzles"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type trainingPort interface {
	Start(ctx context.Context, category string, start int, refresh bool) (trainingdto.SnapshotOutput, error)
	Move(ctx context.Context, move string) (trainingdto.OutcomeOutput, error)
	Next(ctx context.Context) (trainingdto.SnapshotOutput, error)
	ToggleFavorite(ctx context.Context) (trainingdto.FavoriteOutput, error)
	Snapshot(ctx context.Context) (trainingdto.SnapshotOutput, error)
	LegalTargets(ctx context.Context, from string) ([]string, error)
	End(ctx context.Context) (trainingdto.EndOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabBoard tabID = iota
	tabPuzzles
	tabCount
)

var tabLabels = [tabCount]string{"Board", "Puzzles"}

// ─── async messages ───────────────────────────────────────────────────────────

type puzzleActivatedMsg struct {
	snap trainingdto.SnapshotOutput
	err  error
}

type favoriteToggledMsg struct {
	out trainingdto.FavoriteOutput
	err error
}

type sessionEndedMsg struct {
	out trainingdto.EndOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Cursor   key.Binding
	Pick     key.Binding
	Next     key.Binding
	Favorite key.Binding
	End      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Cursor:   key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "move cursor")),
		Pick:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick / drop piece")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next puzzle")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		End:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cursor, k.Pick},
		{k.Next, k.Favorite, k.End},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the training
// session summary, the help overlay and the command palette. Board messages
// from a running puzzle reach the board view whatever tab is shown.
type Model struct {
	category string
	training trainingPort

	boardView   boardview.Model
	puzzlesView puzzlesview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	snapshot  trainingdto.SnapshotOutput
	inSession bool
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(category string, training trainingPort, puzzles puzzlesview.Port, animation time.Duration) Model {
	return Model{
		category:    category,
		training:    training,
		boardView:   boardview.New(boardPortBridge{p: training}, animation),
		puzzlesView: puzzlesview.New(puzzles, category),
		activeTab:   tabBoard,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.puzzlesView.Init()}
	if m.category != "" {
		cmds = append(cmds, m.startCmd(m.category, 0, false))
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case puzzleActivatedMsg:
		switch {
		case errors.Is(msg.err, apperrors.ErrNoMorePuzzles):
			m.status = "no unsolved puzzles left in " + m.category
		case msg.err != nil:
			m.status = "puzzle: " + msg.err.Error()
		default:
			m.inSession = true
			m.snapshot = msg.snap
			m.category = msg.snap.Category
			m.boardView.SetSnapshot(msg.snap)
			m.activeTab = tabBoard
			m.status = fmt.Sprintf("puzzle %d of %d", msg.snap.Index+1, msg.snap.Total)
		}
		return m, nil

	case boardview.SnapshotMsg:
		if msg.Err == nil {
			m.snapshot = msg.Snapshot
		}

	case favoriteToggledMsg:
		switch {
		case msg.err != nil:
			m.status = "favorite: " + msg.err.Error()
		case msg.out.Favorite:
			m.status = "added to favorites"
		default:
			m.status = "removed from favorites"
		}
		cmds = append(cmds, m.snapshotCmd())

	case sessionEndedMsg:
		if msg.err != nil {
			m.status = "end session: " + msg.err.Error()
			return m, nil
		}
		m.inSession = false
		m.status = fmt.Sprintf("session ended: %d solved of %d, note %s",
			msg.out.Stats.Solved, msg.out.Stats.Presented, msg.out.NotePath)
		return m, nil

	case puzzlesview.OpenPuzzleMsg:
		return m, m.startCmd(msg.Category, msg.Index+1, false)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it is capturing text or a promotion.
		if m.subViewCapturing() {
			return m.updateActive(msg, cmds)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "n":
			return m, m.nextCmd()
		case "f":
			return m, m.favoriteCmd()
		case "e":
			return m, m.endCmd()
		}
		return m.updateActive(msg, cmds)
	}

	// Everything else is broadcast: board messages and async results must
	// reach their view even while another tab is shown.
	var cmd tea.Cmd
	m.boardView, cmd = m.boardView.Update(msg)
	cmds = append(cmds, cmd)
	m.puzzlesView, cmd = m.puzzlesView.Update(msg)
	cmds = append(cmds, cmd)
	if m.palette.Visible() {
		m.palette, cmd = m.palette.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateActive(msg tea.Msg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case tabPuzzles:
		m.puzzlesView, cmd = m.puzzlesView.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabBoard:
		return m.boardView.View()
	case tabPuzzles:
		return m.puzzlesView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "cpt  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.inSession {
		st := m.snapshot.Stats
		left = theme.Hot.Render(fmt.Sprintf("● %s %d/%d", m.snapshot.Category, st.Solved, st.Presented)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "start":
		if len(parts) < 2 {
			m.status = "usage: start <category> [n]"
			return m, nil
		}
		start := 0
		if len(parts) >= 3 {
			n, err := strconv.Atoi(parts[2])
			if err != nil || n < 1 {
				m.status = "start index must be a positive number"
				return m, nil
			}
			start = n
		}
		cmds := []tea.Cmd{m.startCmd(parts[1], start, false)}
		if parts[1] != m.puzzlesView.Category() {
			cmds = append(cmds, m.puzzlesView.Load(parts[1], false))
		}
		return m, tea.Batch(cmds...)

	case "refresh":
		category := m.category
		if len(parts) >= 2 {
			category = parts[1]
		}
		if category == "" {
			m.status = "usage: refresh <category>"
			return m, nil
		}
		m.status = "fetching " + category
		m.activeTab = tabPuzzles
		return m, m.puzzlesView.Load(category, true)

	case "open":
		if len(parts) < 2 || m.category == "" {
			m.status = "usage: open <n> (after start)"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			m.status = "puzzle number must be a positive number"
			return m, nil
		}
		return m, m.startCmd(m.category, n, false)

	case "move":
		if len(parts) < 2 {
			m.status = "usage: move <uci>"
			return m, nil
		}
		m.activeTab = tabBoard
		return m, m.boardView.Submit(parts[1])

	case "targets":
		if len(parts) < 2 {
			m.status = "usage: targets <square>"
			return m, nil
		}
		m.activeTab = tabBoard
		return m, m.boardView.Targets(strings.ToLower(parts[1]))

	case "next":
		return m, m.nextCmd()

	case "fav":
		return m, m.favoriteCmd()

	case "end":
		return m, m.endCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabBoard:
		return m.boardView.Capturing()
	case tabPuzzles:
		return m.puzzlesView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.boardView, _ = m.boardView.Update(sz)
	m.puzzlesView, _ = m.puzzlesView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd(category string, start int, refresh bool) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.training.Start(context.Background(), category, start, refresh)
		return puzzleActivatedMsg{snap: snap, err: err}
	}
}

func (m Model) nextCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.training.Next(context.Background())
		return puzzleActivatedMsg{snap: snap, err: err}
	}
}

func (m Model) favoriteCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.training.ToggleFavorite(context.Background())
		return favoriteToggledMsg{out: out, err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.training.End(context.Background())
		return sessionEndedMsg{out: out, err: err}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.training.Snapshot(context.Background())
		return boardview.SnapshotMsg{Snapshot: s, Err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type boardPortBridge struct{ p trainingPort }

func (b boardPortBridge) Move(ctx context.Context, move string) (trainingdto.OutcomeOutput, error) {
	return b.p.Move(ctx, move)
}
func (b boardPortBridge) LegalTargets(ctx context.Context, from string) ([]string, error) {
	return b.p.LegalTargets(ctx, from)
}
func (b boardPortBridge) Snapshot(ctx context.Context) (trainingdto.SnapshotOutput, error) {
	return b.p.Snapshot(ctx)
}

package puzzles

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	progressdto "cpt/internal/modules/progress/dto"
	puzzledto "cpt/internal/modules/puzzle/dto"
	"cpt/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	LoadSet(ctx context.Context, category string, refresh bool) (puzzledto.SetOutput, error)
	GetRecord(ctx context.Context, category string, index int) (puzzledto.RecordOutput, error)
	Status(ctx context.Context, key string) (progressdto.StatusOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SetLoadedMsg struct {
	Set puzzledto.SetOutput
	Err error
}

type DetailLoadedMsg struct {
	Record puzzledto.RecordOutput
	Status progressdto.StatusOutput
	Err    error
}

// OpenPuzzleMsg asks the app to start training at Index (0-based).
type OpenPuzzleMsg struct {
	Category string
	Index    int
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry puzzledto.EntryOutput
}

func (i entryItem) Title() string {
	if i.entry.White != "" || i.entry.Black != "" {
		return fmt.Sprintf("#%d  %s – %s", i.entry.Index+1, i.entry.White, i.entry.Black)
	}
	return fmt.Sprintf("#%d", i.entry.Index+1)
}

func (i entryItem) Description() string {
	if i.entry.Event != "" {
		return i.entry.Event
	}
	fen, _, _ := strings.Cut(i.entry.Key, ",")
	return fen
}

func (i entryItem) FilterValue() string {
	return strings.Join([]string{i.entry.White, i.entry.Black, i.entry.Event}, " ")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	category string
	list     list.Model
	detail   DetailLoadedMsg
	preview  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	err      error
	width    int
	height   int
}

func New(port Port, category string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Puzzles"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		category: category,
		list:     l,
		preview:  vp,
		spinner:  sp,
		renderer: r,
		loading:  category != "",
	}
}

func (m Model) Init() tea.Cmd {
	if m.category == "" {
		return nil
	}
	return tea.Batch(m.loadSetCmd(m.category, false), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SetLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "Puzzles: " + msg.Err.Error()
			return m, nil
		}
		m.category = msg.Set.Category
		m.list.Title = fmt.Sprintf("Puzzles: %s", msg.Set.Category)
		items := make([]list.Item, len(msg.Set.Entries))
		for i, e := range msg.Set.Entries {
			items[i] = entryItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Set.Entries) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Set.Entries[0].Index))
		}

	case DetailLoadedMsg:
		m.detail = msg
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				category, index := m.category, item.entry.Index
				return m, func() tea.Msg { return OpenPuzzleMsg{Category: category, Index: index} }
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.entry.Index))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading "+m.category+"…")
	}
	if m.category == "" && m.err == nil {
		return theme.Muted.Render("No category yet. Use :start <category>.")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Load switches the list to category.
func (m *Model) Load(category string, refresh bool) tea.Cmd {
	m.loading = true
	m.category = category
	return tea.Batch(m.loadSetCmd(category, refresh), m.spinner.Tick)
}

// Category is the set currently listed.
func (m Model) Category() string { return m.category }

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(m.preview.Width-2, 20)),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderDetail() string {
	if m.detail.Err != nil {
		return theme.Hot.Render("Error: " + m.detail.Err.Error())
	}
	md := detailMarkdown(m.detail.Record, m.detail.Status)
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// detailMarkdown describes a puzzle without giving its solution away.
func detailMarkdown(r puzzledto.RecordOutput, s progressdto.StatusOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Puzzle %d\n\n", r.Index+1)
	if r.White != "" || r.Black != "" {
		fmt.Fprintf(&sb, "**%s** vs **%s**\n\n", r.White, r.Black)
	}
	if r.Event != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", r.Event)
	}
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| position | `%s` |\n", r.FEN)
	fmt.Fprintf(&sb, "| moves | %d |\n", len(r.Moves))
	if r.Rating > 0 {
		fmt.Fprintf(&sb, "| rating | %d |\n", r.Rating)
	}
	if len(r.Themes) > 0 {
		fmt.Fprintf(&sb, "| themes | %s |\n", strings.Join(r.Themes, ", "))
	}
	if len(r.Opening) > 0 {
		fmt.Fprintf(&sb, "| opening | %s |\n", strings.Join(r.Opening, ", "))
	}
	if r.GameURL != "" {
		fmt.Fprintf(&sb, "| game | %s |\n", r.GameURL)
	} else if r.Site != "" {
		fmt.Fprintf(&sb, "| site | %s |\n", r.Site)
	}
	sb.WriteString("\n")
	switch {
	case s.Solved && s.Favorite:
		sb.WriteString("Solved ★\n")
	case s.Solved:
		sb.WriteString("Solved\n")
	case s.Favorite:
		sb.WriteString("★ favorite\n")
	}
	sb.WriteString("\n---\n\nenter: train from here\n")
	return sb.String()
}

func (m Model) loadSetCmd(category string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		set, err := m.port.LoadSet(context.Background(), category, refresh)
		return SetLoadedMsg{Set: set, Err: err}
	}
}

func (m Model) loadDetailCmd(index int) tea.Cmd {
	category := m.category
	return func() tea.Msg {
		record, err := m.port.GetRecord(context.Background(), category, index)
		if err != nil {
			return DetailLoadedMsg{Err: err}
		}
		status, err := m.port.Status(context.Background(), record.Key)
		return DetailLoadedMsg{Record: record, Status: status, Err: err}
	}
}

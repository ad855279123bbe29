package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	progressdto "cpt/internal/modules/progress/dto"
	puzzledto "cpt/internal/modules/puzzle/dto"
	trainingdto "cpt/internal/modules/training/dto"
	apperrors "cpt/internal/platform/errors"
)

type stubTraining struct {
	started []int
	moves   []string
}

func (s *stubTraining) Start(_ context.Context, category string, start int, _ bool) (trainingdto.SnapshotOutput, error) {
	s.started = append(s.started, start)
	return trainingdto.SnapshotOutput{Category: category, Index: max(start-1, 0), Total: 3}, nil
}

func (s *stubTraining) Move(_ context.Context, move string) (trainingdto.OutcomeOutput, error) {
	s.moves = append(s.moves, move)
	return trainingdto.OutcomeOutput{Verdict: "correct", Move: move}, nil
}

func (s *stubTraining) Next(context.Context) (trainingdto.SnapshotOutput, error) {
	return trainingdto.SnapshotOutput{}, apperrors.ErrNoMorePuzzles
}

func (s *stubTraining) ToggleFavorite(context.Context) (trainingdto.FavoriteOutput, error) {
	return trainingdto.FavoriteOutput{Favorite: true}, nil
}

func (s *stubTraining) Snapshot(context.Context) (trainingdto.SnapshotOutput, error) {
	return trainingdto.SnapshotOutput{Category: "wch", Total: 3}, nil
}

func (s *stubTraining) LegalTargets(context.Context, string) ([]string, error) { return nil, nil }

func (s *stubTraining) End(context.Context) (trainingdto.EndOutput, error) {
	return trainingdto.EndOutput{NotePath: "/tmp/note.md"}, nil
}

type stubPuzzles struct{}

func (stubPuzzles) LoadSet(_ context.Context, category string, _ bool) (puzzledto.SetOutput, error) {
	return puzzledto.SetOutput{Category: category}, nil
}

func (stubPuzzles) GetRecord(context.Context, string, int) (puzzledto.RecordOutput, error) {
	return puzzledto.RecordOutput{}, nil
}

func (stubPuzzles) Status(context.Context, string) (progressdto.StatusOutput, error) {
	return progressdto.StatusOutput{}, nil
}

func TestPaletteStartsAtIndex(t *testing.T) {
	t.Parallel()
	training := &stubTraining{}
	m := NewModel("", training, stubPuzzles{}, time.Millisecond)

	next, cmd := m.executePalette("start wch 2")
	require.NotNil(t, cmd)
	m = next.(Model)
	for _, msg := range drain(cmd) {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	require.Equal(t, []int{2}, training.started)
	require.Equal(t, "puzzle 2 of 3", m.status)
	require.True(t, m.inSession)

	next, _ = m.executePalette("start wch zero")
	require.Equal(t, "start index must be a positive number", next.(Model).status)
	next, _ = m.executePalette("bogus")
	require.Equal(t, "unknown command: bogus", next.(Model).status)
}

func TestNoMorePuzzlesStatus(t *testing.T) {
	t.Parallel()
	m := NewModel("wch", &stubTraining{}, stubPuzzles{}, 0)
	updated, _ := m.Update(m.nextCmd()())
	require.Equal(t, "no unsolved puzzles left in wch", updated.(Model).status)
}

func TestBoardMessagesReachBoardOnOtherTabs(t *testing.T) {
	t.Parallel()
	m := NewModel("", &stubTraining{}, stubPuzzles{}, 0)
	m.activeTab = tabPuzzles
	done := make(chan struct{})
	updated, _ := m.Update(trainingdto.BoardPositionMsg{FEN: "8/8/8/8/8/8/7k/K7 w - - 0 1", Done: done})
	<-done
	require.Equal(t, tabPuzzles, updated.(Model).activeTab)
}

// drain runs cmd and any batch it returns, collecting the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, drain(c)...)
	}
	return out
}

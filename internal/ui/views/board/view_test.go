package board

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	trainingdto "cpt/internal/modules/training/dto"
)

type stubPort struct {
	moves []string
}

func (p *stubPort) Move(_ context.Context, move string) (trainingdto.OutcomeOutput, error) {
	p.moves = append(p.moves, move)
	return trainingdto.OutcomeOutput{Verdict: "correct", Move: move}, nil
}

func (p *stubPort) LegalTargets(_ context.Context, from string) ([]string, error) {
	return []string{"e3", "e4"}, nil
}

func (p *stubPort) Snapshot(context.Context) (trainingdto.SnapshotOutput, error) {
	return trainingdto.SnapshotOutput{Index: 0, Total: 1}, nil
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestPlacementAndOrientation(t *testing.T) {
	t.Parallel()
	grid := placement(startFEN)
	require.Equal(t, 'K', grid["e1"])
	require.Equal(t, 'q', grid["d8"])
	require.Len(t, grid, 32)
	require.Empty(t, placement("not a fen"))

	require.Equal(t, "a8", squareAt("white", 0, 0))
	require.Equal(t, "h1", squareAt("white", 7, 7))
	require.Equal(t, "h1", squareAt("black", 0, 0))
	require.Equal(t, "a8", squareAt("black", 7, 7))
	require.False(t, light("a1"))
	require.True(t, light("h1"))
}

func TestBoardAcknowledgesPuzzleMessages(t *testing.T) {
	t.Parallel()
	m := New(&stubPort{}, 0)

	done := make(chan struct{})
	m, _ = m.Update(trainingdto.BoardPresentMsg{FEN: startFEN, Orientation: "black", Done: done})
	<-done
	require.Equal(t, "black", m.orientation)

	done = make(chan struct{})
	m, cmd := m.Update(trainingdto.BoardPositionMsg{FEN: startFEN, Animate: true, Done: done})
	require.Nil(t, cmd)
	<-done

	m, _ = m.Update(trainingdto.BoardMarkerMsg{Square: "e4", Correct: true})
	require.True(t, m.markers["e4"])
	m, _ = m.Update(trainingdto.BoardClearMarkersMsg{})
	require.Empty(t, m.markers)

	reply := make(chan string, 1)
	m, _ = m.Update(trainingdto.BoardPromotionMsg{From: "a7", To: "a8", Side: "white", Choices: []string{"q", "r", "b", "n"}, Reply: reply})
	require.Contains(t, m.View(), "promote a7a8: q r b n")
	require.True(t, m.Capturing())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.True(t, m.Capturing(), "unrelated keys keep the prompt open")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.False(t, m.Capturing())
	require.Equal(t, "n", <-reply)
}

func TestBoardCursorSubmitsMove(t *testing.T) {
	t.Parallel()
	port := &stubPort{}
	m := New(port, 0)
	done := make(chan struct{})
	m, _ = m.Update(trainingdto.BoardPresentMsg{FEN: startFEN, Orientation: "white", Done: done})
	m, _ = m.Update(trainingdto.BoardInputMsg{Enabled: true, Side: "white"})

	// The cursor starts on e2.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "e2", m.selected)
	m, _ = m.Update(cmd())
	require.True(t, m.targets["e4"])

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, m.selected)
	msg := cmd()
	require.Equal(t, []string{"e2e4"}, port.moves)

	m, cmd = m.Update(msg)
	require.Contains(t, m.verdict, "e2e4")
	m, _ = m.Update(cmd())
	require.True(t, m.hasPuzzle)
	require.Contains(t, m.View(), "Puzzle 1 / 1")
}

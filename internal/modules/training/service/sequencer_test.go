package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	trainingadapter "cpt/internal/modules/training/adapter/out"
	"cpt/internal/modules/training/domain"
	"cpt/internal/modules/training/service"
	apperrors "cpt/internal/platform/errors"
)

const promotionPuzzle = promotionFEN + ",h2h3 a7a8q h3h4"

func newSequencer(t *testing.T, raw string, board *fakeBoard, progress *fakeProgress) *service.Sequencer {
	t.Helper()
	record := mustRecord(t, raw)
	rules, err := trainingadapter.NewChessRulesFactory().New(record.FEN)
	if err != nil {
		t.Fatalf("new rules: %v", err)
	}
	return service.NewSequencer(record, rules, board, progress, domain.Pacing{}, nil)
}

func activate(t *testing.T, seq *service.Sequencer) {
	t.Helper()
	if err := seq.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
}

func TestSequencerSolvesScenario(t *testing.T) {
	t.Parallel()
	board := &fakeBoard{}
	progress := newFakeProgress()
	seq := newSequencer(t, scenarioPuzzle, board, progress)
	activate(t, seq)

	if seq.MoveIndex() != 1 || seq.State() != domain.AwaitingUserMove {
		t.Fatalf("after seed: index %d state %s", seq.MoveIndex(), seq.State())
	}
	if seq.Human() != domain.White || !board.has("present white") {
		t.Fatalf("human must play white, the side opposite the seed move")
	}
	if !board.inputEnabled() {
		t.Fatalf("input must be enabled after the seed move")
	}

	outcome, err := seq.Submit(context.Background(), mustMove(t, "e1a5"))
	if err != nil {
		t.Fatalf("submit e1a5: %v", err)
	}
	if outcome.Verdict != domain.VerdictCorrect || outcome.Reply == nil || outcome.Reply.String() != "b7b6" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.MoveIndex != 3 || seq.State() != domain.AwaitingUserMove {
		t.Fatalf("expected index 3 awaiting user, got %d %s", outcome.MoveIndex, seq.State())
	}

	outcome, err = seq.Submit(context.Background(), mustMove(t, "f1d1"))
	if err != nil {
		t.Fatalf("submit f1d1: %v", err)
	}
	if outcome.Verdict != domain.VerdictSolved || outcome.MoveIndex != 4 || seq.State() != domain.Solved {
		t.Fatalf("expected solved at index 4, got %+v", outcome)
	}
	if diff := cmp.Diff([]string{scenarioPuzzle}, progress.solved); diff != "" {
		t.Fatalf("solved mismatch (-want +got):\n%s", diff)
	}
	if !board.has("correct a5") || !board.has("correct d1") || !board.has("solved") {
		t.Fatalf("missing board feedback: %v", board.calls)
	}

	if _, err := seq.Submit(context.Background(), mustMove(t, "a2b1")); !errors.Is(err, apperrors.ErrPuzzleSolved) {
		t.Fatalf("expected puzzle solved error, got %v", err)
	}
}

func TestSequencerRejectsWrongMove(t *testing.T) {
	t.Parallel()
	board := &fakeBoard{}
	progress := newFakeProgress()
	seq := newSequencer(t, scenarioPuzzle, board, progress)
	activate(t, seq)
	afterSeed := seq.Position()

	outcome, err := seq.Submit(context.Background(), mustMove(t, "h1h7"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Verdict != domain.VerdictIncorrect || outcome.MoveIndex != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if seq.Position() != afterSeed || board.position() != afterSeed {
		t.Fatalf("board must revert to the position after the seed move")
	}
	if diff := cmp.Diff([]string{"h1h7"}, progress.attemptsFor(scenarioFEN)); diff != "" {
		t.Fatalf("attempts mismatch (-want +got):\n%s", diff)
	}
	if !board.has("incorrect h7") || !board.inputEnabled() {
		t.Fatalf("expected incorrect marker and input re-enabled: %v", board.calls)
	}

	// The expected move is still accepted afterwards.
	outcome, err = seq.Submit(context.Background(), mustMove(t, "e1a5"))
	if err != nil || outcome.Verdict != domain.VerdictCorrect {
		t.Fatalf("expected correct after retry, got %+v %v", outcome, err)
	}
}

func TestSequencerIllegalMoveIsNotAWrongAnswer(t *testing.T) {
	t.Parallel()
	board := &fakeBoard{}
	progress := newFakeProgress()
	seq := newSequencer(t, scenarioPuzzle, board, progress)
	activate(t, seq)
	afterSeed := seq.Position()

	outcome, err := seq.Submit(context.Background(), mustMove(t, "b8a7"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Verdict != domain.VerdictIllegal || outcome.MoveIndex != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(progress.attemptsFor(scenarioFEN)) != 0 {
		t.Fatalf("illegal moves must not be recorded as attempts")
	}
	if board.position() != afterSeed || !board.inputEnabled() {
		t.Fatalf("position must be restored and input re-enabled")
	}
}

func TestSequencerPromotion(t *testing.T) {
	t.Parallel()

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		board := &fakeBoard{}
		seq := newSequencer(t, promotionPuzzle, board, newFakeProgress())
		activate(t, seq)

		outcome, err := seq.Submit(context.Background(), mustMove(t, "a7a8"))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if outcome.Verdict != domain.VerdictCancelled || outcome.MoveIndex != 1 || seq.State() != domain.AwaitingUserMove {
			t.Fatalf("cancelled promotion must leave state unchanged, got %+v", outcome)
		}
		if !board.has("promotion a7a8") || !board.inputEnabled() {
			t.Fatalf("expected a promotion request and input re-enabled: %v", board.calls)
		}
	})

	t.Run("queen solves with the final reply", func(t *testing.T) {
		t.Parallel()
		board := &fakeBoard{promotion: "q"}
		progress := newFakeProgress()
		seq := newSequencer(t, promotionPuzzle, board, progress)
		activate(t, seq)

		outcome, err := seq.Submit(context.Background(), mustMove(t, "a7a8"))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if outcome.Move.String() != "a7a8q" {
			t.Fatalf("expected the chosen piece on the move, got %s", outcome.Move)
		}
		if outcome.Verdict != domain.VerdictSolved || outcome.Reply == nil || outcome.Reply.String() != "h3h4" {
			t.Fatalf("expected solved after the last reply, got %+v", outcome)
		}
		if len(progress.solved) != 1 {
			t.Fatalf("solved puzzle must be persisted")
		}
	})

	t.Run("knight is a wrong answer", func(t *testing.T) {
		t.Parallel()
		board := &fakeBoard{promotion: "n"}
		progress := newFakeProgress()
		seq := newSequencer(t, promotionPuzzle, board, progress)
		activate(t, seq)

		outcome, err := seq.Submit(context.Background(), mustMove(t, "a7a8"))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if outcome.Verdict != domain.VerdictIncorrect || outcome.MoveIndex != 1 {
			t.Fatalf("expected incorrect, got %+v", outcome)
		}
		if diff := cmp.Diff([]string{"a7a8n"}, progress.attemptsFor(promotionFEN)); diff != "" {
			t.Fatalf("attempts mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSequencerRejectsSubmitBeforeActivation(t *testing.T) {
	t.Parallel()
	seq := newSequencer(t, scenarioPuzzle, &fakeBoard{}, newFakeProgress())
	if _, err := seq.Submit(context.Background(), mustMove(t, "e1a5")); !errors.Is(err, apperrors.ErrInputDisabled) {
		t.Fatalf("expected input disabled, got %v", err)
	}
	if targets := seq.LegalTargets("e1"); targets != nil {
		t.Fatalf("no targets before activation, got %v", targets)
	}
}

func TestSequencerLegalTargets(t *testing.T) {
	t.Parallel()
	seq := newSequencer(t, scenarioPuzzle, &fakeBoard{}, newFakeProgress())
	activate(t, seq)
	targets := seq.LegalTargets("a2")
	// a1 and b1 are covered by the rook on d1.
	want := map[domain.Square]bool{"a3": true, "b3": true}
	if len(targets) != len(want) {
		t.Fatalf("unexpected king targets %v", targets)
	}
	for _, sq := range targets {
		if !want[sq] {
			t.Fatalf("unexpected king target %s", sq)
		}
	}
}

func TestSequencerStopsWhenContextEnds(t *testing.T) {
	t.Parallel()
	board := &fakeBoard{}
	seq := newSequencer(t, scenarioPuzzle, board, newFakeProgress())
	activate(t, seq)

	board.mu.Lock()
	board.block = true
	board.blocked = make(chan struct{})
	board.mu.Unlock()

	move := mustMove(t, "e1a5")
	ctx, cancel := context.WithCancelCause(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := seq.Submit(ctx, move)
		done <- err
	}()
	<-board.blocked
	cancel(apperrors.ErrStalePuzzle)
	if err := <-done; !errors.Is(err, apperrors.ErrStalePuzzle) {
		t.Fatalf("expected stale puzzle, got %v", err)
	}
	if _, err := seq.Submit(context.Background(), mustMove(t, "e1a5")); !errors.Is(err, apperrors.ErrInputDisabled) {
		t.Fatalf("an interrupted sequencer must not accept moves, got %v", err)
	}
}

func TestSequencerReportsVerdictStateWhileMarkerShown(t *testing.T) {
	t.Parallel()
	board := &fakeBoard{}
	seq := newSequencer(t, scenarioPuzzle, board, newFakeProgress())
	var seen []domain.State
	board.onMarker = func(domain.MarkerKind) { seen = append(seen, seq.State()) }
	activate(t, seq)

	if _, err := seq.Submit(context.Background(), mustMove(t, "h1h7")); err != nil {
		t.Fatalf("submit h1h7: %v", err)
	}
	if _, err := seq.Submit(context.Background(), mustMove(t, "e1a5")); err != nil {
		t.Fatalf("submit e1a5: %v", err)
	}
	if diff := cmp.Diff([]domain.State{domain.Incorrect, domain.Correct}, seen); diff != "" {
		t.Fatalf("states at marker time (-want +got):\n%s", diff)
	}
	if seq.State() != domain.AwaitingUserMove {
		t.Fatalf("expected awaiting user move, got %s", seq.State())
	}
}

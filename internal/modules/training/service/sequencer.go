package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
	"cpt/internal/platform/clock"
	apperrors "cpt/internal/platform/errors"
)

// Sequencer drives one puzzle: it plays the seed move, judges the human's
// moves against the expected line and answers with the opponent's replies.
// Rules and board are owned exclusively by one sequencer.
type Sequencer struct {
	record   puzzle.Record
	rules    trainingout.RulesEngine
	board    trainingout.Board
	progress trainingout.ProgressRecorder
	pacing   domain.Pacing
	logger   *zap.Logger

	mu        sync.Mutex
	state     domain.State
	moveIndex int
	human     domain.Color
	fen       string
}

func NewSequencer(record puzzle.Record, rules trainingout.RulesEngine, board trainingout.Board, progress trainingout.ProgressRecorder, pacing domain.Pacing, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		record:   record,
		rules:    rules,
		board:    board,
		progress: progress,
		pacing:   pacing,
		logger:   logger.With(zap.String("fen", record.FEN)),
		state:    domain.AwaitingAutoMove,
		human:    rules.Turn().Opposite(),
		fen:      rules.Position(),
	}
}

// Activate presents the puzzle, plays the seed move and hands the board to
// the human, who plays the side that did not author the seed move.
func (s *Sequencer) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.AwaitingAutoMove {
		s.mu.Unlock()
		return fmt.Errorf("%w: puzzle already activated", apperrors.ErrInvalidInput)
	}
	human := s.human
	s.mu.Unlock()

	if err := s.board.Present(ctx, s.record.FEN, human); err != nil {
		return err
	}
	if err := clock.Sleep(ctx, s.pacing.SeedDelay); err != nil {
		return err
	}
	seed := s.record.Moves[0]
	if err := s.rules.Apply(seed); err != nil {
		return &puzzle.MalformedPuzzleError{Raw: s.record.Raw, Reason: fmt.Sprintf("seed move %s: %v", seed, err)}
	}
	if err := s.board.SetPosition(ctx, s.rules.Position(), true); err != nil {
		return err
	}

	s.mu.Lock()
	s.moveIndex = 1
	s.fen = s.rules.Position()
	s.state = domain.AwaitingUserMove
	s.mu.Unlock()
	s.logger.Debug("puzzle activated", zap.String("seed", seed.String()), zap.Stringer("human", human))
	return s.board.EnableInput(ctx, human)
}

// Submit judges one human move. Illegal and cancelled moves are verdicts,
// not errors; errors mean the sequencer could not finish, usually because
// ctx ended.
func (s *Sequencer) Submit(ctx context.Context, move domain.Move) (domain.Outcome, error) {
	s.mu.Lock()
	switch s.state {
	case domain.AwaitingUserMove:
	case domain.Solved:
		s.mu.Unlock()
		return domain.Outcome{}, apperrors.ErrPuzzleSolved
	default:
		s.mu.Unlock()
		return domain.Outcome{}, apperrors.ErrInputDisabled
	}
	s.state = domain.Validating
	index := s.moveIndex
	s.mu.Unlock()

	if err := s.board.DisableInput(ctx); err != nil {
		return domain.Outcome{}, err
	}

	legal := s.rules.IsLegal(move)
	if !legal && move.Promotion == puzzle.NoPromotion && s.rules.NeedsPromotion(move.From, move.To) {
		piece, ok, err := s.board.RequestPromotion(ctx, move.From, move.To, s.human)
		if err != nil {
			return domain.Outcome{}, err
		}
		if !ok {
			return s.resume(ctx, domain.Outcome{Verdict: domain.VerdictCancelled, Move: move})
		}
		move.Promotion = piece
		legal = s.rules.IsLegal(move)
	}
	if !legal {
		if err := s.board.SetPosition(ctx, s.rules.Position(), false); err != nil {
			return domain.Outcome{}, err
		}
		return s.resume(ctx, domain.Outcome{Verdict: domain.VerdictIllegal, Move: move})
	}

	if err := s.rules.Apply(move); err != nil {
		return domain.Outcome{}, fmt.Errorf("apply %s: %w", move, err)
	}
	if err := s.board.SetPosition(ctx, s.rules.Position(), true); err != nil {
		return domain.Outcome{}, err
	}
	s.setFEN(s.rules.Position())

	if !move.Equal(s.record.Moves[index]) {
		return s.reject(ctx, move)
	}
	return s.accept(ctx, move, index+1)
}

func (s *Sequencer) accept(ctx context.Context, move domain.Move, next int) (domain.Outcome, error) {
	s.mu.Lock()
	s.state = domain.Correct
	s.moveIndex = next
	s.mu.Unlock()
	if err := s.board.ShowMarker(ctx, move.To, domain.MarkerCorrect); err != nil {
		return domain.Outcome{}, err
	}
	if next == len(s.record.Moves) {
		return s.solve(ctx, domain.Outcome{Move: move})
	}
	if err := clock.Sleep(ctx, s.pacing.ReplyDelay); err != nil {
		return domain.Outcome{}, err
	}

	reply := s.record.Moves[next]
	if err := s.rules.Apply(reply); err != nil {
		return domain.Outcome{}, &puzzle.MalformedPuzzleError{Raw: s.record.Raw, Reason: fmt.Sprintf("reply %s: %v", reply, err)}
	}
	if err := s.board.ClearMarkers(ctx); err != nil {
		return domain.Outcome{}, err
	}
	if err := s.board.SetPosition(ctx, s.rules.Position(), true); err != nil {
		return domain.Outcome{}, err
	}
	s.setFEN(s.rules.Position())
	next++
	s.setMoveIndex(next)

	outcome := domain.Outcome{Move: move, Reply: &reply}
	if next == len(s.record.Moves) {
		return s.solve(ctx, outcome)
	}
	outcome.Verdict = domain.VerdictCorrect
	return s.resume(ctx, outcome)
}

func (s *Sequencer) reject(ctx context.Context, move domain.Move) (domain.Outcome, error) {
	s.mu.Lock()
	s.state = domain.Incorrect
	s.mu.Unlock()
	if err := s.progress.RecordAttempt(ctx, s.record.FEN, move.String()); err != nil {
		s.logger.Warn("record attempt", zap.String("move", move.String()), zap.Error(err))
	}
	if err := s.board.ShowMarker(ctx, move.To, domain.MarkerIncorrect); err != nil {
		return domain.Outcome{}, err
	}
	if err := clock.Sleep(ctx, s.pacing.RevertDelay); err != nil {
		return domain.Outcome{}, err
	}
	if err := s.rules.Undo(); err != nil {
		return domain.Outcome{}, fmt.Errorf("undo %s: %w", move, err)
	}
	if err := s.board.ClearMarkers(ctx); err != nil {
		return domain.Outcome{}, err
	}
	if err := s.board.SetPosition(ctx, s.rules.Position(), true); err != nil {
		return domain.Outcome{}, err
	}
	s.setFEN(s.rules.Position())
	return s.resume(ctx, domain.Outcome{Verdict: domain.VerdictIncorrect, Move: move})
}

func (s *Sequencer) solve(ctx context.Context, outcome domain.Outcome) (domain.Outcome, error) {
	s.mu.Lock()
	s.state = domain.Solved
	outcome.MoveIndex = s.moveIndex
	s.mu.Unlock()
	outcome.Verdict = domain.VerdictSolved
	outcome.State = domain.Solved

	if err := s.progress.MarkSolved(ctx, s.record.Key()); err != nil {
		s.logger.Warn("persist solved puzzle", zap.Error(err))
	}
	s.logger.Info("puzzle solved")
	if err := s.board.ShowSolved(ctx); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// resume hands the board back to the human.
func (s *Sequencer) resume(ctx context.Context, outcome domain.Outcome) (domain.Outcome, error) {
	s.mu.Lock()
	s.state = domain.AwaitingUserMove
	outcome.MoveIndex = s.moveIndex
	s.mu.Unlock()
	outcome.State = domain.AwaitingUserMove
	if err := s.board.EnableInput(ctx, s.human); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// LegalTargets lists destinations of from while the human may move.
func (s *Sequencer) LegalTargets(from domain.Square) []domain.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.AwaitingUserMove {
		return nil
	}
	return s.rules.LegalTargets(from)
}

func (s *Sequencer) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) MoveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveIndex
}

// Position is the FEN of the position the board last settled on.
func (s *Sequencer) Position() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fen
}

func (s *Sequencer) Human() domain.Color { return s.human }

func (s *Sequencer) setMoveIndex(i int) {
	s.mu.Lock()
	s.moveIndex = i
	s.mu.Unlock()
}

func (s *Sequencer) setFEN(fen string) {
	s.mu.Lock()
	s.fen = fen
	s.mu.Unlock()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	puzzle "cpt/internal/modules/puzzle/domain"
	"cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
	"cpt/internal/platform/clock"
	apperrors "cpt/internal/platform/errors"
	"cpt/internal/platform/id"
)

// Controller owns a training session: the cursor into the puzzle set and one
// sequencer for the active puzzle. Advancing cancels the previous puzzle's
// context with apperrors.ErrStalePuzzle.
type Controller struct {
	clock    clock.Clock
	ids      id.Generator
	catalog  trainingout.Catalog
	progress trainingout.ProgressRecorder
	rules    trainingout.RulesFactory
	board    trainingout.Board
	notes    trainingout.SessionLog
	pacing   domain.Pacing
	logger   *zap.Logger

	mu         sync.Mutex
	session    *domain.Session
	total      int
	base       context.Context
	stop       context.CancelCauseFunc
	record     puzzle.Record
	seq        *Sequencer
	puzzleCtx  context.Context
	cancel     context.CancelCauseFunc
	favorite   bool
	solvedHere bool
}

type ControllerDeps struct {
	Clock    clock.Clock
	IDs      id.Generator
	Catalog  trainingout.Catalog
	Progress trainingout.ProgressRecorder
	Rules    trainingout.RulesFactory
	Board    trainingout.Board
	Notes    trainingout.SessionLog
	Pacing   domain.Pacing
	Logger   *zap.Logger
}

func NewController(deps ControllerDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		clock:    deps.Clock,
		ids:      deps.IDs,
		catalog:  deps.Catalog,
		progress: deps.Progress,
		rules:    deps.Rules,
		board:    deps.Board,
		notes:    deps.Notes,
		pacing:   deps.Pacing,
		logger:   logger.Named("training"),
	}
}

// Start loads the category and activates the first candidate puzzle. start
// is 1-based; zero resumes at the last viewed puzzle of the category.
func (c *Controller) Start(ctx context.Context, category string, start int, refresh bool) (domain.Snapshot, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if start < 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: start must not be negative", apperrors.ErrInvalidInput)
	}
	total, err := c.catalog.Load(ctx, category, refresh)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if start > total {
		return domain.Snapshot{}, fmt.Errorf("%w: start %d beyond %d puzzles", apperrors.ErrInvalidInput, start, total)
	}
	after := -1
	if start > 0 {
		after = start - 2
	} else if idx, ok, err := c.progress.LastViewed(ctx, category); err != nil {
		c.logger.Warn("read last viewed", zap.String("category", category), zap.Error(err))
	} else if ok {
		after = idx - 1
	}

	c.mu.Lock()
	c.teardownLocked()
	base, stop := context.WithCancelCause(context.Background())
	c.base, c.stop = base, stop
	c.total = total
	c.session = &domain.Session{ID: c.ids.New(), Category: category, StartedAt: c.clock.Now(), Index: -1}
	c.mu.Unlock()

	c.logger.Info("session started", zap.String("category", category), zap.Int("puzzles", total), zap.Int("after", after))
	return c.activate(ctx, after)
}

// Advance abandons the active puzzle and activates the next unsolved one.
func (c *Controller) Advance(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return domain.Snapshot{}, apperrors.ErrNoActiveSession
	}
	after := c.session.Index
	c.mu.Unlock()
	return c.activate(ctx, after)
}

func (c *Controller) activate(ctx context.Context, after int) (domain.Snapshot, error) {
	for {
		next, err := c.prepare(ctx, after)
		if err != nil {
			return domain.Snapshot{}, err
		}
		after = next.index
		if next.seq == nil {
			continue
		}
		opCtx, done := merge(ctx, next.ctx)
		err = next.seq.Activate(opCtx)
		done()
		var malformed *puzzle.MalformedPuzzleError
		if errors.As(err, &malformed) {
			c.mu.Lock()
			if c.session != nil {
				c.session.Stats.Presented--
			}
			c.skipLocked(next.index, err)
			c.mu.Unlock()
			continue
		}
		if err != nil {
			return domain.Snapshot{}, err
		}
		return c.Snapshot()
	}
}

// candidate is the puzzle picked by prepare. A nil seq means the entry at
// index was skipped.
type candidate struct {
	index int
	seq   *Sequencer
	ctx   context.Context
}

// prepare selects the next puzzle after `after` and installs its sequencer.
func (c *Controller) prepare(ctx context.Context, after int) (candidate, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return candidate{}, apperrors.ErrNoActiveSession
	}
	category := c.session.Category
	c.mu.Unlock()

	solved, err := c.progress.Solved(ctx)
	if err != nil {
		c.logger.Warn("read solved puzzles", zap.Error(err))
		solved = nil
	}
	idx, err := c.catalog.Next(ctx, category, solved, after)
	if err != nil {
		return candidate{}, err
	}
	skip := func(cause error) (candidate, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.skipLocked(idx, cause)
		return candidate{index: idx}, nil
	}

	record, err := c.catalog.Record(ctx, category, idx)
	if errors.Is(err, apperrors.ErrMalformedPuzzle) {
		return skip(err)
	}
	if err != nil {
		return candidate{}, err
	}
	rules, err := c.rules.New(record.FEN)
	if err != nil {
		return skip(&puzzle.MalformedPuzzleError{Raw: record.Raw, Reason: err.Error()})
	}
	isSolved, favorite, err := c.progress.Status(ctx, record.Key())
	if err != nil {
		c.logger.Warn("read puzzle status", zap.Error(err))
	}
	if err := c.progress.SetLastViewed(ctx, category, idx); err != nil {
		c.logger.Warn("persist last viewed", zap.String("category", category), zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.Category != category {
		return candidate{}, apperrors.ErrNoActiveSession
	}
	if c.cancel != nil {
		c.cancel(apperrors.ErrStalePuzzle)
	}
	c.puzzleCtx, c.cancel = context.WithCancelCause(c.base)
	c.record = record
	c.seq = NewSequencer(record, rules, c.board, c.progress, c.pacing, c.logger)
	c.session.Index = idx
	c.session.Stats.Presented++
	c.favorite = favorite
	c.solvedHere = isSolved
	c.logger.Debug("puzzle presented", zap.Int("index", idx), zap.Int("moves", len(record.Moves)))
	return candidate{index: idx, seq: c.seq, ctx: c.puzzleCtx}, nil
}

func (c *Controller) skipLocked(idx int, cause error) {
	if c.session != nil {
		c.session.Stats.Skipped++
	}
	c.logger.Warn("skipping malformed puzzle", zap.Int("index", idx), zap.Error(cause))
}

// Submit forwards a human move to the active puzzle.
func (c *Controller) Submit(ctx context.Context, move domain.Move) (domain.Outcome, error) {
	c.mu.Lock()
	seq, pctx := c.seq, c.puzzleCtx
	c.mu.Unlock()
	if seq == nil {
		return domain.Outcome{}, apperrors.ErrNoActiveSession
	}
	opCtx, done := merge(ctx, pctx)
	defer done()
	outcome, err := seq.Submit(opCtx, move)
	if err != nil {
		return outcome, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != seq {
		return outcome, apperrors.ErrStalePuzzle
	}
	c.session.Stats.Record(outcome.Verdict)
	if outcome.Verdict == domain.VerdictSolved {
		c.solvedHere = true
		c.session.Solved = append(c.session.Solved, c.record.Key())
	}
	c.logger.Debug("move judged",
		zap.String("move", outcome.Move.String()),
		zap.Stringer("verdict", outcome.Verdict),
		zap.Int("move_index", outcome.MoveIndex),
	)
	return outcome, nil
}

func (c *Controller) ToggleFavorite(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	if c.seq == nil {
		c.mu.Unlock()
		return "", false, apperrors.ErrNoActiveSession
	}
	key := c.record.Key()
	c.mu.Unlock()

	on, err := c.progress.ToggleFavorite(ctx, key)
	if err != nil {
		return "", false, err
	}
	c.mu.Lock()
	if c.seq != nil && c.record.Key() == key {
		c.favorite = on
	}
	c.mu.Unlock()
	return key, on, nil
}

// Snapshot reads the active puzzle without blocking on the sequencer.
func (c *Controller) Snapshot() (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.seq == nil {
		return domain.Snapshot{}, apperrors.ErrNoActiveSession
	}
	return domain.Snapshot{
		SessionID:   c.session.ID,
		Category:    c.session.Category,
		Index:       c.session.Index,
		Total:       c.total,
		Key:         c.record.Key(),
		StartFEN:    c.record.FEN,
		FEN:         c.seq.Position(),
		Orientation: c.seq.Human(),
		State:       c.seq.State(),
		MoveIndex:   c.seq.MoveIndex(),
		TotalMoves:  len(c.record.Moves),
		Favorite:    c.favorite,
		Solved:      c.solvedHere,
		Stats:       c.session.Stats,
		Meta:        c.record.Meta,
	}, nil
}

func (c *Controller) LegalTargets(from domain.Square) []domain.Square {
	c.mu.Lock()
	seq := c.seq
	c.mu.Unlock()
	if seq == nil {
		return nil
	}
	return seq.LegalTargets(from)
}

// End stops the session and writes its note.
func (c *Controller) End(ctx context.Context) (domain.Session, string, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return domain.Session{}, "", apperrors.ErrNoActiveSession
	}
	session := *c.session
	session.Solved = append([]string(nil), c.session.Solved...)
	c.teardownLocked()
	c.mu.Unlock()

	session.EndedAt = c.clock.Now()
	path, err := c.notes.Save(ctx, session)
	if err != nil {
		return domain.Session{}, "", err
	}
	c.logger.Info("session ended",
		zap.String("session", session.ID),
		zap.Int("presented", session.Stats.Presented),
		zap.Int("solved", session.Stats.Solved),
	)
	return session, path, nil
}

func (c *Controller) teardownLocked() {
	if c.cancel != nil {
		c.cancel(apperrors.ErrStalePuzzle)
	}
	if c.stop != nil {
		c.stop(apperrors.ErrStalePuzzle)
	}
	c.session, c.seq, c.cancel, c.stop = nil, nil, nil, nil
	c.puzzleCtx, c.base = nil, nil
	c.record = puzzle.Record{}
}

// merge derives a context that ends with parent or with the puzzle context,
// carrying the puzzle's cancel cause.
func merge(parent, puzzleCtx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(puzzleCtx, func() { cancel(context.Cause(puzzleCtx)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

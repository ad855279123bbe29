package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"cpt/internal/modules/progress/domain"
	progressout "cpt/internal/modules/progress/port/out"
	apperrors "cpt/internal/platform/errors"
)

// ProgressService owns the persisted solved set, favorites, failed attempts
// and last viewed cursor. Corrupt stored values read as empty.
type ProgressService struct {
	mu     sync.Mutex
	store  progressout.KVStore
	logger *zap.Logger
}

func NewProgressService(store progressout.KVStore, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{store: store, logger: logger.Named("progress")}
}

func (s *ProgressService) Solved(ctx context.Context) (domain.OrderedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSet(ctx, domain.KeySolved)
}

func (s *ProgressService) IsSolved(ctx context.Context, key string) (bool, error) {
	solved, err := s.Solved(ctx)
	if err != nil {
		return false, err
	}
	return solved.Contains(key), nil
}

// MarkSolved adds key to the solved set. Solved keys are never removed
// except by Reset.
func (s *ProgressService) MarkSolved(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: puzzle key is required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	solved, err := s.loadSet(ctx, domain.KeySolved)
	if err != nil {
		return err
	}
	solved, changed := solved.Add(key)
	if !changed {
		return nil
	}
	return s.save(ctx, domain.KeySolved, solved)
}

func (s *ProgressService) Favorites(ctx context.Context) (domain.OrderedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSet(ctx, domain.KeyFavorites)
}

func (s *ProgressService) IsFavorite(ctx context.Context, key string) (bool, error) {
	favorites, err := s.Favorites(ctx)
	if err != nil {
		return false, err
	}
	return favorites.Contains(key), nil
}

// ToggleFavorite flips membership of key and returns the new state.
func (s *ProgressService) ToggleFavorite(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, fmt.Errorf("%w: puzzle key is required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	favorites, err := s.loadSet(ctx, domain.KeyFavorites)
	if err != nil {
		return false, err
	}
	favorites, on := favorites.Toggle(key)
	if err := s.save(ctx, domain.KeyFavorites, favorites); err != nil {
		return false, err
	}
	return on, nil
}

func (s *ProgressService) Attempts(ctx context.Context) (domain.Attempts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAttempts(ctx)
}

// RecordAttempt logs a wrong move tried from the starting position fen.
func (s *ProgressService) RecordAttempt(ctx context.Context, fen, move string) error {
	if strings.TrimSpace(fen) == "" || strings.TrimSpace(move) == "" {
		return fmt.Errorf("%w: position and move are required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	attempts, err := s.loadAttempts(ctx)
	if err != nil {
		return err
	}
	if !attempts.Record(fen, move) {
		return nil
	}
	return s.save(ctx, domain.KeyAttempts, attempts)
}

func (s *ProgressService) LastViewed(ctx context.Context, category string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	viewed, err := s.loadLastViewed(ctx)
	if err != nil {
		return 0, false, err
	}
	idx, ok := viewed[category]
	return idx, ok, nil
}

func (s *ProgressService) SetLastViewed(ctx context.Context, category string, index int) error {
	if strings.TrimSpace(category) == "" || index < 0 {
		return fmt.Errorf("%w: category and non-negative index are required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	viewed, err := s.loadLastViewed(ctx)
	if err != nil {
		return err
	}
	if current, ok := viewed[category]; ok && current == index {
		return nil
	}
	viewed[category] = index
	return s.save(ctx, domain.KeyLastViewed, viewed)
}

// Reset clears one persisted key.
func (s *ProgressService) Reset(ctx context.Context, key string) error {
	if err := domain.ValidKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("progress reset", zap.String("key", key))
	return nil
}

func (s *ProgressService) loadSet(ctx context.Context, key string) (domain.OrderedSet, error) {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	set, err := domain.DecodeSet(raw)
	if err != nil {
		s.corrupt(key, err)
		return nil, nil
	}
	return set, nil
}

func (s *ProgressService) loadAttempts(ctx context.Context) (domain.Attempts, error) {
	raw, found, err := s.store.Get(ctx, domain.KeyAttempts)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.Attempts{}, nil
	}
	attempts, err := domain.DecodeAttempts(raw)
	if err != nil {
		s.corrupt(domain.KeyAttempts, err)
		return domain.Attempts{}, nil
	}
	return attempts, nil
}

func (s *ProgressService) loadLastViewed(ctx context.Context) (domain.LastViewed, error) {
	raw, found, err := s.store.Get(ctx, domain.KeyLastViewed)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.LastViewed{}, nil
	}
	viewed, err := domain.DecodeLastViewed(raw)
	if err != nil {
		s.corrupt(domain.KeyLastViewed, err)
		return domain.LastViewed{}, nil
	}
	return viewed, nil
}

func (s *ProgressService) save(ctx context.Context, key string, v any) error {
	raw, err := domain.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Put(ctx, key, raw)
}

func (s *ProgressService) corrupt(key string, err error) {
	s.logger.Warn("corrupt progress value treated as empty", zap.String("key", key), zap.Error(err))
}

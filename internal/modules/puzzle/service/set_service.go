package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cpt/internal/modules/puzzle/domain"
	puzzleout "cpt/internal/modules/puzzle/port/out"
	"cpt/internal/platform/clock"
	apperrors "cpt/internal/platform/errors"
)

const prefetchLimit = 4

type SetService struct {
	clock  clock.Clock
	source puzzleout.SetSource
	cache  puzzleout.SetCache
	files  puzzleout.SetFileReader
	logger *zap.Logger
}

func NewSetService(clock clock.Clock, source puzzleout.SetSource, cache puzzleout.SetCache, files puzzleout.SetFileReader, logger *zap.Logger) *SetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetService{clock: clock, source: source, cache: cache, files: files, logger: logger.Named("puzzle")}
}

// Fetch downloads the set for category and replaces the cached copy.
func (s *SetService) Fetch(ctx context.Context, category string) (domain.Set, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.Set{}, fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if s.source == nil {
		return domain.Set{}, &domain.FetchError{Category: category, Err: apperrors.ErrNotConfigured}
	}
	set, err := s.source.Fetch(ctx, category)
	if err != nil {
		s.logger.Error("fetch puzzle set", zap.String("category", category), zap.Error(err))
		return domain.Set{}, err
	}
	set.Category = category
	set.FetchedAt = s.clock.Now()
	if err := s.cache.Save(ctx, set); err != nil {
		return domain.Set{}, err
	}
	s.logger.Info("puzzle set fetched", zap.String("category", category), zap.Int("entries", set.Len()))
	return set, nil
}

// Load returns the cached set, fetching it when refresh is requested or the
// cache has no copy.
func (s *SetService) Load(ctx context.Context, category string, refresh bool) (domain.Set, error) {
	if refresh {
		return s.Fetch(ctx, category)
	}
	set, err := s.cache.Load(ctx, category)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Debug("cache miss", zap.String("category", category))
		return s.Fetch(ctx, category)
	}
	if err != nil {
		return domain.Set{}, err
	}
	return set, nil
}

// Prefetch fetches several categories concurrently and stops at the first
// failure.
func (s *SetService) Prefetch(ctx context.Context, categories []string) ([]domain.CategorySummary, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", apperrors.ErrInvalidInput)
	}
	out := make([]domain.CategorySummary, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for i, category := range categories {
		g.Go(func() error {
			set, err := s.Fetch(gctx, category)
			if err != nil {
				return err
			}
			out[i] = domain.CategorySummary{Category: set.Category, Count: set.Len(), FetchedAt: set.FetchedAt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Import reads a local puzzle export and caches it under category.
func (s *SetService) Import(ctx context.Context, path, category string) (domain.CategorySummary, error) {
	if strings.TrimSpace(path) == "" {
		return domain.CategorySummary{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.CategorySummary{}, fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if s.files == nil {
		return domain.CategorySummary{}, apperrors.ErrNotConfigured
	}
	entries, err := s.files.Read(ctx, path)
	if err != nil {
		return domain.CategorySummary{}, err
	}
	set := domain.Set{Category: category, Entries: entries, FetchedAt: s.clock.Now()}
	if err := s.cache.Save(ctx, set); err != nil {
		return domain.CategorySummary{}, err
	}
	s.logger.Info("puzzle set imported", zap.String("category", category), zap.String("path", path), zap.Int("entries", set.Len()))
	return domain.CategorySummary{Category: category, Count: set.Len(), FetchedAt: set.FetchedAt}, nil
}

func (s *SetService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	return s.cache.Categories(ctx)
}

// Record parses one cached entry.
func (s *SetService) Record(ctx context.Context, category string, index int) (domain.Record, error) {
	set, err := s.cache.Load(ctx, category)
	if err != nil {
		return domain.Record{}, err
	}
	if index < 0 || index >= set.Len() {
		return domain.Record{}, fmt.Errorf("%w: puzzle %d of %q", apperrors.ErrNotFound, index+1, category)
	}
	return set.Record(index)
}

// Next picks the next unsolved puzzle of the cached set after index after.
func (s *SetService) Next(ctx context.Context, category string, solved []string, after int) (int, string, error) {
	set, err := s.cache.Load(ctx, category)
	if err != nil {
		return -1, "", err
	}
	done := make(map[string]struct{}, len(solved))
	for _, key := range solved {
		done[key] = struct{}{}
	}
	idx, ok := domain.NextUnsolved(set, done, after)
	if !ok {
		return -1, "", apperrors.ErrNoMorePuzzles
	}
	return idx, set.Key(idx), nil
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cpt/internal/modules/progress/domain"
	"cpt/internal/modules/progress/service"
	apperrors "cpt/internal/platform/errors"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func TestMarkSolvedIsAddOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	svc := service.NewProgressService(store, nil)

	for _, key := range []string{"p1", "p2", "p1"} {
		if err := svc.MarkSolved(ctx, key); err != nil {
			t.Fatalf("mark solved %s: %v", key, err)
		}
	}
	solved, err := svc.Solved(ctx)
	if err != nil {
		t.Fatalf("solved: %v", err)
	}
	if diff := cmp.Diff(domain.OrderedSet{"p1", "p2"}, solved); diff != "" {
		t.Fatalf("solved mismatch (-want +got):\n%s", diff)
	}
	if store.values[domain.KeySolved] != `["p1","p2"]` {
		t.Fatalf("unexpected stored value %q", store.values[domain.KeySolved])
	}
	if err := svc.MarkSolved(ctx, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := service.NewProgressService(newMemStore(), nil)

	on, err := svc.ToggleFavorite(ctx, "p1")
	if err != nil || !on {
		t.Fatalf("expected favorite on, got %v %v", on, err)
	}
	if ok, _ := svc.IsFavorite(ctx, "p1"); !ok {
		t.Fatalf("p1 must be a favorite")
	}
	on, err = svc.ToggleFavorite(ctx, "p1")
	if err != nil || on {
		t.Fatalf("expected favorite off, got %v %v", on, err)
	}
	favorites, _ := svc.Favorites(ctx)
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites, got %v", favorites)
	}
}

func TestCorruptValuesReadAsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	store.values[domain.KeySolved] = "{not json"
	store.values[domain.KeyFavorites] = `{"a":1}`
	store.values[domain.KeyAttempts] = `["x"]`
	store.values[domain.KeyLastViewed] = `"nope"`

	core, logs := observer.New(zap.WarnLevel)
	svc := service.NewProgressService(store, zap.New(core))

	solved, err := svc.Solved(ctx)
	if err != nil || len(solved) != 0 {
		t.Fatalf("expected empty solved set, got %v %v", solved, err)
	}
	favorites, err := svc.Favorites(ctx)
	if err != nil || len(favorites) != 0 {
		t.Fatalf("expected empty favorites, got %v %v", favorites, err)
	}
	attempts, err := svc.Attempts(ctx)
	if err != nil || len(attempts) != 0 {
		t.Fatalf("expected empty attempts, got %v %v", attempts, err)
	}
	if _, ok, err := svc.LastViewed(ctx, "blitz"); err != nil || ok {
		t.Fatalf("expected no last viewed, got %v %v", ok, err)
	}
	if logs.Len() != 4 {
		t.Fatalf("expected 4 corruption warnings, got %d", logs.Len())
	}

	// A write after corruption starts from empty.
	if err := svc.MarkSolved(ctx, "p1"); err != nil {
		t.Fatalf("mark solved: %v", err)
	}
	if store.values[domain.KeySolved] != `["p1"]` {
		t.Fatalf("unexpected stored value %q", store.values[domain.KeySolved])
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.err = errors.New("disk gone")
	svc := service.NewProgressService(store, nil)
	if _, err := svc.Solved(context.Background()); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestAttemptsAndLastViewed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	svc := service.NewProgressService(store, nil)

	const fen = "1k1r4/pp3pp1/2p1p3/4b3/P3n1P1/8/KPP2PN1/3rBR1R b - - 2 31"
	for _, move := range []string{"h1h7", "h1h7", "a2a3"} {
		if err := svc.RecordAttempt(ctx, fen, move); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}
	attempts, _ := svc.Attempts(ctx)
	if diff := cmp.Diff(domain.Attempts{fen: {"h1h7", "a2a3"}}, attempts); diff != "" {
		t.Fatalf("attempts mismatch (-want +got):\n%s", diff)
	}

	if err := svc.SetLastViewed(ctx, "blitz", 4); err != nil {
		t.Fatalf("set last viewed: %v", err)
	}
	idx, ok, err := svc.LastViewed(ctx, "blitz")
	if err != nil || !ok || idx != 4 {
		t.Fatalf("unexpected last viewed %d %v %v", idx, ok, err)
	}
	if err := svc.SetLastViewed(ctx, "blitz", -1); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	if err := svc.Reset(ctx, domain.KeyAttempts); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok := store.values[domain.KeyAttempts]; ok {
		t.Fatalf("attempts must be cleared")
	}
	if err := svc.Reset(ctx, "unknown"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

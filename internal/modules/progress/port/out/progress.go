package out

import "context"

// KVStore persists string values under string keys. Get reports found=false
// for an absent key.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

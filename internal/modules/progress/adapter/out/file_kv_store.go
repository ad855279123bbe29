package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	progressout "cpt/internal/modules/progress/port/out"
)

// FileKVStore keeps every key in one JSON object on disk. A file that no
// longer decodes is moved aside to <path>.corrupt and the store starts empty.
type FileKVStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewFileKVStore(path string, logger *zap.Logger) progressout.KVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileKVStore{path: path, logger: logger}
}

func (s *FileKVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *FileKVStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *FileKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *FileKVStore) read() (map[string]string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read kv file: %w", err)
	}
	values := map[string]string{}
	if len(payload) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(payload, &values); err != nil {
		aside := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, aside); renameErr != nil {
			return nil, fmt.Errorf("move corrupt kv file: %w", renameErr)
		}
		s.logger.Warn("corrupt progress file moved aside",
			zap.String("path", s.path), zap.String("moved_to", aside), zap.Error(err))
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileKVStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create kv dir: %w", err)
	}
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal kv file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write kv file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace kv file: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in a single JSON document on disk
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// NewFileStore opens the JSON document at path, creating it on first write
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, err
	}

	if len(bytes) == 0 {
		return fs, nil
	}

	if err = json.Unmarshal(bytes, &fs.values); err != nil {
		log.Error("can not decode state file", "path", path, "error", err)
		return nil, err
	}

	return fs, nil
}

func (fs *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	v, ok := fs.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

// Set stores value, which must be a JSON document, and rewrites the file
func (fs *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return errors.New("file store values must be JSON")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.values[key] = append(json.RawMessage(nil), value...)
	bytes, err := json.Marshal(fs.values)
	if err != nil {
		return err
	}

	tmp := fs.path + ".tmp"
	if dir := filepath.Dir(fs.path); dir != "." {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err = os.WriteFile(tmp, bytes, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, fs.path)
}

func (fs *FileStore) Close() error {
	return nil
}

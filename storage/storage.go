package storage

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/ElrondNetwork/elrond-go-logger"
)

var log = logger.GetOrCreate("storage")

// ErrNotFound is returned when a key holds no value
var ErrNotFound = errors.New("key not found")

// ErrUnknownKind is returned for an unsupported storage kind
var ErrUnknownKind = errors.New("unknown storage kind")

// KV is a minimal key-value store holding persisted blobs
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the KV backend named by kind
func Open(kind, path, redisAddr string) (KV, error) {
	switch kind {
	case "", "file":
		if path == "" {
			path = "state.json"
		}
		return NewFileStore(path)
	case "sqlite":
		if path == "" {
			path = "state.sqlite"
		}
		return NewSQLiteStore(path)
	case "redis":
		return NewRedisStore(redisAddr)
	case "memory":
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// KV is a byte-value store addressed by string keys.
//
// Remove of an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Backend selects a KV implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendSQLite, BackendFile, BackendMemory}

// ParseBackend converts a case-insensitive name into a Backend.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown kv backend %q: must be one of %v", name, Backends)
}

// Open creates the backend at path. The memory backend ignores path.
// Callers release it with Close.
func Open(backend Backend, path string) (KV, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown kv backend %q", backend)
	}
}

// Close releases store if it holds resources.
func Close(store KV) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

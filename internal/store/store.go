// Package store is the key/value persistence adapter. Values are JSON blobs
// addressed by fixed string keys under a single namespace.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/logger"
)

// Store is the raw key/value backend. Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Lister is implemented by backends that can enumerate keys by prefix.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrBackend wraps read/write failures of the underlying store.
var ErrBackend = errors.New("store backend failure")

// Load reads the collection under key. Missing keys, malformed JSON, non-array
// payloads and entries rejected by validate all yield an empty collection; only
// backend failures are returned as errors.
func Load[T any](ctx context.Context, s Store, key string, validate func(T) error) ([]T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrBackend, key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("discarding unparseable collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		logger.Warn("collection was not an array", zap.String("key", key))
		return []T{}, nil
	}

	if validate != nil {
		for i, item := range items {
			if err := validate(item); err != nil {
				logger.Warn("discarding collection with invalid entry",
					zap.String("key", key), zap.Int("index", i), zap.Error(err))
				return []T{}, nil
			}
		}
	}

	return items, nil
}

// Save serializes the whole collection under key.
func Save[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrBackend, key, err)
	}
	return nil
}

// LoadObject reads a single JSON object. A malformed value is deleted and
// reported as not found.
func LoadObject[T any](ctx context.Context, s Store, key string, validate func(T) error) (T, bool, error) {
	var zero T
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("%w: load %s: %v", ErrBackend, key, err)
	}
	if !found || raw == "" {
		return zero, false, nil
	}

	var obj T
	err = json.Unmarshal([]byte(raw), &obj)
	if err == nil && validate != nil {
		err = validate(obj)
	}
	if err != nil {
		logger.Warn("discarding malformed object", zap.String("key", key), zap.Error(err))
		if delErr := s.Del(ctx, key); delErr != nil {
			logger.Warn("could not clear malformed object", zap.String("key", key), zap.Error(delErr))
		}
		return zero, false, nil
	}
	return obj, true, nil
}

// SaveObject serializes a single JSON object under key.
func SaveObject[T any](ctx context.Context, s Store, key string, obj T) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrBackend, key, err)
	}
	return nil
}

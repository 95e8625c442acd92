// Package storage provides the key-value stores that persist the session state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -source=store.go -destination=../mocks/storage/mock_store.go -package=mock_storage

// Store is a key-value store of serialized values.
// Absence of a key is not an error: Get reports it with ok == false.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid storage key")

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}

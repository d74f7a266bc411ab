package session

import "context"

// Store is a key-value session store. A missing key means "no saved
// game", not an error.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
}

package cache

import (
	"context"
	"errors"
	"fmt"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-encodable read results. Implementations must be safe for
// concurrent use.
//
// Entries are written under a generation. Readers take the generation before
// loading from the store and build keys with Versioned; Invalidate advances
// the generation, so a value loaded before a mutation is never served after it.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	// Invalidate advances the generation and drops older entries.
	Invalidate(ctx context.Context) error
}

// Versioned scopes key to generation gen.
func Versioned(gen int64, key string) string {
	return fmt.Sprintf("v%d:%s", gen, key)
}

func FeedKey(limit int) string {
	return fmt.Sprintf("feed:%d", limit)
}

func PostKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Generation(context.Context) (int64, error) { return 0, nil }
func (Nop) Get(context.Context, string, any) error     { return ErrCacheMiss }
func (Nop) Set(context.Context, string, any) error     { return nil }
func (Nop) Invalidate(context.Context) error           { return nil }

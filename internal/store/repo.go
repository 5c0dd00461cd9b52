package store

import (
	"context"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// Repo is the per-user state store. All mutations to one user's state go
// through Update or Scan, which hold that user's lock for the duration of
// the callback; the message path and the scheduler therefore never touch
// the same state concurrently.
type Repo interface {
	// Update runs fn against the user's state (created on first contact),
	// persisting it afterwards if fn returned nil.
	Update(ctx context.Context, userID string, fn func(*domain.UserState) error) error
	// Scan visits every known user under its lock. fn reports whether it
	// mutated the state, so backends can persist only what changed.
	Scan(ctx context.Context, fn func(*domain.UserState) bool) error
	Close() error
}

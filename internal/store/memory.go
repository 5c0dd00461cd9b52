package store

import (
	"context"
	"sort"
	"sync"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// Memory is the reference in-memory backend: a lazily populated map of
// user id to state, with one lock per user.
type Memory struct {
	mu    sync.Mutex
	users map[string]*entry

	// persist, when set, is called after every mutating callback while the
	// user's lock is still held. The SQLite backend hooks in here.
	persist func(ctx context.Context, u *domain.UserState) error
}

type entry struct {
	mu    sync.Mutex
	state *domain.UserState
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]*entry)}
}

func (m *Memory) getOrCreate(userID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.users[userID]
	if !ok {
		e = &entry{state: domain.NewUserState(userID)}
		m.users[userID] = e
	}
	return e
}

// Update implements Repo.
func (m *Memory) Update(ctx context.Context, userID string, fn func(*domain.UserState) error) error {
	e := m.getOrCreate(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.state); err != nil {
		return err
	}
	if m.persist != nil {
		return m.persist(ctx, e.state)
	}
	return nil
}

// Scan implements Repo. Users are visited in stable (sorted) order, each
// under its own lock; a slow callback for one user never blocks another
// user's inbound messages beyond that user's own lock.
func (m *Memory) Scan(ctx context.Context, fn func(*domain.UserState) bool) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.mu.Lock()
		e := m.users[id]
		m.mu.Unlock()
		if e == nil {
			continue
		}
		e.mu.Lock()
		changed := fn(e.state)
		if changed && m.persist != nil {
			if err := m.persist(ctx, e.state); err != nil {
				e.mu.Unlock()
				return err
			}
		}
		e.mu.Unlock()
	}
	return nil
}

// Close implements Repo.
func (m *Memory) Close() error { return nil }

// load seeds a user entry, used by persistent backends at startup.
func (m *Memory) load(u *domain.UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &entry{state: u}
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

func TestMemory_LazyCreateAndScan(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Update(ctx, "whatsapp:+551199", func(u *domain.UserState) error {
		u.AddExpense(10, "café", u.CreatedAt)
		return nil
	})
	require.NoError(t, err)

	err = m.Update(ctx, "whatsapp:+551188", func(u *domain.UserState) error { return nil })
	require.NoError(t, err)

	var seen []string
	err = m.Scan(ctx, func(u *domain.UserState) bool {
		seen = append(seen, u.ID)
		return false
	})
	require.NoError(t, err)
	require.Equal(t, []string{"whatsapp:+551188", "whatsapp:+551199"}, seen)
}

func TestMemory_UpdateErrorDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	m.persist = func(ctx context.Context, u *domain.UserState) error { calls++; return nil }

	_ = m.Update(ctx, "u1", func(u *domain.UserState) error { return context.Canceled })
	require.Zero(t, calls)

	require.NoError(t, m.Update(ctx, "u1", func(u *domain.UserState) error { return nil }))
	require.Equal(t, 1, calls)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "faztudo.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	err = s.Update(ctx, "u1", func(u *domain.UserState) error {
		u.AddHealthItem(domain.HealthProposal{
			Category: domain.CategorySport,
			Label:    "corrida",
			At:       domain.TimeOfDay{Hour: 7, Minute: 0},
		})
		u.AppendTurn("user", "Esporte: corrida 07:00")
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen: state must survive the restart.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	err = s.Update(ctx, "u1", func(u *domain.UserState) error {
		require.Len(t, u.Health[domain.CategorySport], 1)
		require.Equal(t, "corrida", u.Health[domain.CategorySport][0].Label)
		require.Equal(t, "07:00", u.Health[domain.CategorySport][0].At.String())
		require.Len(t, u.History, 1)
		return nil
	})
	require.NoError(t, err)
}

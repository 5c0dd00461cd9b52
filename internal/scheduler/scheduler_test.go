package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, userID, text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

func newTestScheduler(t *testing.T) (*Scheduler, *store.Memory, *fakeSender) {
	t.Helper()
	repo := store.NewMemory()
	fs := &fakeSender{}
	return New(repo, zap.NewNop(), fs, time.UTC), repo, fs
}

func seed(t *testing.T, repo *store.Memory, userID string, fn func(*domain.UserState)) {
	t.Helper()
	err := repo.Update(context.Background(), userID, func(u *domain.UserState) error {
		fn(u)
		return nil
	})
	require.NoError(t, err)
}

func at(h, m int) time.Time {
	return time.Date(2025, time.March, 10, h, m, 0, 0, time.UTC)
}

func TestOnlineMeeting_TwoRemindersThenResolved(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	ctx := context.Background()
	meetingAt := at(15, 0)

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddMeeting(domain.MeetingProposal{Kind: domain.MeetingOnline, ScheduledAt: meetingAt})
	})

	s.tick(ctx, at(14, 39)) // before the 20-minute mark
	require.Empty(t, fs.sent)

	s.tick(ctx, at(14, 40)) // T-20
	require.Len(t, fs.sent, 1)
	require.Contains(t, fs.sent[0], "20 minutos")

	s.tick(ctx, at(14, 41)) // no repeat
	require.Len(t, fs.sent, 1)

	s.tick(ctx, at(14, 55)) // T-5
	require.Len(t, fs.sent, 2)
	require.Contains(t, fs.sent[1], "5 minutos")

	seed(t, repo, "u1", func(u *domain.UserState) {
		require.True(t, u.Meetings[0].Resolved)
	})

	s.tick(ctx, at(14, 56))
	require.Len(t, fs.sent, 2)
}

func TestInPersonMeeting_SingleReminder(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	ctx := context.Background()

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddMeeting(domain.MeetingProposal{Kind: domain.MeetingInPerson, ScheduledAt: at(15, 0)})
	})

	s.tick(ctx, at(13, 59))
	require.Empty(t, fs.sent)

	// Threshold check: a late first tick still fires.
	s.tick(ctx, at(14, 7))
	require.Len(t, fs.sent, 1)
	require.Contains(t, fs.sent[0], "presencial")

	seed(t, repo, "u1", func(u *domain.UserState) {
		require.True(t, u.Meetings[0].Resolved)
	})

	s.tick(ctx, at(14, 8))
	s.tick(ctx, at(15, 0))
	require.Len(t, fs.sent, 1)
}

func TestBill_FiresExactlyOnceAcrossRepeatedTicks(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	ctx := context.Background()

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddBill("aluguel", 1200, at(9, 0))
	})

	s.tick(ctx, at(8, 59))
	require.Empty(t, fs.sent)

	for m := 0; m < 5; m++ {
		s.tick(ctx, at(9, m))
	}
	require.Len(t, fs.sent, 1)
	require.Contains(t, fs.sent[0], "aluguel")
	require.Contains(t, fs.sent[0], "1200.00")
}

func TestHealthItem_MinuteBucketEquality(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	ctx := context.Background()

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddHealthItem(domain.HealthProposal{
			Category: domain.CategorySport,
			Label:    "corrida",
			At:       domain.TimeOfDay{Hour: 7, Minute: 0},
		})
	})

	s.tick(ctx, at(6, 59))
	require.Empty(t, fs.sent)

	s.tick(ctx, at(7, 0))
	require.Len(t, fs.sent, 1)
	require.Contains(t, fs.sent[0], "corrida")

	// Same bucket: stamped, no repeat.
	s.tick(ctx, at(7, 0))
	require.Len(t, fs.sent, 1)

	// Pure equality: a missed minute is a missed day.
	s.tick(ctx, at(7, 1))
	require.Len(t, fs.sent, 1)

	// Next day, same time of day: fires again.
	s.tick(ctx, at(7, 0).AddDate(0, 0, 1))
	require.Len(t, fs.sent, 2)
}

func TestDailySummaryAndClosure(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	ctx := context.Background()

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddMeeting(domain.MeetingProposal{Kind: domain.MeetingOnline, ScheduledAt: at(10, 0).AddDate(0, 0, 1)})
		u.AddHealthItem(domain.HealthProposal{
			Category: domain.CategorySport,
			Label:    "corrida",
			At:       domain.TimeOfDay{Hour: 7, Minute: 0},
		})
	})

	s.tick(ctx, at(21, 30))
	require.Len(t, fs.sent, 1)
	require.Contains(t, fs.sent[0], "reunião online às 10:00")
	require.Contains(t, fs.sent[0], "corrida — 07:00")

	// Guarded: no repeat on the next minute.
	s.tick(ctx, at(21, 31))
	require.Len(t, fs.sent, 1)

	s.tick(ctx, at(23, 0))
	require.Len(t, fs.sent, 2)
	s.tick(ctx, at(23, 1))
	require.Len(t, fs.sent, 2)

	// Midnight reset re-arms both guards for the next day.
	s.tick(ctx, at(0, 1).AddDate(0, 0, 1))
	s.tick(ctx, at(21, 30).AddDate(0, 0, 1))
	require.Len(t, fs.sent, 3)
}

func TestSendFailureDoesNotRollBackFlagsOrStopChecks(t *testing.T) {
	s, repo, fs := newTestScheduler(t)
	fs.err = errors.New("provider down")
	ctx := context.Background()

	seed(t, repo, "u1", func(u *domain.UserState) {
		u.AddBill("luz", 230, at(9, 0))
		u.AddBill("água", 80, at(9, 0))
	})

	s.tick(ctx, at(9, 0))
	// Both checks ran despite the failing sender.
	require.Len(t, fs.sent, 2)

	// Flags were set anyway: no resend next tick.
	fs.err = nil
	s.tick(ctx, at(9, 1))
	require.Len(t, fs.sent, 2)

	seed(t, repo, "u1", func(u *domain.UserState) {
		require.True(t, u.Bills[0].Notified)
		require.True(t, u.Bills[1].Notified)
	})
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/store"
)

// Fixed daily trigger times (local).
const (
	summaryHour, summaryMinute = 21, 30
	closureHour, closureMinute = 23, 0
	resetHour, resetMinute     = 0, 1
)

// Meeting reminder offsets.
const (
	inPersonLead    = 60 * time.Minute
	onlineEarlyLead = 20 * time.Minute
	onlineFinalLead = 5 * time.Minute
)

// Sender delivers one outbound message. Failures are non-fatal: the
// reminder flag is already set by the time a send runs, so a failed send
// is logged and never retried within the tick.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// Scheduler scans every user's state once per minute and fires whatever
// reminders came due. Each boolean/instant-stamp flag transitions once
// and is the sole idempotence guard; repeated ticks are harmless.
type Scheduler struct {
	repo     store.Repo
	log      *zap.Logger
	sender   Sender
	loc      *time.Location
	interval time.Duration
}

// New creates a Scheduler ticking at minute cadence.
func New(repo store.Repo, log *zap.Logger, sender Sender, loc *time.Location) *Scheduler {
	return &Scheduler{
		repo:     repo,
		log:      log,
		sender:   sender,
		loc:      loc,
		interval: time.Minute,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx, time.Now().In(s.loc))
		}
	}
}

// tick performs one scheduling cycle. Per-user checks are independent;
// an error in one never prevents the next check or the next user.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	err := s.repo.Scan(ctx, func(u *domain.UserState) bool {
		changed := s.checkMeetings(ctx, u, now)
		changed = s.checkHealth(ctx, u, now) || changed
		changed = s.checkBills(ctx, u, now) || changed
		changed = s.checkDaily(ctx, u, now) || changed
		return changed
	})
	if err != nil {
		s.log.Error("scan failed", zap.Error(err))
	}
}

// send sets no state; callers flip their flags first so a delivery
// failure is never rolled back.
func (s *Scheduler) send(ctx context.Context, userID, text string) {
	if err := s.sender.Send(ctx, userID, text); err != nil {
		s.log.Error("send failed", zap.Error(err), zap.String("user", userID))
	}
}

func (s *Scheduler) checkMeetings(ctx context.Context, u *domain.UserState, now time.Time) bool {
	changed := false
	for i := range u.Meetings {
		m := &u.Meetings[i]
		if m.Resolved {
			continue
		}
		switch m.Kind {
		case domain.MeetingInPerson:
			// Single reminder an hour ahead; threshold check, so it still
			// fires late if a tick was missed.
			if !m.EarlyReminderSent && !now.Before(m.ScheduledAt.Add(-inPersonLead)) {
				m.EarlyReminderSent = true
				m.Resolved = true
				changed = true
				s.send(ctx, u.ID, inPersonReminderText(m.ScheduledAt))
			}
		case domain.MeetingOnline:
			// Two distinct trigger instants, each fires at most once;
			// resolved only after the final one.
			if !m.EarlyReminderSent && !now.Before(m.ScheduledAt.Add(-onlineEarlyLead)) {
				m.EarlyReminderSent = true
				changed = true
				s.send(ctx, u.ID, onlineEarlyReminderText(m.ScheduledAt))
			}
			if !m.FinalReminderSent && !now.Before(m.ScheduledAt.Add(-onlineFinalLead)) {
				m.FinalReminderSent = true
				m.Resolved = true
				changed = true
				s.send(ctx, u.ID, onlineFinalReminderText(m.ScheduledAt))
			}
		}
	}
	return changed
}

// checkHealth fires an item when the current minute bucket equals today's
// target bucket and it was not already stamped for that bucket. Pure
// minute equality: if the process is down during the target minute, that
// day's firing is skipped; the item fires again the next day because the
// comparison is against the current day's target, not a permanent flag.
func (s *Scheduler) checkHealth(ctx context.Context, u *domain.UserState, now time.Time) bool {
	changed := false
	bucket := now.Truncate(time.Minute)
	for _, cat := range domain.Categories() {
		items := u.Health[cat]
		for i := range items {
			it := &items[i]
			target := time.Date(now.Year(), now.Month(), now.Day(), it.At.Hour, it.At.Minute, 0, 0, now.Location())
			if !bucket.Equal(target) {
				continue
			}
			if it.LastNotifiedAt != nil && it.LastNotifiedAt.Equal(target) {
				continue
			}
			stamp := target
			it.LastNotifiedAt = &stamp
			changed = true
			s.send(ctx, u.ID, healthReminderText(*it))
		}
	}
	return changed
}

func (s *Scheduler) checkBills(ctx context.Context, u *domain.UserState, now time.Time) bool {
	changed := false
	for i := range u.Bills {
		b := &u.Bills[i]
		if b.Notified || now.Before(b.DueAt) {
			continue
		}
		b.Notified = true
		changed = true
		s.send(ctx, u.ID, billReminderText(*b))
	}
	return changed
}

func (s *Scheduler) checkDaily(ctx context.Context, u *domain.UserState, now time.Time) bool {
	changed := false
	h, m := now.Hour(), now.Minute()

	if h == summaryHour && m == summaryMinute && !u.DailySummarySent {
		u.DailySummarySent = true
		changed = true
		s.send(ctx, u.ID, dailySummaryText(u, now))
	}
	if h == closureHour && m == closureMinute && !u.DailyClosureSent {
		u.DailyClosureSent = true
		changed = true
		s.send(ctx, u.ID, dailyClosureText)
	}
	// Midnight reset opens the next day's cycle.
	if h == resetHour && m == resetMinute && (u.DailySummarySent || u.DailyClosureSent) {
		u.DailySummarySent = false
		u.DailyClosureSent = false
		changed = true
	}
	return changed
}

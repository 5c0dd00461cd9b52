package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// historyCap bounds conversation history growth; only the most recent
// turns are ever consulted for completions.
const historyCap = 64

// HealthCategory identifies one of the three routine categories.
type HealthCategory string

const (
	CategorySport      HealthCategory = "esporte"
	CategoryMedication HealthCategory = "medicacao"
	CategorySupplement HealthCategory = "suplemento"
)

// Categories returns all health categories in display order.
func Categories() []HealthCategory {
	return []HealthCategory{CategorySport, CategoryMedication, CategorySupplement}
}

// MeetingKind distinguishes reminder schedules: in-person meetings get a
// single reminder one hour ahead, online meetings get two (20 and 5 minutes).
type MeetingKind string

const (
	MeetingInPerson MeetingKind = "presencial"
	MeetingOnline   MeetingKind = "online"
)

// Meeting is a scheduled appointment. Resolved means no further
// reminders are owed.
type Meeting struct {
	ID                string      `json:"id"`
	Kind              MeetingKind `json:"kind"`
	ScheduledAt       time.Time   `json:"scheduled_at"`
	EarlyReminderSent bool        `json:"early_reminder_sent"`
	FinalReminderSent bool        `json:"final_reminder_sent"`
	Resolved          bool        `json:"resolved"`
}

// HealthItem is a recurring daily routine entry (time-of-day only, no date).
// LastNotifiedAt stamps the minute bucket of the last firing so the same
// item fires again on the next calendar day.
type HealthItem struct {
	ID             string         `json:"id"`
	Category       HealthCategory `json:"category"`
	Label          string         `json:"label"`
	At             TimeOfDay      `json:"at"`
	LastNotifiedAt *time.Time     `json:"last_notified_at,omitempty"`
}

// Bill is a payable with a due instant; Notified flips once the due time
// has passed and the reminder went out.
type Bill struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	DueAt    time.Time `json:"due_at"`
	Notified bool      `json:"notified"`
}

// Expense is an append-only spending record.
type Expense struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	Label      string    `json:"label"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Turn is one conversation exchange half, role "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HealthProposal is a staged health item awaiting a yes/no reply.
type HealthProposal struct {
	Category HealthCategory `json:"category"`
	Label    string         `json:"label"`
	At       TimeOfDay      `json:"at"`
}

// MeetingProposal is a staged meeting awaiting a yes/no reply.
type MeetingProposal struct {
	Kind        MeetingKind `json:"kind"`
	ScheduledAt time.Time   `json:"scheduled_at"`
}

// UserState holds everything the assistant knows about one user. At most
// one pending proposal per domain exists at any time.
type UserState struct {
	ID               string                          `json:"id"`
	Meetings         []Meeting                       `json:"meetings"`
	Health           map[HealthCategory][]HealthItem `json:"health"`
	Bills            []Bill                          `json:"bills"`
	Expenses         []Expense                       `json:"expenses"`
	History          []Turn                          `json:"history"`
	PendingHealth    *HealthProposal                 `json:"pending_health,omitempty"`
	PendingMeeting   *MeetingProposal                `json:"pending_meeting,omitempty"`
	DailySummarySent bool                            `json:"daily_summary_sent"`
	DailyClosureSent bool                            `json:"daily_closure_sent"`
	CreatedAt        time.Time                       `json:"created_at"`
}

// NewUserState creates an empty state for a first-contact user.
func NewUserState(id string) *UserState {
	return &UserState{
		ID:        id,
		Health:    make(map[HealthCategory][]HealthItem),
		CreatedAt: time.Now().UTC(),
	}
}

// AppendTurn records a conversation turn, trimming the oldest entries
// once the history cap is exceeded.
func (u *UserState) AppendTurn(role, content string) {
	u.History = append(u.History, Turn{Role: role, Content: content})
	if len(u.History) > historyCap {
		u.History = u.History[len(u.History)-historyCap:]
	}
}

// RecentHistory returns a copy of the last n turns.
func (u *UserState) RecentHistory(n int) []Turn {
	if n > len(u.History) {
		n = len(u.History)
	}
	out := make([]Turn, n)
	copy(out, u.History[len(u.History)-n:])
	return out
}

// AddHealthItem commits a confirmed proposal into its category sequence.
func (u *UserState) AddHealthItem(p HealthProposal) HealthItem {
	if u.Health == nil {
		u.Health = make(map[HealthCategory][]HealthItem)
	}
	item := HealthItem{
		ID:       uuid.New().String(),
		Category: p.Category,
		Label:    p.Label,
		At:       p.At,
	}
	u.Health[p.Category] = append(u.Health[p.Category], item)
	return item
}

// RemoveHealthLabel removes every item whose label matches case-insensitively,
// across all categories, and returns how many were removed.
func (u *UserState) RemoveHealthLabel(label string) int {
	removed := 0
	for _, cat := range Categories() {
		items := u.Health[cat]
		kept := items[:0]
		for _, it := range items {
			if strings.EqualFold(it.Label, label) {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		u.Health[cat] = kept
	}
	return removed
}

// HealthEmpty reports whether no routine item is configured in any category.
func (u *UserState) HealthEmpty() bool {
	for _, cat := range Categories() {
		if len(u.Health[cat]) > 0 {
			return false
		}
	}
	return true
}

// AddMeeting commits a confirmed proposal with both reminder flags unset.
func (u *UserState) AddMeeting(p MeetingProposal) Meeting {
	m := Meeting{
		ID:          uuid.New().String(),
		Kind:        p.Kind,
		ScheduledAt: p.ScheduledAt,
	}
	u.Meetings = append(u.Meetings, m)
	return m
}

// AddExpense appends a spending record.
func (u *UserState) AddExpense(amount float64, label string, recordedAt time.Time) Expense {
	e := Expense{
		ID:         uuid.New().String(),
		Amount:     amount,
		Label:      label,
		RecordedAt: recordedAt,
	}
	u.Expenses = append(u.Expenses, e)
	return e
}

// AddBill appends a bill due at the given instant.
func (u *UserState) AddBill(title string, amount float64, dueAt time.Time) Bill {
	b := Bill{
		ID:     uuid.New().String(),
		Title:  title,
		Amount: amount,
		DueAt:  dueAt,
	}
	u.Bills = append(u.Bills, b)
	return b
}

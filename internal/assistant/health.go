package assistant

import (
	"regexp"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

var (
	healthListRe   = regexp.MustCompile(`(?i)^sa[úu]de:?\s*listar\b`)
	healthRemoveRe = regexp.MustCompile(`(?i)^sa[úu]de:?\s*remover\s+(.+)$`)

	healthAddRes = []struct {
		re  *regexp.Regexp
		cat domain.HealthCategory
	}{
		{regexp.MustCompile(`(?i)^esportes?\s*:\s*(.+)$`), domain.CategorySport},
		{regexp.MustCompile(`(?i)^(?:medica[çc][ãa]o|rem[ée]dios?)\s*:\s*(.+)$`), domain.CategoryMedication},
		{regexp.MustCompile(`(?i)^suplementos?\s*:\s*(.+)$`), domain.CategorySupplement},
	}
)

// HealthInterpreter manages the daily routine: sport, medication and
// supplement items, each with a time of day. Adds go through the
// confirmation protocol; removes and lists apply immediately.
type HealthInterpreter struct{}

func (HealthInterpreter) Name() string { return "health" }

func (h HealthInterpreter) Handle(u *domain.UserState, text string, now time.Time) *Reply {
	if u.PendingHealth != nil {
		return h.resolvePending(u, text)
	}
	if healthListRe.MatchString(text) {
		return reply(KindReply, renderHealthList(u))
	}
	if m := healthRemoveRe.FindStringSubmatch(text); m != nil {
		label := domain.CollapseSpaces(m[1])
		n := u.RemoveHealthLabel(label)
		return reply(KindReply, healthRemovedText(n, label))
	}
	for _, add := range healthAddRes {
		if m := add.re.FindStringSubmatch(text); m != nil {
			return h.propose(u, add.cat, m[1])
		}
	}
	return nil
}

// propose stages a new item; nothing is committed until the user answers yes.
func (HealthInterpreter) propose(u *domain.UserState, cat domain.HealthCategory, body string) *Reply {
	at, rest, ok := domain.CutTimeOfDay(body)
	label := domain.CollapseSpaces(rest)
	if !ok || label == "" {
		return reply(KindGuidance, healthAddFormatText)
	}
	u.PendingHealth = &domain.HealthProposal{Category: cat, Label: label, At: at}
	return reply(KindPrompt, healthProposalPrompt(*u.PendingHealth))
}

func (HealthInterpreter) resolvePending(u *domain.UserState, text string) *Reply {
	return resolveProposal(text,
		func() string {
			item := u.AddHealthItem(*u.PendingHealth)
			u.PendingHealth = nil
			return healthCommittedText(item)
		},
		func() { u.PendingHealth = nil },
	)
}

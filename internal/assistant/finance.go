package assistant

import (
	"regexp"
	"strconv"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// billDueHour is the fixed local hour a bill comes due on its day of month.
const billDueHour = 9

var (
	expenseRe        = regexp.MustCompile(`(?i)^gastei\s+(\d+(?:[.,]\d{1,2})?)\s+(.+)$`)
	billRe           = regexp.MustCompile(`(?i)^conta\s+(.+?)\s+dia\s+(\d{1,2})\s+(\d+(?:[.,]\d{1,2})?)\s*$`)
	financeListRe    = regexp.MustCompile(`(?i)^finan[çc]as:?\s*listar\b`)
	financeSummaryRe = regexp.MustCompile(`(?i)^finan[çc]as:?\s*resumo\b`)
)

// FinanceInterpreter records expenses and bills. No confirmation step:
// matches commit immediately.
type FinanceInterpreter struct{}

func (FinanceInterpreter) Name() string { return "finance" }

func (f FinanceInterpreter) Handle(u *domain.UserState, text string, now time.Time) *Reply {
	if m := expenseRe.FindStringSubmatch(text); m != nil {
		amount, ok := domain.ParseAmount(m[1])
		if !ok {
			return reply(KindGuidance, "Não entendi o valor. Ex.: \"gastei 50 mercado\"")
		}
		e := u.AddExpense(amount, domain.CollapseSpaces(m[2]), now)
		return reply(KindReply, expenseRecordedText(e))
	}
	if m := billRe.FindStringSubmatch(text); m != nil {
		amount, ok := domain.ParseAmount(m[3])
		if !ok {
			return reply(KindGuidance, "Não entendi o valor. Ex.: \"conta aluguel dia 5 1200\"")
		}
		day, _ := strconv.Atoi(m[2]) // digits only by regex
		b := u.AddBill(domain.CollapseSpaces(m[1]), amount, billDueAt(day, now))
		return reply(KindReply, billRecordedText(b))
	}
	if financeListRe.MatchString(text) {
		return reply(KindReply, renderFinanceList(u))
	}
	if financeSummaryRe.MatchString(text) {
		return reply(KindReply, renderFinanceSummary(u))
	}
	return nil
}

// billDueAt resolves day-of-month to the due instant this month at the
// fixed hour, rolling to next month when that instant has already passed.
func billDueAt(day int, now time.Time) time.Time {
	due := time.Date(now.Year(), now.Month(), day, billDueHour, 0, 0, 0, now.Location())
	if !due.After(now) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

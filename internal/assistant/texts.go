package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// User-facing texts, pt-BR. Failures are always friendly strings, never
// raw error detail.
const (
	apologyText = "Tive um probleminha aqui 😅 Pode tentar de novo em 1 minutinho?"

	confirmRepromptText = "Só preciso de um sim ou não 🙂"
	cancelledText       = "Tudo bem, cancelei 👍"

	healthAddFormatText = "Pra eu anotar direitinho, use: \"Esporte: corrida 07:00\" (com o horário HH:MM)"
	healthEmptyText     = "Você ainda não configurou sua rotina de saúde. Me manda algo como \"Esporte: corrida 07:00\" 😉"
	healthListTitle     = "🩺 Sua rotina de saúde:"

	meetingKindText   = "Essa reunião é presencial ou online? Me diga um dos dois 🙂"
	meetingWhenText   = "Me diga o dia e o horário, ex.: \"reunião online amanhã 15:00\""
	agendaEmptyText   = "Sua agenda está vazia 📭"
	agendaClearedText = "Prontinho, limpei sua agenda 🗑️"

	financeEmptyText = "Nenhum gasto ou conta anotado ainda 💸"
)

var categoryNames = map[domain.HealthCategory]string{
	domain.CategorySport:      "esporte",
	domain.CategoryMedication: "medicação",
	domain.CategorySupplement: "suplemento",
}

var categoryHeaders = map[domain.HealthCategory]string{
	domain.CategorySport:      "Esportes",
	domain.CategoryMedication: "Medicações",
	domain.CategorySupplement: "Suplementos",
}

func healthProposalPrompt(p domain.HealthProposal) string {
	return fmt.Sprintf("Anoto %s \"%s\" às %s na sua rotina? (sim/não)",
		categoryNames[p.Category], p.Label, p.At)
}

func healthCommittedText(item domain.HealthItem) string {
	return fmt.Sprintf("Prontinho! ✅ \"%s\" às %s entrou na sua rotina de %s.",
		item.Label, item.At, categoryNames[item.Category])
}

func healthRemovedText(n int, label string) string {
	if n == 0 {
		return fmt.Sprintf("Não achei \"%s\" na sua rotina 🤔", label)
	}
	return fmt.Sprintf("Removi %d item(ns) \"%s\" da sua rotina ✅", n, label)
}

func renderHealthList(u *domain.UserState) string {
	if u.HealthEmpty() {
		return healthEmptyText
	}
	var b strings.Builder
	b.WriteString(healthListTitle)
	for _, cat := range domain.Categories() {
		items := u.Health[cat]
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n\n" + categoryHeaders[cat] + ":")
		for _, it := range items {
			fmt.Fprintf(&b, "\n- %s — %s", it.Label, it.At)
		}
	}
	return b.String()
}

func formatMeetingWhen(at time.Time) string {
	return at.Format("02/01 15:04")
}

func meetingProposalPrompt(p domain.MeetingProposal) string {
	return fmt.Sprintf("Marco reunião %s para %s? (sim/não)", p.Kind, formatMeetingWhen(p.ScheduledAt))
}

func meetingCommittedText(m domain.Meeting) string {
	return fmt.Sprintf("Reunião %s marcada para %s ✅ Eu te aviso antes!", m.Kind, formatMeetingWhen(m.ScheduledAt))
}

func renderAgenda(u *domain.UserState) string {
	if len(u.Meetings) == 0 {
		return agendaEmptyText
	}
	var b strings.Builder
	b.WriteString("📅 Sua agenda:")
	for _, m := range u.Meetings {
		fmt.Fprintf(&b, "\n- reunião %s — %s", m.Kind, formatMeetingWhen(m.ScheduledAt))
	}
	return b.String()
}

func expenseRecordedText(e domain.Expense) string {
	return fmt.Sprintf("Anotado! 💸 R$ %.2f em %s.", e.Amount, e.Label)
}

func billRecordedText(b domain.Bill) string {
	return fmt.Sprintf("Conta \"%s\" anotada: R$ %.2f, vence em %s ✅",
		b.Title, b.Amount, b.DueAt.Format("02/01 15:04"))
}

func renderFinanceList(u *domain.UserState) string {
	if len(u.Expenses) == 0 && len(u.Bills) == 0 {
		return financeEmptyText
	}
	var b strings.Builder
	b.WriteString("💰 Suas finanças:")
	if n := len(u.Expenses); n > 0 {
		b.WriteString("\n\nÚltimos gastos:")
		start := n - 5
		if start < 0 {
			start = 0
		}
		for _, e := range u.Expenses[start:] {
			fmt.Fprintf(&b, "\n- R$ %.2f — %s", e.Amount, e.Label)
		}
	}
	if len(u.Bills) > 0 {
		b.WriteString("\n\nContas:")
		for _, bill := range u.Bills {
			fmt.Fprintf(&b, "\n- %s: R$ %.2f (vence %s)", bill.Title, bill.Amount, bill.DueAt.Format("02/01"))
		}
	}
	return b.String()
}

func renderFinanceSummary(u *domain.UserState) string {
	var spent, owed float64
	for _, e := range u.Expenses {
		spent += e.Amount
	}
	for _, b := range u.Bills {
		owed += b.Amount
	}
	return fmt.Sprintf("📊 Resumo: gastos R$ %.2f | contas R$ %.2f", spent, owed)
}

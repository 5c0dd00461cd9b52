package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

const dailyClosureText = "🌙 Antes de encerrar: como foi seu dia hoje? Teve algo que você queria ter feito diferente?"

var categoryNames = map[domain.HealthCategory]string{
	domain.CategorySport:      "esporte",
	domain.CategoryMedication: "medicação",
	domain.CategorySupplement: "suplemento",
}

func inPersonReminderText(at time.Time) string {
	return fmt.Sprintf("📅 Lembrete: reunião presencial em 1 hora, às %s. Já se organiza pro deslocamento!", at.Format("15:04"))
}

func onlineEarlyReminderText(at time.Time) string {
	return fmt.Sprintf("💻 Reunião online em 20 minutos, às %s.", at.Format("15:04"))
}

func onlineFinalReminderText(at time.Time) string {
	return fmt.Sprintf("💻 Reunião online em 5 minutos, às %s. Bora entrar!", at.Format("15:04"))
}

func healthReminderText(it domain.HealthItem) string {
	return fmt.Sprintf("⏰ Hora de %s: %s (%s)", categoryNames[it.Category], it.Label, it.At)
}

func billReminderText(b domain.Bill) string {
	return fmt.Sprintf("💰 Conta \"%s\" vence agora: R$ %.2f", b.Title, b.Amount)
}

// dailySummaryText lists tomorrow's meetings and the whole health routine.
func dailySummaryText(u *domain.UserState, now time.Time) string {
	var b strings.Builder
	b.WriteString("🌃 Resumo do dia:")

	tomorrow := now.AddDate(0, 0, 1)
	var lines []string
	for _, m := range u.Meetings {
		at := m.ScheduledAt.In(now.Location())
		if at.Year() == tomorrow.Year() && at.YearDay() == tomorrow.YearDay() {
			lines = append(lines, fmt.Sprintf("- reunião %s às %s", m.Kind, at.Format("15:04")))
		}
	}
	b.WriteString("\n\nReuniões de amanhã:")
	if len(lines) == 0 {
		b.WriteString("\n- nenhuma 🎉")
	} else {
		for _, l := range lines {
			b.WriteString("\n" + l)
		}
	}

	b.WriteString("\n\nSua rotina:")
	if u.HealthEmpty() {
		b.WriteString("\n- nada configurado ainda")
	} else {
		for _, cat := range domain.Categories() {
			for _, it := range u.Health[cat] {
				fmt.Fprintf(&b, "\n- %s — %s", it.Label, it.At)
			}
		}
	}
	return b.String()
}

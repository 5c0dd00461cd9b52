package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/store"
)

// historyWindow is how many recent turns the generative fallback sees.
const historyWindow = 6

// Completer is the generative-language capability: produce a free-form
// reply from recent conversation history and the latest message.
type Completer interface {
	Complete(ctx context.Context, history []domain.Turn, message string) (string, error)
}

// Router tries the structured interpreters in fixed priority order and
// falls back to the completer only when none of them matched. Every
// inbound message lands in conversation history before routing and every
// reply after, whatever path produced it.
type Router struct {
	log          *zap.Logger
	repo         store.Repo
	completer    Completer
	loc          *time.Location
	interpreters []Interpreter
	now          func() time.Time
}

// NewRouter wires the fixed interpreter precedence: meeting, finance, health.
func NewRouter(log *zap.Logger, repo store.Repo, completer Completer, loc *time.Location) *Router {
	return &Router{
		log:       log,
		repo:      repo,
		completer: completer,
		loc:       loc,
		interpreters: []Interpreter{
			MeetingInterpreter{},
			FinanceInterpreter{},
			HealthInterpreter{},
		},
		now: time.Now,
	}
}

// HandleMessage interprets one inbound message for userID and returns the
// reply text. State mutations are committed even if delivering the reply
// later fails; delivery is the caller's problem.
func (r *Router) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	var out string
	err := r.repo.Update(ctx, userID, func(u *domain.UserState) error {
		now := r.now().In(r.loc)
		u.AppendTurn("user", text)

		for _, it := range r.interpreters {
			rep := it.Handle(u, text, now)
			if rep == nil {
				continue
			}
			r.log.Debug("command matched",
				zap.String("interpreter", it.Name()),
				zap.Int("kind", int(rep.Kind)),
				zap.String("user", userID),
			)
			out = rep.Text
			u.AppendTurn("assistant", out)
			return nil
		}

		// No structured match: generative fallback. Its failures never
		// surface to the user beyond the fixed apology.
		generated, err := r.completer.Complete(ctx, u.RecentHistory(historyWindow), text)
		if err != nil {
			r.log.Warn("completion failed", zap.Error(err), zap.String("user", userID))
			generated = apologyText
		}
		out = generated
		u.AppendTurn("assistant", out)
		return nil
	})
	return out, err
}

// ApologyText is the fixed reply used when background processing fails
// after the transport already acknowledged the message.
func ApologyText() string { return apologyText }

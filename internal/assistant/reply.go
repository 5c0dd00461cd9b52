package assistant

import (
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// Kind tags what an interpreter produced for a matched message.
type Kind int

const (
	// KindReply is a committed action or a listing.
	KindReply Kind = iota
	// KindGuidance is a recognized command with invalid syntax; routing
	// stops here, it is a match, not a fallthrough.
	KindGuidance
	// KindPrompt means a proposal was staged and awaits a yes/no answer.
	KindPrompt
)

// Reply is the outcome of one interpreter pass. A nil *Reply means the
// message did not match and the router tries the next interpreter.
type Reply struct {
	Kind Kind
	Text string
}

func reply(k Kind, text string) *Reply { return &Reply{Kind: k, Text: text} }

// Interpreter recognizes a closed set of intents for one domain. Handle
// runs while the user's state lock is held.
type Interpreter interface {
	Name() string
	Handle(u *domain.UserState, text string, now time.Time) *Reply
}

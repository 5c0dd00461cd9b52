package assistant

import "strings"

// Propose/confirm state machine shared by the health and meeting
// interpreters: NONE → PENDING → (CONFIRMED | CANCELLED) → NONE. While a
// proposal is pending, every inbound message for that domain is first
// classified against the fixed vocabularies below; anything else
// re-prompts and leaves the slot pending.

type confirmAnswer int

const (
	answerOther confirmAnswer = iota
	answerYes
	answerNo
)

var yesWords = map[string]struct{}{
	"sim": {}, "s": {}, "ok": {}, "confirmo": {}, "confirmar": {},
	"pode": {}, "claro": {}, "yes": {},
}

var noWords = map[string]struct{}{
	"não": {}, "nao": {}, "n": {}, "cancelar": {}, "cancela": {}, "no": {},
}

func classifyAnswer(text string) confirmAnswer {
	norm := strings.ToLower(strings.TrimSpace(text))
	norm = strings.Trim(norm, "!.?, ")
	if _, ok := yesWords[norm]; ok {
		return answerYes
	}
	if _, ok := noWords[norm]; ok {
		return answerNo
	}
	return answerOther
}

// resolveProposal drives one pending slot. commit runs only on an
// affirmative answer and must clear the slot itself along with applying
// the payload; cancel clears the slot without mutating domain state.
func resolveProposal(text string, commit func() string, cancel func()) *Reply {
	switch classifyAnswer(text) {
	case answerYes:
		return reply(KindReply, commit())
	case answerNo:
		cancel()
		return reply(KindReply, cancelledText)
	default:
		return reply(KindPrompt, confirmRepromptText)
	}
}

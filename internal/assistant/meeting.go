package assistant

import (
	"regexp"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

var (
	meetingAddRe    = regexp.MustCompile(`(?i)^reuni[ãa]o\b`)
	agendaListRe    = regexp.MustCompile(`(?i)^agenda:?\s*(?:listar)?\s*$`)
	agendaRemoveRe  = regexp.MustCompile(`(?i)^agenda:?\s*(?:remover|limpar)\b\s*(.*)$`)
	inPersonKindRe  = regexp.MustCompile(`(?i)\bpresencial\b`)
	onlineKindRe    = regexp.MustCompile(`(?i)\b(?:online|virtual)\b`)
)

// MeetingInterpreter manages the agenda. Adds are two-phase like health;
// removal is targeted by time when the message carries one, otherwise it
// clears the whole agenda.
type MeetingInterpreter struct{}

func (MeetingInterpreter) Name() string { return "meeting" }

func (m MeetingInterpreter) Handle(u *domain.UserState, text string, now time.Time) *Reply {
	if u.PendingMeeting != nil {
		return m.resolvePending(u, text)
	}
	if agendaListRe.MatchString(text) {
		return reply(KindReply, renderAgenda(u))
	}
	if match := agendaRemoveRe.FindStringSubmatch(text); match != nil {
		return m.remove(u, match[1])
	}
	if meetingAddRe.MatchString(text) {
		return m.propose(u, text, now)
	}
	return nil
}

func (MeetingInterpreter) propose(u *domain.UserState, text string, now time.Time) *Reply {
	inPerson := inPersonKindRe.MatchString(text)
	online := onlineKindRe.MatchString(text)
	if inPerson == online {
		return reply(KindGuidance, meetingKindText)
	}
	kind := domain.MeetingInPerson
	if online {
		kind = domain.MeetingOnline
	}
	at, ok := domain.ParseRelativeDateTime(text, now)
	if !ok {
		return reply(KindGuidance, meetingWhenText)
	}
	u.PendingMeeting = &domain.MeetingProposal{Kind: kind, ScheduledAt: at}
	return reply(KindPrompt, meetingProposalPrompt(*u.PendingMeeting))
}

func (MeetingInterpreter) resolvePending(u *domain.UserState, text string) *Reply {
	return resolveProposal(text,
		func() string {
			mt := u.AddMeeting(*u.PendingMeeting)
			u.PendingMeeting = nil
			return meetingCommittedText(mt)
		},
		func() { u.PendingMeeting = nil },
	)
}

// remove drops meetings scheduled at the hinted HH:MM; without a parseable
// time it clears the whole agenda, which is what "Agenda: limpar" always did.
func (MeetingInterpreter) remove(u *domain.UserState, hint string) *Reply {
	if at, ok := domain.ParseTimeOfDay(hint); ok {
		kept := u.Meetings[:0]
		removed := 0
		for _, mt := range u.Meetings {
			if mt.ScheduledAt.Hour() == at.Hour && mt.ScheduledAt.Minute() == at.Minute {
				removed++
				continue
			}
			kept = append(kept, mt)
		}
		u.Meetings = kept
		if removed == 0 {
			return reply(KindReply, "Não achei reunião às "+at.String()+" na sua agenda 🤔")
		}
		return reply(KindReply, "Removi a(s) reunião(ões) às "+at.String()+" ✅")
	}
	u.Meetings = nil
	return reply(KindReply, agendaClearedText)
}

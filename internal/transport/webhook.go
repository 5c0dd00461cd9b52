package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// twimlAck is returned to Twilio immediately so the webhook never trips
// the provider's timeout, whatever the interpretation/LLM path costs.
const twimlAck = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Message>Recebi! 😊 Já já eu te respondo.</Message>
</Response>`

const onlineText = "Meu Faz Tudo está online ✅"

// processTimeout bounds one background message-processing run.
const processTimeout = 60 * time.Second

// MessageHandler interprets one inbound message and returns the reply text.
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
}

// Sender delivers one outbound message.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// Handler is the inbound webhook surface. The HTTP path is bounded and
// constant-time: parse the form, write the TwiML ack, hand the message to
// a background goroutine.
type Handler struct {
	log     *zap.Logger
	router  MessageHandler
	sender  Sender
	apology string
	wg      sync.WaitGroup
}

// New creates the webhook handler. apology is sent best-effort when
// background processing fails after the ack already went out.
func New(log *zap.Logger, router MessageHandler, sender Sender, apology string) *Handler {
	return &Handler{log: log, router: router, sender: sender, apology: apology}
}

// Routes returns the HTTP mux: the Twilio webhook plus liveness endpoints.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/whatsapp", h.handleWhatsApp)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(onlineText))
	})
	return mux
}

// Wait blocks until in-flight background processing finishes; used on shutdown.
func (h *Handler) Wait() { h.wg.Wait() }

func (h *Handler) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	from := r.PostFormValue("From")
	body := strings.TrimSpace(r.PostFormValue("Body"))

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(twimlAck))

	// No sender address: drop silently, nobody to reply to.
	if from == "" {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.process(from, body)
	}()
}

// process runs detached from the request context, which dies as soon as
// the ack is written.
func (h *Handler) process(from, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	reply, err := h.router.HandleMessage(ctx, from, body)
	if err != nil {
		h.log.Error("message processing failed", zap.Error(err), zap.String("user", from))
		if sendErr := h.sender.Send(ctx, from, h.apology); sendErr != nil {
			h.log.Error("apology send failed", zap.Error(sendErr), zap.String("user", from))
		}
		return
	}
	if err := h.sender.Send(ctx, from, reply); err != nil {
		// State is already committed; the user just misses this message.
		h.log.Error("reply send failed", zap.Error(err), zap.String("user", from))
	}
}

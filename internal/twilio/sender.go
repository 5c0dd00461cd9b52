package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.twilio.com"

// Twilio throttles WhatsApp senders to roughly one message per second per
// number; the limiter smooths scheduler bursts instead of eating 429s.
const (
	sendRate  = rate.Limit(1)
	sendBurst = 5
)

// Sender delivers outbound WhatsApp messages through the Twilio
// Messages API. It satisfies both the scheduler's and the transport's
// Sender interfaces.
type Sender struct {
	// BaseURL is overridable for tests.
	BaseURL string

	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewSender creates a rate-limited sender for the given account.
func NewSender(accountSID, authToken, from string, log *zap.Logger) *Sender {
	return &Sender{
		BaseURL:    defaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(sendRate, sendBurst),
		log:        log,
	}
}

// Send posts one message. The userID is the full address, e.g.
// "whatsapp:+5511999999999". Failures are returned for the caller to log;
// they are never fatal to the caller's flow.
func (s *Sender) Send(ctx context.Context, userID, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{
		"From": {s.from},
		"To":   {userID},
		"Body": {text},
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.BaseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio error %d: %s", resp.StatusCode, string(raw))
	}

	s.log.Debug("message sent", zap.String("to", userID), zap.Int("bytes", len(text)))
	return nil
}

package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRouter struct {
	mu    sync.Mutex
	calls []string
	reply string
	err   error
}

func (f *fakeRouter) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID+"|"+text)
	return f.reply, f.err
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(ctx context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func postForm(t *testing.T, h *Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestWebhook_AcksImmediatelyAndProcessesAsync(t *testing.T) {
	fr := &fakeRouter{reply: "Anotado!"}
	fs := &fakeSender{}
	h := New(zap.NewNop(), fr, fs, "desculpa 😅")

	rec := postForm(t, h, url.Values{
		"From": {"whatsapp:+5511999999999"},
		"Body": {"gastei 50 mercado"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "Recebi!")

	h.Wait()
	require.Equal(t, []string{"whatsapp:+5511999999999|gastei 50 mercado"}, fr.calls)
	require.Equal(t, []string{"Anotado!"}, fs.sent)
}

func TestWebhook_MissingFromDropsSilently(t *testing.T) {
	fr := &fakeRouter{reply: "oi"}
	fs := &fakeSender{}
	h := New(zap.NewNop(), fr, fs, "desculpa 😅")

	rec := postForm(t, h, url.Values{"Body": {"oi"}})
	require.Equal(t, http.StatusOK, rec.Code)

	h.Wait()
	require.Empty(t, fr.calls)
	require.Empty(t, fs.sent)
}

func TestWebhook_ProcessingFailureSendsApology(t *testing.T) {
	fr := &fakeRouter{err: errors.New("boom")}
	fs := &fakeSender{}
	h := New(zap.NewNop(), fr, fs, "desculpa 😅")

	postForm(t, h, url.Values{"From": {"whatsapp:+551188"}, "Body": {"oi"}})
	h.Wait()
	require.Equal(t, []string{"desculpa 😅"}, fs.sent)
}

func TestLivenessEndpoints(t *testing.T) {
	h := New(zap.NewNop(), &fakeRouter{}, &fakeSender{}, "")
	mux := h.Routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, rec.Body.String(), "online")
}

package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSend_PostsFormWithBasicAuth(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	s := NewSender("AC123", "secret", "whatsapp:+14155238886", zap.NewNop())
	s.BaseURL = ts.URL

	err := s.Send(context.Background(), "whatsapp:+5511999999999", "Anotado! 💸")
	require.NoError(t, err)
	require.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	require.Equal(t, "AC123", gotUser)
	require.Equal(t, "secret", gotPass)
	require.Equal(t, "whatsapp:+5511999999999", gotTo)
	require.Equal(t, "whatsapp:+14155238886", gotFrom)
	require.Equal(t, "Anotado! 💸", gotBody)
}

func TestSend_NonSuccessStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 20429}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s := NewSender("AC123", "secret", "whatsapp:+14155238886", zap.NewNop())
	s.BaseURL = ts.URL

	err := s.Send(context.Background(), "whatsapp:+551199", "oi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

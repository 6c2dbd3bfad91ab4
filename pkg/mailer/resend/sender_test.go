package resend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/pkg/mailer"
)

func TestTagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "presence only", value: struct{}{}, want: "true"},
		{name: "nil", value: nil, want: "true"},
		{name: "string", value: "invitation", want: "invitation"},
		{name: "bool", value: false, want: "false"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(7), want: "7"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "stringer", value: time.Second, want: "1s"},
		{name: "fallback", value: []int{1}, want: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tagValue(tt.value))
		})
	}
}

func TestSender_ConvertTags_SortedByName(t *testing.T) {
	t.Parallel()

	s := New(Config{APIKey: "re_test"})

	tags := mailer.SimpleTags("invitation", "connection")
	tags["campaign"] = "spring"

	require.Equal(t, []resend.Tag{
		{Name: "campaign", Value: "spring"},
		{Name: "connection", Value: "true"},
		{Name: "invitation", Value: "true"},
	}, s.convertTags(tags))
}

func TestSender_ConvertAttachments(t *testing.T) {
	t.Parallel()

	s := New(Config{APIKey: "re_test"})

	got := s.convertAttachments([]mailer.Attachment{
		{Filename: "logo.png", ContentType: "image/png", ContentID: "logo", Content: []byte{1, 2}},
	})

	require.Len(t, got, 1)
	require.Equal(t, "logo.png", got[0].Filename)
	require.Equal(t, "image/png", got[0].ContentType)
	require.Equal(t, "logo", got[0].ContentId)
	require.Equal(t, []byte{1, 2}, got[0].Content)
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.False(t, Config{}.Enabled())
	require.True(t, Config{APIKey: "re_test"}.Enabled())
}

func newTestSender(t *testing.T, status int, body string) (*Sender, chan map[string]any) {
	t.Helper()

	payloads := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		select {
		case payloads <- payload:
		default:
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	s := New(Config{APIKey: "re_test", SenderEmail: "noreply@example.com", SenderName: "Example"},
		WithHTTPClient(srv.Client()))
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	return s, payloads
}

func testEmail() *mailer.Email {
	return &mailer.Email{
		To:      []string{"alice@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hello</p>",
		Text:    "Hello",
		Tags:    mailer.SimpleTags("invitation"),
	}
}

func TestSender_Send_Accepted(t *testing.T) {
	t.Parallel()

	s, payloads := newTestSender(t, http.StatusOK, `{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`)

	require.NoError(t, s.Send(context.Background(), testEmail()))

	payload := <-payloads
	require.Equal(t, `"Example" <noreply@example.com>`, payload["from"])
	require.Equal(t, []any{"alice@example.com"}, payload["to"])
	require.Equal(t, "Hello", payload["subject"])
	require.Equal(t, "<p>Hello</p>", payload["html"])
}

func TestSender_Send_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"statusCode":400,"name":"validation_error","message":"Invalid to field"}`,
			wantErr: mailer.ErrRequestInvalid,
		},
		{
			name:    "unprocessable",
			status:  http.StatusUnprocessableEntity,
			body:    `{"statusCode":422,"name":"validation_error","message":"Domain not verified"}`,
			wantErr: mailer.ErrProviderRejected,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"message":"Too many requests"}`,
			wantErr: mailer.ErrProviderRejected,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"message":"internal"}`,
			wantErr: mailer.ErrProviderRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestSender(t, tt.status, tt.body)

			err := s.Send(context.Background(), testEmail())

			require.ErrorIs(t, err, tt.wantErr)
			require.NotErrorIs(t, err, mailer.ErrTransport)

			var perr *mailer.ProviderError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "resend", perr.Provider)
			require.Equal(t, tt.status, perr.StatusCode)
			require.Equal(t, tt.body, perr.Body)
		})
	}
}

func TestSender_Send_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := New(Config{APIKey: "re_test", SenderEmail: "noreply@example.com"})
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	err = s.Send(context.Background(), testEmail())

	require.ErrorIs(t, err, mailer.ErrTransport)
	var perr *mailer.ProviderError
	require.False(t, errors.As(err, &perr))
}

package main

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/internal/invitation"
	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/mailer/resend"
	"github.com/dmitrymomot/invitations/pkg/mailer/sendgrid"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Equal(t, "sendgrid", cfg.Provider)
	require.Equal(t, "noreply@oursemotional.com", cfg.SendGrid.SenderEmail)
	require.Equal(t, "https://api.sendgrid.com", cfg.SendGrid.Host)
	require.Equal(t, "https://oursemotional.com", cfg.Invitation.AppURL)
	require.Equal(t, "invitation.md", cfg.Invitation.Template)
	require.Equal(t, slog.LevelInfo, cfg.Logger.Level)
	require.False(t, cfg.SendGrid.Enabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("MAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("APP_URL", "https://staging.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Equal(t, "resend", cfg.Provider)
	require.True(t, cfg.Resend.Enabled())
	require.Equal(t, "https://staging.example.com", cfg.Invitation.AppURL)
	require.Equal(t, slog.LevelDebug, cfg.Logger.Level)
	require.Equal(t, logger.FormatText, cfg.Logger.Format)
}

func TestLoadConfig_InvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := loadConfig()
	require.ErrorContains(t, err, "parse env")
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         Config
		wantType    any
		wantEnabled bool
		wantErr     bool
	}{
		{
			name:        "sendgrid with key",
			cfg:         Config{Provider: "sendgrid", SendGrid: sendgrid.Config{APIKey: "SG.key"}},
			wantType:    &sendgrid.Sender{},
			wantEnabled: true,
		},
		{
			name:     "sendgrid without key",
			cfg:      Config{Provider: " SendGrid "},
			wantType: &sendgrid.Sender{},
		},
		{
			name:        "resend with key",
			cfg:         Config{Provider: "resend", Resend: resend.Config{APIKey: "re_key"}},
			wantType:    &resend.Sender{},
			wantEnabled: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "smtp"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender, enabled, err := newSender(tt.cfg)
			if tt.wantErr {
				require.ErrorContains(t, err, "unknown mail provider")
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.wantType, sender)
			require.Equal(t, tt.wantEnabled, enabled)
		})
	}
}

func TestNewGateway_DisabledWithoutKey(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{})

	gw, err := newGateway(Config{Provider: "sendgrid"}, log)
	require.NoError(t, err)
	require.False(t, gw.Enabled())
	require.Contains(t, buf.String(), "API key not set")

	ok := gw.SendInvitation(t.Context(), invitation.Record{ToEmail: "sam@example.com"})
	require.True(t, ok)
}

func TestRecordFlags(t *testing.T) {
	t.Parallel()

	rec, err := recordFlags{
		to:       "sam@example.com",
		fromName: "Alex",
		message:  "Hi",
		code:     "ABC123",
		expires:  "2025-01-05",
	}.record()
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), rec.ExpiresAt)
	require.NoError(t, rec.Validate())

	_, err = recordFlags{expires: "05/01/2025"}.record()
	require.ErrorContains(t, err, "--expires")
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	res := invitation.Result{DeliveryID: "d-1", Outcome: invitation.OutcomeSuccess}

	var text bytes.Buffer
	require.NoError(t, printResult(&text, res, false))
	require.Equal(t, "success (delivery d-1)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, printResult(&js, res, true))
	require.JSONEq(t, `{"delivery_id":"d-1","outcome":"success"}`, js.String())
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/invitations/internal/invitation"
	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/mailer"
	"github.com/dmitrymomot/invitations/pkg/mailer/resend"
	"github.com/dmitrymomot/invitations/pkg/mailer/sendgrid"
)

// Supported mail providers.
const (
	providerSendGrid = "sendgrid"
	providerResend   = "resend"
)

const providerTimeout = 10 * time.Second

// Config is the full command configuration, read from the environment.
type Config struct {
	Provider   string `env:"MAIL_PROVIDER" envDefault:"sendgrid"`
	SendGrid   sendgrid.Config
	Resend     resend.Config
	Mailer     mailer.Config
	Invitation invitation.Config
	Logger     logger.Config
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// newSender returns the sender for the configured provider and whether its
// API key is set.
func newSender(cfg Config) (mailer.Sender, bool, error) {
	client := &http.Client{Timeout: providerTimeout}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerSendGrid:
		return sendgrid.New(cfg.SendGrid, sendgrid.WithHTTPClient(client)), cfg.SendGrid.Enabled(), nil
	case providerResend:
		return resend.New(cfg.Resend, resend.WithHTTPClient(client)), cfg.Resend.Enabled(), nil
	default:
		return nil, false, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func newGateway(cfg Config, log *slog.Logger) (*invitation.Gateway, error) {
	sender, enabled, err := newSender(cfg)
	if err != nil {
		return nil, err
	}
	if !enabled {
		log.Warn("mail provider API key not set, invitations will not be sent",
			slog.String("provider", cfg.Provider),
		)
	}

	m := mailer.New(sender, invitation.NewRenderer(), cfg.Mailer)
	return invitation.New(m, cfg.Invitation,
		invitation.WithLogger(log),
		invitation.WithEnabled(enabled),
	), nil
}

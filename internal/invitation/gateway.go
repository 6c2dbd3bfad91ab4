// Package invitation sends invitation emails through a configured mail provider.
//
// A Gateway is built once at startup and passed to the code that invites people:
//
//	gw := invitation.New(m, cfg.Invitation,
//		invitation.WithLogger(log),
//		invitation.WithEnabled(cfg.SendGrid.Enabled()),
//	)
//	ok := gw.SendInvitation(ctx, invitation.Record{...})
//
// SendInvitation never returns an error or panics; provider and network failures
// are logged and reported as false. Deliver returns the classified Result for
// callers that need more than a boolean.
package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/mailer"
)

// expiryLayout renders dates as "January 05, 2025".
const expiryLayout = "January 02, 2006"

// Gateway renders and sends invitation emails.
// It is safe for concurrent use.
type Gateway struct {
	mailer  *mailer.Mailer
	logger  *slog.Logger
	config  Config
	enabled bool
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
// Register DeliveryIDExtractor on it to correlate log lines of one delivery.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithEnabled toggles live sending. A disabled gateway logs the intended
// recipient and reports success without rendering or contacting the provider.
// Defaults to true.
func WithEnabled(enabled bool) Option {
	return func(g *Gateway) {
		g.enabled = enabled
	}
}

// New creates a Gateway sending through m.
func New(m *mailer.Mailer, cfg Config, opts ...Option) *Gateway {
	g := &Gateway{
		mailer:  m,
		logger:  logger.NewNope(),
		config:  cfg.withDefaults(),
		enabled: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether the gateway sends emails.
func (g *Gateway) Enabled() bool {
	return g.enabled
}

// SendInvitation sends the invitation email for rec and reports whether it
// should be treated as delivered.
func (g *Gateway) SendInvitation(ctx context.Context, rec Record) bool {
	return g.Deliver(ctx, rec).OK()
}

// Deliver sends the invitation email for rec and classifies the outcome.
// Panics raised while rendering or sending are recovered and reported as
// OutcomeTransportFailure.
func (g *Gateway) Deliver(ctx context.Context, rec Record) (res Result) {
	deliveryID := uuid.NewString()
	ctx = WithDeliveryID(ctx, deliveryID)

	defer func() {
		if r := recover(); r != nil {
			res = Result{
				DeliveryID: deliveryID,
				Outcome:    OutcomeTransportFailure,
				Detail:     fmt.Sprint(r),
			}
			g.logger.ErrorContext(ctx, "unexpected email error",
				slog.String("to", rec.ToEmail),
				slog.Any("panic", r),
			)
		}
	}()

	if !g.enabled {
		g.logger.InfoContext(ctx, "email service disabled, invitation not sent",
			slog.String("to", rec.ToEmail),
		)
		return Result{DeliveryID: deliveryID, Outcome: OutcomeSkipped}
	}

	email, err := g.Compose(rec)
	if err == nil {
		email.Headers = map[string]string{DeliveryIDHeader: deliveryID}
		err = g.mailer.SendRaw(ctx, email)
	}

	res = classify(err)
	res.DeliveryID = deliveryID
	g.logResult(ctx, rec, res, err)
	return res
}

// Compose renders the invitation email for rec without sending it.
// The record is validated first; a missing field yields ErrInvalidRecord.
func (g *Gateway) Compose(rec Record) (*mailer.Email, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return g.mailer.Compose(mailer.SendParams{
		To:       rec.ToEmail,
		Template: g.config.Template,
		Layout:   g.config.Layout,
		Data:     g.view(rec),
		Tags:     mailer.SimpleTags("invitation"),
	})
}

// AcceptURL returns the link a recipient follows to accept an invitation.
func (g *Gateway) AcceptURL(code string) string {
	return strings.TrimRight(g.config.AppURL, "/") + "/accept-invitation?code=" + url.QueryEscape(code)
}

// invitationView is the data passed to the invitation templates.
type invitationView struct {
	FromUserName    string
	PersonalMessage string
	ConnectionCode  string
	AcceptURL       string
	AppURL          string
	ExpiresOn       string
}

func (g *Gateway) view(rec Record) invitationView {
	return invitationView{
		FromUserName:    rec.FromUserName,
		PersonalMessage: rec.PersonalMessage,
		ConnectionCode:  rec.ConnectionCode,
		AcceptURL:       g.AcceptURL(rec.ConnectionCode),
		AppURL:          g.config.AppURL,
		ExpiresOn:       rec.ExpiresAt.Format(expiryLayout),
	}
}

// classify maps a compose or send error to a Result. A nil error is a success.
func classify(err error) Result {
	if err == nil {
		return Result{Outcome: OutcomeSuccess}
	}

	res := Result{Detail: err.Error()}

	var perr *mailer.ProviderError
	if errors.As(err, &perr) {
		res.StatusCode = perr.StatusCode
		if perr.Body != "" {
			res.Detail = perr.Body
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRecord),
		errors.Is(err, mailer.ErrRequestInvalid),
		errors.Is(err, mailer.ErrNoRecipient),
		errors.Is(err, mailer.ErrNoSubject),
		errors.Is(err, mailer.ErrNoContent):
		res.Outcome = OutcomeRequestInvalid
	case errors.Is(err, mailer.ErrProviderRejected):
		res.Outcome = OutcomeProviderRejected
	default:
		res.Outcome = OutcomeTransportFailure
	}
	return res
}

func (g *Gateway) logResult(ctx context.Context, rec Record, res Result, err error) {
	to := slog.String("to", rec.ToEmail)

	switch res.Outcome {
	case OutcomeSuccess:
		g.logger.InfoContext(ctx, "invitation email sent", to)
	case OutcomeProviderRejected:
		g.logger.ErrorContext(ctx, "failed to send invitation email", to,
			slog.Int("status", res.StatusCode),
			slog.String("body", res.Detail),
		)
	case OutcomeRequestInvalid:
		g.logger.ErrorContext(ctx, "invitation email request invalid", to,
			slog.Int("status", res.StatusCode),
			slog.String("error", err.Error()),
		)
	default:
		g.logger.ErrorContext(ctx, "unexpected email error", to,
			slog.String("error", err.Error()),
		)
	}
}

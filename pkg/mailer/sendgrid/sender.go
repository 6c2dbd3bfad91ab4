// Package sendgrid implements mailer.Sender on top of the SendGrid v3 mail send API.
package sendgrid

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dmitrymomot/invitations/pkg/mailer"
)

const (
	providerName = "sendgrid"
	sendEndpoint = "/v3/mail/send"
)

// Sender implements mailer.Sender using the SendGrid API.
type Sender struct {
	client  *rest.Client
	request rest.Request // template request; copied per send
	config  Config
}

// Option configures the Sender.
type Option func(*Sender)

// WithHTTPClient sets the HTTP client used for API calls.
// Timeouts are whatever the given client enforces.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = &rest.Client{HTTPClient: c}
		}
	}
}

// New creates a new SendGrid sender.
func New(cfg Config, opts ...Option) *Sender {
	req := sg.GetRequest(cfg.APIKey, sendEndpoint, cfg.Host)
	req.Method = rest.Post

	s := &Sender{
		client:  rest.DefaultClient,
		request: req,
		config:  cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
// Only 200 and 202 responses count as delivered.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := s.buildMessage(email)
	if err != nil {
		return err
	}

	req := s.request
	req.Body = sgmail.GetRequestBody(msg)

	resp, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: failed to send email: %w: %w", mailer.ErrTransport, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	}

	return &mailer.ProviderError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
}

func (s *Sender) buildMessage(email *mailer.Email) (*sgmail.SGMailV3, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	fromAddr, err := parseAddress(from)
	if err != nil {
		return nil, err
	}

	p := sgmail.NewPersonalization()
	for _, list := range []struct {
		add   func(...*sgmail.Email)
		addrs []string
	}{
		{add: p.AddTos, addrs: email.To},
		{add: p.AddCCs, addrs: email.CC},
		{add: p.AddBCCs, addrs: email.BCC},
	} {
		for _, raw := range list.addrs {
			addr, err := parseAddress(raw)
			if err != nil {
				return nil, err
			}
			list.add(addr)
		}
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(fromAddr)
	msg.Subject = email.Subject
	msg.AddPersonalizations(p)

	// SendGrid requires text/plain to precede text/html.
	if email.Text != "" {
		msg.AddContent(sgmail.NewContent("text/plain", email.Text))
	}
	msg.AddContent(sgmail.NewContent("text/html", email.HTML))

	if email.ReplyTo != "" {
		replyTo, err := parseAddress(email.ReplyTo)
		if err != nil {
			return nil, err
		}
		msg.SetReplyTo(replyTo)
	}

	for k, v := range email.Headers {
		msg.SetHeader(k, v)
	}

	if len(email.Tags) > 0 {
		msg.AddCategories(email.Tags.Names()...)
	}

	for _, a := range email.Attachments {
		msg.AddAttachment(convertAttachment(a))
	}

	return msg, nil
}

func convertAttachment(a mailer.Attachment) *sgmail.Attachment {
	att := sgmail.NewAttachment()
	att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
	att.SetFilename(a.Filename)
	if a.ContentType != "" {
		att.SetType(a.ContentType)
	}
	if a.ContentID != "" {
		att.SetContentID(a.ContentID)
		att.SetDisposition("inline")
	} else {
		att.SetDisposition("attachment")
	}
	return att
}

// parseAddress accepts both "Name <email>" and bare addresses.
func parseAddress(raw string) (*sgmail.Email, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address %q: %v", mailer.ErrRequestInvalid, raw, err)
	}
	return sgmail.NewEmail(addr.Name, addr.Address), nil
}

// Package resend implements mailer.Sender on top of the Resend API.
// A non-2xx response is reported as *mailer.ProviderError; failures before a
// response arrives are wrapped with mailer.ErrTransport.
package resend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/invitations/pkg/mailer"
)

const providerName = "resend"

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// Option configures the Sender.
type Option func(*Sender)

// WithHTTPClient sets the HTTP client used for API calls.
// Its transport is wrapped to record the status of rejected responses.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = newClient(c, s.config.APIKey)
		}
	}
}

// New creates a new Resend sender.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		client: newClient(&http.Client{}, cfg.APIKey),
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newClient(c *http.Client, apiKey string) *resend.Client {
	wrapped := *c
	wrapped.Transport = &captureTransport{next: c.Transport}
	return resend.NewCustomClient(&wrapped, apiKey)
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}

	if len(email.Attachments) > 0 {
		req.Attachments = s.convertAttachments(email.Attachments)
	}

	if len(email.Tags) > 0 {
		req.Tags = s.convertTags(email.Tags)
	}

	capture := &responseCapture{}
	_, err := s.client.Emails.SendWithContext(withCapture(ctx, capture), req)
	if err != nil {
		if capture.rejected() {
			return &mailer.ProviderError{
				Provider:   providerName,
				StatusCode: capture.status,
				Body:       string(capture.body),
			}
		}
		return fmt.Errorf("resend: failed to send email: %w: %w", mailer.ErrTransport, err)
	}

	return nil
}

func (s *Sender) convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

// convertTags emits tags sorted by name so requests are reproducible.
func (s *Sender) convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for _, name := range tags.Names() {
		result = append(result, resend.Tag{
			Name:  name,
			Value: tagValue(tags[name]),
		})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true" // presence-only tag
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

package mailer

import "context"

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	// A response the provider did not accept is reported as *ProviderError;
	// failures before a response is received wrap ErrTransport.
	Send(ctx context.Context, email *Email) error
}

package mailer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrRequestInvalid indicates the provider refused the request as malformed.
	ErrRequestInvalid = errors.New("provider rejected request as invalid")

	// ErrProviderRejected indicates the provider answered with a non-success status.
	ErrProviderRejected = errors.New("provider rejected email")

	// ErrTransport indicates the provider could not be reached or the call failed
	// before a response was received.
	ErrTransport = errors.New("email transport failed")
)

// ProviderError carries the status and body of a provider response that was not
// accepted. It unwraps to ErrRequestInvalid for 400 responses and to
// ErrProviderRejected otherwise.
type ProviderError struct {
	Provider   string
	Body       string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	if e.StatusCode == http.StatusBadRequest {
		return ErrRequestInvalid
	}
	return ErrProviderRejected
}

package invitation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrInvalidRecord indicates a Record is missing a field or has a malformed recipient.
var ErrInvalidRecord = errors.New("invalid invitation record")

// Record is the data an invitation email is rendered from.
type Record struct {
	ExpiresAt       time.Time
	ToEmail         string
	FromUserName    string
	PersonalMessage string
	ConnectionCode  string
}

// Validate reports every missing or malformed field joined under ErrInvalidRecord.
// PersonalMessage is free text and may be empty.
func (r Record) Validate() error {
	var errs []error

	if strings.TrimSpace(r.ToEmail) == "" {
		errs = append(errs, errors.New("to email is required"))
	} else if _, err := mail.ParseAddress(r.ToEmail); err != nil {
		errs = append(errs, fmt.Errorf("to email %q: %w", r.ToEmail, err))
	}
	if strings.TrimSpace(r.FromUserName) == "" {
		errs = append(errs, errors.New("from user name is required"))
	}
	if strings.TrimSpace(r.ConnectionCode) == "" {
		errs = append(errs, errors.New("connection code is required"))
	}
	if r.ExpiresAt.IsZero() {
		errs = append(errs, errors.New("expiration date is required"))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidRecord}, errs...)...)
}

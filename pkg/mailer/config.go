package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// FallbackSubject is used when neither the params nor the template set one.
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"You've received an invitation"`
	// DefaultLayout is used when SendParams.Layout is empty.
	DefaultLayout string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"invitation.html"`
}

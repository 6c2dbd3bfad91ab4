package invitation

// Defaults applied by New to empty Config fields. The envDefault tags on
// Config carry the same values.
const (
	// DefaultAppURL is the base of the accept link and of the text body's
	// "Visit" line.
	DefaultAppURL = "https://oursemotional.com"
	// DefaultTemplate is the embedded markdown template for the email body.
	DefaultTemplate = "invitation.md"
	// DefaultLayout is the embedded HTML layout wrapping the rendered body.
	DefaultLayout = "invitation.html"
)

// Config holds invitation email configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	AppURL   string `env:"APP_URL" envDefault:"https://oursemotional.com"`
	Template string `env:"INVITATION_TEMPLATE" envDefault:"invitation.md"`
	Layout   string `env:"INVITATION_LAYOUT" envDefault:"invitation.html"`
}

func (c Config) withDefaults() Config {
	if c.AppURL == "" {
		c.AppURL = DefaultAppURL
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	return c
}

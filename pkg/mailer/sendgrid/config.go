package sendgrid

// Config holds SendGrid email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"SENDGRID_API_KEY"`
	SenderEmail string `env:"SENDGRID_FROM_EMAIL" envDefault:"noreply@oursemotional.com"`
	SenderName  string `env:"SENDGRID_FROM_NAME"`
	Host        string `env:"SENDGRID_HOST" envDefault:"https://api.sendgrid.com"`
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

package logger

import "log/slog"

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds logger configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// Package logger builds slog loggers with context extraction and optional
// Sentry reporting.
//
// Configure it through [Config], usually parsed from the environment:
//
//	log := logger.New(cfg.Logger, invitation.DeliveryIDExtractor)
//	defer logger.Flush(2 * time.Second)
//
// A [ContextExtractor] pulls a request-scoped attribute out of the context on
// every log call, so values such as a delivery ID appear without being passed
// explicitly:
//
//	log.InfoContext(ctx, "invitation sent")
//	// {"level":"INFO","msg":"invitation sent","delivery_id":"..."}
//
// When SENTRY_DSN is empty only the local handler is used, which keeps the same
// code path for development and production. Errors create Sentry issues;
// records from SentryConfig.MinLevel up are stored as Sentry logs.
package logger

package invitation

import (
	"context"
	"log/slog"
)

// DeliveryIDHeader is the email header carrying the delivery ID.
const DeliveryIDHeader = "X-Delivery-ID"

type deliveryIDKey struct{}

// WithDeliveryID returns a context carrying the delivery ID.
func WithDeliveryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deliveryIDKey{}, id)
}

// DeliveryIDFromContext returns the delivery ID stored in ctx, if any.
func DeliveryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deliveryIDKey{}).(string)
	return id, ok && id != ""
}

// DeliveryIDExtractor is a logger.ContextExtractor adding delivery_id to log records.
func DeliveryIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := DeliveryIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("delivery_id", id), true
}

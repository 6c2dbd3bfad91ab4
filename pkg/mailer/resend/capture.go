package resend

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a rejected response body is kept.
const maxErrorBody = 64 << 10

// responseCapture records the status and body of the response to one send.
// The SDK does not expose the status of most rejected responses.
type responseCapture struct {
	body   []byte
	status int
}

func (c *responseCapture) rejected() bool {
	return c.status != 0 && (c.status < 200 || c.status >= 300)
}

type captureKey struct{}

func withCapture(ctx context.Context, c *responseCapture) context.Context {
	return context.WithValue(ctx, captureKey{}, c)
}

// captureTransport fills the responseCapture carried by the request context.
type captureTransport struct {
	next http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	c, ok := req.Context().Value(captureKey{}).(*responseCapture)
	if !ok {
		return resp, nil
	}

	c.status = resp.StatusCode
	if c.rejected() && resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		c.body = body
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

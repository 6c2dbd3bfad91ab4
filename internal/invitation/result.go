package invitation

// Outcome classifies how a delivery attempt ended.
type Outcome uint8

const (
	// OutcomeSuccess means the provider accepted the email (HTTP 200 or 202).
	OutcomeSuccess Outcome = iota
	// OutcomeSkipped means delivery is disabled; nothing was sent.
	OutcomeSkipped
	// OutcomeProviderRejected means the provider answered with another status.
	OutcomeProviderRejected
	// OutcomeRequestInvalid means the record or the request was refused as malformed.
	OutcomeRequestInvalid
	// OutcomeTransportFailure covers network errors and any other unexpected failure.
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeProviderRejected:
		return "provider_rejected"
	case OutcomeRequestInvalid:
		return "request_invalid"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result describes a single delivery attempt.
type Result struct {
	DeliveryID string  `json:"delivery_id"`
	Detail     string  `json:"detail,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
	Outcome    Outcome `json:"outcome"`
}

// OK reports whether callers should treat the attempt as successful.
// A skipped delivery counts as success so disabled environments don't block workflows.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeSkipped
}

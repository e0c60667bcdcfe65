// Package apierror is the wire envelope for every 4xx/5xx response. Internal
// details (DB errors, panics) never pass through it.
package apierror

// Reason codes for failures raised outside the domain layer. Domain failures
// carry their own reason (booking_not_found, already_finalized, ...).
const (
	ReasonInvalidInput = "invalid_input"
	ReasonUnauthorized = "unauthorized"
	ReasonForbidden    = "forbidden"
	ReasonRateLimited  = "rate_limited"
	ReasonInternal     = "internal_error"
	ReasonStorage      = "storage_failure"
)

// APIError is the body of an error response.
type APIError struct {
	Detail string `json:"detail"`
	Reason string `json:"reason,omitempty"`
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return e.Detail
	}
	return e.Reason + ": " + e.Detail
}

func WithReason(msg, reason string) *APIError {
	return &APIError{Detail: msg, Reason: reason}
}

func InvalidInput(msg string) *APIError { return WithReason(msg, ReasonInvalidInput) }

func Internal() *APIError { return WithReason("internal server error", ReasonInternal) }

// ValidationError lists the failing field tags of a request body or query.
type ValidationError struct {
	Detail string            `json:"detail"`
	Reason string            `json:"reason"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Reason: ReasonInvalidInput, Fields: fields}
}

package responses

import "time"

// APIResponse wraps market analysis, run history and error payloads.
// RequestID echoes the X-Request-ID header so clients can quote it.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

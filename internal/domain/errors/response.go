package errors

// Response is the unified error payload shape shared by the HTTP error
// middleware and the response helpers.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries machine-readable error detail alongside the message.
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "UNAUTHORIZED"
	Details string `json:"details"` // Detailed error description
}

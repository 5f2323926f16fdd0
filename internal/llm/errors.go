package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("llm api key is not configured")

// ErrorType classifies upstream failures for logs and metrics.
type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeRequest   ErrorType = "request"
	ErrorTypeEmpty     ErrorType = "empty"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error is a classified upstream error.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " HTTP %d", e.StatusCode)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a classified error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// ClassifyError maps provider errors onto ErrorType.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrorTypeTimeout, "request timeout", err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	lower := strings.ToLower(err.Error())
	if status == 0 {
		for _, code := range []int{401, 403, 429, 500, 502, 503, 504, 400, 404} {
			if strings.Contains(lower, fmt.Sprintf("%d", code)) {
				status = code
				break
			}
		}
	}

	var out *Error
	switch {
	case status == 401 || status == 403 || strings.Contains(lower, "invalid api key") || strings.Contains(lower, "unauthorized"):
		out = NewError(ErrorTypeAuth, "authentication failed", err)
	case status == 429 || strings.Contains(lower, "rate limit"):
		out = NewError(ErrorTypeRateLimit, "rate limited", err)
	case status >= 500:
		out = NewError(ErrorTypeServer, "server error", err)
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		out = NewError(ErrorTypeTimeout, "request timeout", err)
	case status >= 400:
		out = NewError(ErrorTypeRequest, "request rejected", err)
	default:
		out = NewError(ErrorTypeUnknown, "llm error", err)
	}
	out.StatusCode = status
	return out
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

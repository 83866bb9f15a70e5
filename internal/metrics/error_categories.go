package metrics

import (
	"context"
	"errors"
	"net"
)

// ErrorCategory represents a categorized error type for upstream requests
type ErrorCategory string

const (
	// NoError indicates a successful request
	NoError ErrorCategory = "none"

	// NetworkError indicates network-related issues (timeouts, connection resets, etc.)
	NetworkError ErrorCategory = "network_error"

	// HTTPError indicates a non-2xx upstream status
	HTTPError ErrorCategory = "http_error"

	// DecodeError indicates the upstream body was not valid JSON or was too large
	DecodeError ErrorCategory = "decode_error"

	// UnknownError indicates unclassified errors
	UnknownError ErrorCategory = "unknown_error"
)

// CategorizeError takes an upstream error and returns the appropriate ErrorCategory
func CategorizeError(err error, httpStatus int, invalidBody bool) ErrorCategory {
	if err == nil {
		return NoError
	}

	if httpStatus != 0 && (httpStatus < 200 || httpStatus > 299) {
		return HTTPError
	}

	if invalidBody {
		return DecodeError
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.As(err, &netErr) {
		return NetworkError
	}

	return UnknownError
}

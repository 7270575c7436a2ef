package generation

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// HTTPStatusCoder is implemented by errors that carry an upstream HTTP status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// transportSignatures are lower-cased fragments of network failure messages
// that SDKs sometimes return without a typed error.
var transportSignatures = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"econnreset",
	"etimedout",
	"econnrefused",
	"broken pipe",
	"no such host",
	"network",
	"unexpected eof",
}

// Classify maps a provider error to its kind and reports whether another
// attempt may succeed. A cancelled context is never retryable.
func Classify(err error) (kind error, retryable bool) {
	if err == nil {
		return nil, false
	}

	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return classifyStatus(sc.HTTPStatusCode())
	}

	switch {
	case errors.Is(err, context.Canceled):
		return ErrTransport, false
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTransport, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrTransport, true
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range transportSignatures {
		if strings.Contains(msg, sig) {
			return ErrTransport, true
		}
	}

	return ErrUnknown, false
}

func classifyStatus(status int) (error, bool) {
	switch {
	case status == http.StatusUnauthorized:
		return ErrAuthenticationFailed, false
	case status == http.StatusTooManyRequests:
		return ErrRateLimited, true
	case status >= http.StatusInternalServerError:
		return ErrServiceUnavailable, true
	case status >= http.StatusBadRequest:
		return ErrProvider, false
	default:
		return ErrUnknown, false
	}
}

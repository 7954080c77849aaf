// Package embedding holds helpers shared by the embedding service adapters.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// maxErrorBody caps how much of a provider error body is kept in messages.
const maxErrorBody = 512

// StatusError converts a non-200 provider response into an error.
// 429 wraps domain.ErrRateLimited, 408 and 5xx wrap domain.ErrTransient,
// anything else is permanent.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s error (status %d): %s: %w", provider, status, msg, domain.ErrRateLimited)
	case status == http.StatusRequestTimeout || status >= 500:
		return fmt.Errorf("%s error (status %d): %s: %w", provider, status, msg, domain.ErrTransient)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}

// TransportError wraps a failed HTTP round trip. Timeouts and connection
// failures are transient. Caller cancellation is returned as is.
func TransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: send request: %w", provider, err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: send request: %v: %w", provider, err, domain.ErrTransient)
	}
	return fmt.Errorf("%s: send request: %w", provider, err)
}

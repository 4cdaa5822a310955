package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"

	"github.com/prio/prio/internal/domain"
)

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 1 << 20

// parseErrorResponse classifies a non-success response. Markup bodies are
// generic error pages and are never parsed; anything else must carry a
// structured error payload.
func parseErrorResponse(resp *http.Response) error {
	if isMarkup(resp.Header.Get("Content-Type")) {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewServerError(resp.StatusCode, statusText(resp))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return domain.NewTransportError(fmt.Errorf("failed to read error response: %w", err), false)
	}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return domain.NewTransportError(fmt.Errorf("failed to decode error response: %w", err), false)
	}

	return domain.NewAPIError(resp.StatusCode, apiErr.message())
}

// transportError wraps a failed round trip.
func transportError(err error) error {
	return domain.NewTransportError(err, isUnreachable(err))
}

// isMarkup reports whether the content type denotes an HTML page.
func isMarkup(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// statusText returns the reason phrase of the response status line.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// isUnreachable checks whether the server could not be contacted at all.
func isUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}

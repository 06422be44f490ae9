package util

import (
	"log/slog"
	"net/http"
	"time"
)

const requestIDHeader = "X-Request-Id"

// LoggingTransport emits a structured log for each outbound HTTP request and
// stamps it with a request ID so calls can be correlated with server logs.
type LoggingTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	requestID := req.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = NewRequestID()
		req.Header.Set(requestIDHeader, requestID)
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		slog.Warn(
			"http_request",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
			"err", err,
		)
		return nil, err
	}
	slog.Debug(
		"http_request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	return resp, nil
}

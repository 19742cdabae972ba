package api

import (
	"net/http"
	"time"

	"github.com/linktine/linktine/internal/logger"
)

// LoggingTransport wraps an http.RoundTripper and logs every exchange.
// The Authorization header is never logged.
type LoggingTransport struct {
	base http.RoundTripper
	log  *logger.Logger
}

// NewLoggingTransport wraps base (http.DefaultTransport when nil).
func NewLoggingTransport(base http.RoundTripper, log *logger.Logger) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{base: base, log: log}
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Round(time.Millisecond)

	if err != nil {
		t.log.Debug("HTTP "+req.Method+" "+req.URL.Path+" failed", map[string]interface{}{
			"duration": duration.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	t.log.Debug("HTTP "+req.Method+" "+req.URL.Path, map[string]interface{}{
		"status":   resp.StatusCode,
		"duration": duration.String(),
	})

	return resp, nil
}

package common

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogHTTPRequest writes a debug dump of an outgoing request, body included,
// with the Authorization header redacted. The body is restored afterwards.
func LogHTTPRequest(log *zap.SugaredLogger, req *http.Request) {
	if !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		return
	}

	var bodyCopy []byte
	if req.Body != nil {
		bodyCopy, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyCopy))
	}

	redacted := req.Clone(req.Context())
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "[redacted]")
	}
	if bodyCopy != nil {
		redacted.Body = io.NopCloser(bytes.NewReader(bodyCopy))
	}

	dump, err := httputil.DumpRequestOut(redacted, true)
	if err != nil {
		log.Debugw("Failed to dump HTTP request", "error", err)
		return
	}
	log.Debugw("Outgoing source request", "method", req.Method, "url", req.URL.String(), "dump", string(dump))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"castlehire/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

func TestRequestLoggingKeepsInboundRequestID(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := r.Context().Value(RequestIDKey).(string); ok {
			seen = id
		}
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/castles", nil)
	req.Header.Set("X-Request-ID", "frontend-abc")

	RequestLogging(testLog())(handler).ServeHTTP(rec, req)

	if seen != "frontend-abc" {
		t.Errorf("context request id = %q, want the inbound one", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "frontend-abc" {
		t.Errorf("response request id = %q, want the inbound one", got)
	}
}

func TestRequestLoggingGeneratesRequestID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestLogging(testLog())(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/castles", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a generated request id")
	}
}

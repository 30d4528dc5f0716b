package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trivia-tracker/internal/quiz"
)

func TestStatusRecorderWriteTracksAndTruncates(t *testing.T) {
	base := httptest.NewRecorder()
	recorder := &statusRecorder{
		ResponseWriter: base,
		statusCode:     http.StatusOK,
		maxLogBytes:    10,
	}

	payload := []byte("abcdefghijklmnopqrstuvwxyz")
	written, err := recorder.Write(payload)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if written != len(payload) {
		t.Fatalf("written bytes = %d, want %d", written, len(payload))
	}
	if recorder.bytesWritten != len(payload) {
		t.Fatalf("bytesWritten = %d, want %d", recorder.bytesWritten, len(payload))
	}
	if recorder.logBody.Len() != 10 {
		t.Fatalf("log body length = %d, want 10", recorder.logBody.Len())
	}
	if !recorder.truncated {
		t.Fatalf("expected truncated flag to be true")
	}
	if base.Body.Len() != len(payload) {
		t.Fatalf("client body length = %d, want %d", base.Body.Len(), len(payload))
	}
}

func TestStatusRecorderWriteHeader(t *testing.T) {
	base := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: base, statusCode: http.StatusOK, maxLogBytes: 10}

	recorder.WriteHeader(http.StatusTeapot)
	if recorder.statusCode != http.StatusTeapot || base.Code != http.StatusTeapot {
		t.Fatalf("status = %d/%d, want 418", recorder.statusCode, base.Code)
	}
}

func TestRouterLogsRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := NewRouter(NewAPI(&fakeReporter{}, zap.New(core), 5))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("request log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/healthz" || fields["method"] != http.MethodGet {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("status field = %v, want 200", fields["status"])
	}
}

func TestRouterLogsFailuresWithBody(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reporter := &fakeReporter{err: quiz.NewStoreError("read", errors.New("locked"))}
	router := NewRouter(NewAPI(reporter, zap.New(core), 5))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))

	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 1 {
		t.Fatalf("failure log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusServiceUnavailable) {
		t.Fatalf("status field = %v, want 503", fields["status"])
	}
	if body, _ := fields["body"].(string); body == "" {
		t.Fatalf("expected body preview in failure log")
	}
}

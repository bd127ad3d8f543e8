package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsEndpoint(t *testing.T) {
	RecordsScoredTotal.WithLabelValues("zscore").Add(5)

	srv := NewServer(":0")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "anomstream_records_scored_total") {
		t.Error("metrics output missing anomstream_records_scored_total")
	}
}

func TestHealthzEndpoint(t *testing.T) {
	srv := NewServer(":0")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealthzRejectsPost(t *testing.T) {
	srv := NewServer(":0")
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", rec.Code)
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0")

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// Wait a bit for the listener to come up
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start() returned error after shutdown: %v", err)
	}
}

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, newTestStore(t))

	rec := do(t, srv, http.MethodGet, "/", "")
	if _, err := uuid.Parse(rec.Header().Get(requestIDHeader)); err != nil {
		t.Fatalf("expected a generated UUID request id, got %q", rec.Header().Get(requestIDHeader))
	}

	tests := []struct {
		name    string
		inbound string
		reused  bool
	}{
		{"uuid", "6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f", true},
		{"free text", "abc-123", false},
		{"oversized", strings.Repeat("a", 4096), false},
		{"log injection", "x\nGET / 200", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestIDHeader, tt.inbound)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			if tt.reused {
				if got != tt.inbound {
					t.Fatalf("request id %q, want %q", got, tt.inbound)
				}
				return
			}
			if got == tt.inbound {
				t.Fatalf("inbound id %q should have been replaced", tt.inbound)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("replacement id %q is not a UUID", got)
			}
		})
	}
}

func TestMetricsCountRequestsByRoute(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)
	srv := newRouter(&handler{store: newTestStore(t)}, m, registry)

	do(t, srv, http.MethodPut, "/addresses/3", philly)
	do(t, srv, http.MethodPut, "/addresses/4", philly)

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPut, "/addresses/{id}", "404"))
	if got != 2 {
		t.Fatalf("counted %v PUT 404s, want 2", got)
	}

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "addressbook_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

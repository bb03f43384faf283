// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Tests in this file share the global HTTP counters and are not parallel.
func TestMetrics_RecordsRoutePattern(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		path   string
		route  string
		status string
	}{
		{"/widgets/42", "/widgets/{id}", "418"},
		{"/ok", "/ok", "200"},
		{"/missing", unmatchedRoute, "404"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, tt.route, tt.status))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, tt.route, tt.status))
			if got != before+1 {
				t.Errorf("requests{%s,%s} = %v, want %v", tt.route, tt.status, got, before+1)
			}
		})
	}
}

func TestMetrics_ActiveRequestsSettle(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPActiveRequests)

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if got := testutil.ToFloat64(metrics.HTTPActiveRequests); got != before {
		t.Errorf("active requests = %v after request, want %v", got, before)
	}
}

func TestStatusRecorder_FirstWriteHeaderWins(t *testing.T) {
	t.Parallel()

	rw := &statusRecorder{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("body"))
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200 after an implicit header", rw.statusCode)
	}
}

// AccessLog logs at debug through the global logger, which this test
// redirects and restores.
func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	for _, want := range []string{`"route":"/healthz"`, `"status":503`, `"message":"http request"`, `"request_id":"` + rec.Header().Get(RequestIDHeader) + `"`} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %q missing %s", out, want)
		}
	}
}

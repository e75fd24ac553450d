package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLivenessHandler(t *testing.T) {
	handler := LivenessHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %q, want 'OK'", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want 'text/plain'", ct)
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded keeps serving", Degraded("slow"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("down", nil), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Register("component", NewCheckerFunc("component", func(ctx context.Context) Result {
				return tt.result
			}))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			ReadinessHandler(agg)(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler_Healthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register("component", NewCheckerFunc("component", func(ctx context.Context) Result {
		return Healthy("ok").WithDetails(map[string]any{"queue_len": 3})
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	DetailedHandler(agg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want 'application/json'", ct)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("Response.Status = %q, want 'healthy'", response.Status)
	}
	if response.Timestamp == "" {
		t.Error("Response.Timestamp should not be empty")
	}
	check, ok := response.Checks["component"]
	if !ok {
		t.Fatal("Response.Checks should contain 'component'")
	}
	if check.Status != "healthy" {
		t.Errorf("Check.Status = %q, want 'healthy'", check.Status)
	}
}

func TestDetailedHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register("component", NewCheckerFunc("component", func(ctx context.Context) Result {
		return Unhealthy("down", ErrCheckFailed)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	DetailedHandler(agg)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response.Status != "unhealthy" {
		t.Errorf("Response.Status = %q, want 'unhealthy'", response.Status)
	}
	if response.Checks["component"].Error == "" {
		t.Error("Check.Error should carry the failure message")
	}
}

func TestDetailedHandler_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout: 50 * time.Millisecond,
	})
	agg.Register("slow", NewCheckerFunc("slow", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	DetailedHandler(agg)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d for timed-out check", rec.Code, http.StatusServiceUnavailable)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "unhealthy" {
		t.Errorf("Response.Status = %q, want 'unhealthy'", response.Status)
	}
}

func TestSingleCheckHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("component", NewCheckerFunc("component", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/component", nil)
		rec := httptest.NewRecorder()

		SingleCheckHandler(agg, "component")(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
		}

		var response CheckResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if response.Status != "healthy" {
			t.Errorf("Response.Status = %q, want 'healthy'", response.Status)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/nonexistent", nil)
		rec := httptest.NewRecorder()

		SingleCheckHandler(agg, "nonexistent")(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestSingleCheckHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register("down", NewCheckerFunc("down", func(ctx context.Context) Result {
		return Unhealthy("down", nil)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/down", nil)
	rec := httptest.NewRecorder()

	SingleCheckHandler(agg, "down")(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	agg := NewAggregator()
	agg.Register("component", NewCheckerFunc("component", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	RegisterHandlers(mux, agg)

	for _, ep := range []string{"/healthz", "/readyz", "/health"} {
		req := httptest.NewRequest(http.MethodGet, ep, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s Status = %d, want %d", ep, rec.Code, http.StatusOK)
		}
	}
}

package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFixed(t *testing.T) {
	if err := Fixed(true, "").Check(context.Background()); err != nil {
		t.Fatalf("Fixed(true) = %v, want nil", err)
	}
	err := Fixed(false, "down for maintenance").Check(context.Background())
	if err == nil || err.Error() != "down for maintenance" {
		t.Fatalf("Fixed(false) = %v, want reason", err)
	}
	if err := Fixed(false, "").Check(context.Background()); err == nil || err.Error() != "unhealthy" {
		t.Fatalf("Fixed(false, empty reason) = %v, want %q", err, "unhealthy")
	}
}

func TestAll(t *testing.T) {
	ctx := context.Background()

	if err := All(Fixed(true, ""), nil, Fixed(true, "")).Check(ctx); err != nil {
		t.Fatalf("All(ok, nil, ok) = %v, want nil", err)
	}
	err := All(Fixed(true, ""), Fixed(false, "first"), Fixed(false, "second")).Check(ctx)
	if err == nil || err.Error() != "first" {
		t.Fatalf("All = %v, want first failure", err)
	}
}

func TestShutdownGate(t *testing.T) {
	var g ShutdownGate
	p := g.Probe()
	ctx := context.Background()

	if err := p.Check(ctx); err != nil {
		t.Fatalf("fresh gate = %v, want nil", err)
	}

	g.Set("draining")
	if err := p.Check(ctx); err == nil || err.Error() != "draining" {
		t.Fatalf("closed gate = %v, want draining", err)
	}

	g.Clear()
	if err := p.Check(ctx); err != nil {
		t.Fatalf("cleared gate = %v, want nil", err)
	}
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{"healthy ok", HealthzHandler(Fixed(true, "")), http.StatusOK, "ok\n"},
		{"healthy nil probe", HealthzHandler(nil), http.StatusOK, "ok\n"},
		{"unhealthy", HealthzHandler(Fixed(false, "broken")), http.StatusServiceUnavailable, "broken"},
		{"ready ok", ReadyzHandler(Fixed(true, "")), http.StatusOK, "ready\n"},
		{"not ready", ReadyzHandler(Fixed(false, "draining")), http.StatusServiceUnavailable, "draining"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

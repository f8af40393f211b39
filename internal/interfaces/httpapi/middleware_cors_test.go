package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
	}{
		{
			name:       "configured origin",
			allowed:    []string{"https://roster.example.com"},
			method:     http.MethodGet,
			origin:     "https://roster.example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "https://roster.example.com",
		},
		{
			name:       "wildcard preflight",
			allowed:    []string{"*"},
			method:     http.MethodOptions,
			origin:     "https://anywhere.example.com",
			wantCode:   http.StatusNoContent,
			wantOrigin: "*",
		},
		{
			name:     "unconfigured origin",
			allowed:  []string{"https://roster.example.com"},
			method:   http.MethodGet,
			origin:   "https://evil.example.com",
			wantCode: http.StatusOK,
		},
		{
			name:     "no origin header",
			allowed:  []string{"*"},
			method:   http.MethodGet,
			wantCode: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/events", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tc.allowed, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
		})
	}
}

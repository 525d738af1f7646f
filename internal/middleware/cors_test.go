package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		status      int
		allowOrigin string
		credentials string
		maxAge      string
	}{
		{name: "listed origin", allowed: []string{"https://app.rakta.test/"}, method: http.MethodGet, origin: "https://app.rakta.test", status: http.StatusOK, allowOrigin: "https://app.rakta.test", credentials: "true"},
		{name: "unlisted origin", allowed: []string{"https://app.rakta.test"}, method: http.MethodGet, origin: "https://evil.test", status: http.StatusOK},
		{name: "wildcard omits credentials", allowed: []string{"*"}, method: http.MethodGet, origin: "https://any.test", status: http.StatusOK, allowOrigin: "https://any.test"},
		{name: "preflight", allowed: []string{"https://app.rakta.test"}, method: http.MethodOptions, origin: "https://app.rakta.test", preflight: true, status: http.StatusNoContent, allowOrigin: "https://app.rakta.test", credentials: "true", maxAge: "600"},
		{name: "preflight from unlisted origin", allowed: []string{"https://app.rakta.test"}, method: http.MethodOptions, origin: "https://evil.test", preflight: true, status: http.StatusNoContent},
		{name: "plain options passes through", allowed: nil, method: http.MethodOptions, status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/stats", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed)(next).ServeHTTP(rec, req)

			h := rec.Header()
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if got := h.Get("Access-Control-Allow-Origin"); got != tc.allowOrigin {
				t.Fatalf("allow origin = %q, want %q", got, tc.allowOrigin)
			}
			if got := h.Get("Access-Control-Allow-Credentials"); got != tc.credentials {
				t.Fatalf("credentials = %q, want %q", got, tc.credentials)
			}
			if got := h.Get("Access-Control-Max-Age"); got != tc.maxAge {
				t.Fatalf("max age = %q, want %q", got, tc.maxAge)
			}
		})
	}
}

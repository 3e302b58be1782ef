package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		host    string
		allowed []string
		want    bool
	}{
		{"example.com", nil, true},
		{"example.com:8080", []string{"example.com:8080"}, true},
		{"example.com", []string{"example.com:8080"}, true},
		{"example.com:8080", []string{"example.com"}, true},
		{"Example.COM:8080", []string{"example.com"}, true},
		{"  example.com:8080  ", []string{"  example.com  "}, true},
		{"app.example.com", []string{"example.com", "app.example.com"}, true},
		{"[::1]:8080", []string{"::1"}, true},
		{"::1", []string{"[::1]:8080"}, true},
		{"[2001:db8::7334]:443", []string{"2001:db8::7334"}, true},
		{"[fe80::1%lo0]:8080", []string{"fe80::1%lo0"}, true},
		{"evil.com", []string{"example.com"}, false},
		{"sub.example.com", []string{"example.com"}, false},
		{"[::2]:8080", []string{"[::1]:8080"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsHostAllowed(tt.host, tt.allowed); got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	handler := HSTS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=31536000") {
		t.Errorf("Strict-Transport-Security = %q", got)
	}
}

func TestSecureCookies(t *testing.T) {
	tests := []struct {
		name    string
		cookies []*http.Cookie
		status  int
		want    []string
	}{
		{
			name:    "session cookie gets every flag",
			cookies: []*http.Cookie{{Name: "session", Value: "t", Path: "/"}},
			want:    []string{"session=t", "Path=/", "Secure", "HttpOnly", "SameSite=Lax"},
		},
		{
			name:    "explicit SameSite is kept",
			cookies: []*http.Cookie{{Name: "session", Value: "t", SameSite: http.SameSiteStrictMode}},
			want:    []string{"Secure", "HttpOnly", "SameSite=Strict"},
		},
		{
			name:    "cleared cookie keeps its expiry on a redirect",
			cookies: []*http.Cookie{{Name: "oauth_state", Value: "", MaxAge: -1}},
			status:  http.StatusFound,
			want:    []string{"oauth_state=", "Max-Age=0", "Secure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecureCookies(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for _, c := range tt.cookies {
					http.SetCookie(w, c)
				}
				if tt.status != 0 {
					w.WriteHeader(tt.status)
					return
				}
				w.Write([]byte("ok"))
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			got := rr.Header().Get("Set-Cookie")
			for _, attr := range tt.want {
				if !strings.Contains(got, attr) {
					t.Errorf("Set-Cookie = %q, missing %q", got, attr)
				}
			}
		})
	}
}

func TestSecureCookies_UnparseableLeftAlone(t *testing.T) {
	if got := hardenCookie("not a cookie"); got != "not a cookie" {
		t.Errorf("hardenCookie = %q", got)
	}
}

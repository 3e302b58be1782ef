package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS enforces HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// SecureCookies forces Secure and HttpOnly on every cookie the handler sets.
// Cookies without an explicit SameSite get Lax, which the OAuth state cookie
// needs to survive the redirect back from the provider.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&secureCookieWriter{ResponseWriter: w}, r)
	})
}

type secureCookieWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *secureCookieWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *secureCookieWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.ResponseWriter.Header()
	for i, raw := range h["Set-Cookie"] {
		h["Set-Cookie"][i] = hardenCookie(raw)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// hardenCookie rewrites a Set-Cookie value. Values that don't parse are left alone.
func hardenCookie(raw string) string {
	c, err := http.ParseSetCookie(raw)
	if err != nil {
		return raw
	}
	c.Secure = true
	c.HttpOnly = true
	if c.SameSite == 0 || c.SameSite == http.SameSiteDefaultMode {
		c.SameSite = http.SameSiteLaxMode
	}
	return c.String()
}

// IsHostAllowed validates a host against the allowed hosts list before
// redirecting HTTP to HTTPS. An empty list allows every host.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if host == allowed || hostOnly(host) == hostOnly(allowed) {
			return true
		}
	}

	return false
}

// hostOnly strips the port and IPv6 brackets from a host.
func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}

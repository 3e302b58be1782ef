package middleware

import (
	"context"
	"net/http"
	"strings"

	"smtm/internal/shared/auth"
)

type ContextKey string

const IdentityKey ContextKey = "identity"

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

// Auth rejects requests without a verifiable token before the handler runs.
func Auth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := authenticate(r, verifier)
			if id == nil {
				writeError(w, http.StatusBadRequest, "Not authenticated")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuth attaches the identity when one is present and never rejects.
func OptionalAuth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := authenticate(r, verifier); id != nil {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return id, ok && id != nil
}

func authenticate(r *http.Request, verifier auth.Verifier) *auth.Identity {
	for _, token := range candidateTokens(r) {
		id, err := verifier.Verify(r.Context(), token)
		if err == nil && id.UserID != "" {
			return id
		}
	}
	return nil
}

// candidateTokens lists the cookie token before the bearer token, so a stale
// browser session does not mask a valid Authorization header.
func candidateTokens(r *http.Request) []string {
	var tokens []string
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	if token := bearerToken(r); token != "" {
		tokens = append(tokens, token)
	}
	return tokens
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

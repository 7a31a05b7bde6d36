package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the external id we store.
type contextKey string

const externalIDKey contextKey = "externalID"

// CookieName is the HttpOnly cookie carrying the session JWT.
const CookieName = "token"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// caller's external identity in the request context. Missing or invalid
// tokens get 401 and the chain stops. The cookie is HttpOnly, so page
// scripts cannot read the token.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID, err := extractExternalID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthenticated","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), externalIDKey, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the caller's identity when a valid token is present
// but never blocks the request. Used on public read routes where signed-in
// callers may get extra affordances.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if externalID, err := extractExternalID(r, tokens); err == nil && externalID != "" {
				ctx := context.WithValue(r.Context(), externalIDKey, externalID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExternalIDFromContext retrieves the authenticated caller's external
// identity. Returns ("", false) for anonymous requests.
func ExternalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(externalIDKey).(string)
	return id, ok && id != ""
}

// extractExternalID reads the session cookie and validates the JWT inside.
func extractExternalID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}

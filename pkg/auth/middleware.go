package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/getmockd/perfstub/pkg/httputil"
)

type ctxKey struct{}

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user stored by BasicAuth.
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// Fail writes the {status:"fail", message, timestamp} envelope used by the
// auth endpoints.
func Fail(w http.ResponseWriter, status int, message string) {
	httputil.Envelope(w, status, map[string]any{
		"status":  "fail",
		"message": message,
	})
}

// BasicAuth rejects requests without valid basic credentials and stores the
// user, without its password, in the request context.
func BasicAuth(store *CredentialStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				Fail(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}
			encoded, ok := strings.CutPrefix(header, "Basic ")
			if !ok {
				Fail(w, http.StatusUnauthorized, "Basic authentication required")
				return
			}

			username, password := decodeCredentials(encoded)
			if username == "" || password == "" {
				Fail(w, http.StatusUnauthorized, "Username and password are required")
				return
			}

			user, ok := store.Authenticate(username, password)
			if !ok {
				Fail(w, http.StatusUnauthorized, "Invalid username or password")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// decodeCredentials splits "user:pass". Undecodable input yields empty
// strings. Like most basic auth clients, only the first colon separates.
func decodeCredentials(encoded string) (string, string) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", ""
	}
	username, password, _ := strings.Cut(string(raw), ":")
	return username, password
}

// RequireRole rejects requests whose authenticated user lacks role.
// It must run after BasicAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if user.Role != role {
				Fail(w, http.StatusForbidden, "Access denied. "+role+" role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

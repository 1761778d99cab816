package auth

import (
	"net/http"

	"github.com/getmockd/perfstub/pkg/httputil"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler checks a {username, password} JSON body against store.
func LoginHandler(store *CredentialStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if err := httputil.Decode(w, r, 1<<20, &c); err != nil || c.Username == "" || c.Password == "" {
			Fail(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, ok := store.Authenticate(c.Username, c.Password)
		if !ok {
			Fail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		httputil.Envelope(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Login successful",
			"user":    user,
		})
	}
}

// ProfileHandler returns the authenticated user. It must run behind BasicAuth.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status": "success",
		"user":   user,
	})
}

// AdminHandler confirms admin access. It must run behind RequireRole("admin").
func AdminHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Welcome to the admin area",
		"user":    user,
	})
}

// TokenHandler issues a test token for a {username, password} body.
func TokenHandler(issuer *TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if err := httputil.Decode(w, r, 1<<20, &c); err != nil || c.Username == "" || c.Password == "" {
			httputil.Envelope(w, http.StatusBadRequest, map[string]any{
				"error": "Username and password are required.",
			})
			return
		}

		token, err := issuer.Issue(c.Username)
		if err != nil {
			httputil.WriteInternalError(w, "TOKEN_SIGNING_FAILED", err.Error())
			return
		}
		httputil.Envelope(w, http.StatusOK, map[string]any{
			"token":     token,
			"expiresIn": int(issuer.TTL().Seconds()),
		})
	}
}

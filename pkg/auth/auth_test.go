package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func protected(store *CredentialStore) http.Handler {
	return BasicAuth(store)(RequireRole("admin")(http.HandlerFunc(AdminHandler)))
}

func TestBasicAuth(t *testing.T) {
	store := NewCredentialStore(DefaultUsers())
	h := BasicAuth(store)(http.HandlerFunc(ProfileHandler))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"no header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"bearer", "Bearer abc", http.StatusUnauthorized, "Basic authentication required"},
		{"not base64", "Basic !!!", http.StatusUnauthorized, "Username and password are required"},
		{"no password", basic("admin", ""), http.StatusUnauthorized, "Username and password are required"},
		{"wrong password", basic("admin", "nope"), http.StatusUnauthorized, "Invalid username or password"},
		{"valid", basic("tester", "tester123"), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Contains(t, body, "timestamp")
			if tt.wantMsg != "" {
				assert.Equal(t, "fail", body["status"])
				assert.Equal(t, tt.wantMsg, body["message"])
				return
			}
			user := body["user"].(map[string]any)
			assert.Equal(t, "tester", user["username"])
			assert.NotContains(t, user, "password")
		})
	}
}

func TestRequireRole(t *testing.T) {
	store := NewCredentialStore(DefaultUsers())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/admin", nil)
	req.Header.Set("Authorization", basic("user", "user123"))
	protected(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. admin role required", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	req.Header.Set("Authorization", basic("admin", "admin123"))
	protected(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without BasicAuth in front there is no user.
	rec = httptest.NewRecorder()
	RequireRole("admin")(http.HandlerFunc(AdminHandler)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	h := LoginHandler(NewCredentialStore(DefaultUsers()))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"missing fields", `{"username":"admin"}`, http.StatusBadRequest, "Username and password are required"},
		{"invalid json", `{`, http.StatusBadRequest, "Username and password are required"},
		{"bad credentials", `{"username":"admin","password":"x"}`, http.StatusUnauthorized, "Invalid username or password"},
		{"ok", `{"username":"admin","password":"admin123"}`, http.StatusOK, "Login successful"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["message"])
		})
	}
}

func TestLoadCredentialStore(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "users.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("users:\n  - {id: 7, username: qa, password: pw, role: admin}\n"), 0o644))
	store, err := LoadCredentialStore(yamlPath)
	require.NoError(t, err)
	u, ok := store.Authenticate("qa", "pw")
	require.True(t, ok)
	assert.Equal(t, 7, u.ID)
	assert.Empty(t, u.Password)

	emptyPath := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{"users": []}`), 0o644))
	_, err = LoadCredentialStore(emptyPath)
	assert.ErrorIs(t, err, ErrNoUsers)

	store, err = LoadCredentialStore("")
	require.NoError(t, err)
	assert.Len(t, store.Users(), 3)
}

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("", time.Minute)
	require.ErrorIs(t, err, ErrEmptySecret)

	issuer, err := NewTokenIssuer("test_secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, issuer.TTL())

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["user"])
	assert.Equal(t, TestRole, claims["role"])
	assert.NotContains(t, claims, "password")
	assert.EqualValues(t, issued.UnixMilli(), claims["issuedAt"])

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Verify(tok)
	assert.Error(t, err, "expired token")

	other, err := NewTokenIssuer("other", 0)
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.Error(t, err)
}

func TestTokenHandler(t *testing.T) {
	issuer, err := NewTokenIssuer("test_secret", time.Hour)
	require.NoError(t, err)
	h := TokenHandler(issuer)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/test-token/token", strings.NewReader(`{"username":"a"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username and password are required.", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/test-token/token", strings.NewReader(`{"username":"a","password":"b"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	_, err = issuer.Verify(body["token"].(string))
	assert.NoError(t, err)
	assert.EqualValues(t, 3600, body["expiresIn"])
}

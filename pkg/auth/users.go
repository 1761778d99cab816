// Package auth provides the test credential store, HTTP basic auth
// middleware and the HS256 test token issuer.
//
// None of this is meant to be secure. Passwords are stored and compared in
// plain text because the server is a test double for API clients.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNoUsers is returned when a users file holds no users.
var ErrNoUsers = errors.New("users file contains no users")

// User is a test account.
type User struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Role     string `json:"role" yaml:"role"`
}

// Public returns the user without its password.
func (u User) Public() User {
	u.Password = ""
	return u
}

type usersFile struct {
	Users []User `json:"users" yaml:"users"`
}

// DefaultUsers returns the built-in accounts.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Username: "admin", Password: "admin123", Role: "admin"},
		{ID: 2, Username: "tester", Password: "tester123", Role: "tester"},
		{ID: 3, Username: "user", Password: "user123", Role: "user"},
	}
}

// CredentialStore looks up test accounts.
type CredentialStore struct {
	mu    sync.RWMutex
	users []User
}

// NewCredentialStore creates a store holding a copy of users.
func NewCredentialStore(users []User) *CredentialStore {
	return &CredentialStore{users: append([]User(nil), users...)}
}

// LoadCredentialStore reads {"users": [...]} from a JSON or YAML file.
// An empty path yields DefaultUsers.
func LoadCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		return NewCredentialStore(DefaultUsers()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var f usersFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoUsers)
	}
	return NewCredentialStore(f.Users), nil
}

// Authenticate returns the public view of the user matching both username
// and password.
func (s *CredentialStore) Authenticate(username, password string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u.Public(), true
		}
	}
	return User{}, false
}

// Users returns the public view of every account.
func (s *CredentialStore) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Public()
	}
	return out
}

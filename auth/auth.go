// Package auth verifies account credentials and tracks the logged-in
// session.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/laluke1/camptrack/storage"
)

var (
	// ErrBadCredentials indicates an unknown username or wrong password.
	ErrBadCredentials = errors.New("auth: invalid username or password")
	// ErrAccountDisabled indicates valid credentials for a disabled account.
	ErrAccountDisabled = errors.New("auth: account is disabled")
)

// Session identifies one logged-in user for the lifetime of their login.
type Session struct {
	ID         string
	User       *storage.User
	LoggedInAt time.Time
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether a password matches a stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate checks credentials against the store and opens a session.
//
// A wrong password is reported before a disabled account so that the
// disabled notice never confirms credentials to a guesser.
func Authenticate(store *storage.Store, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	if user.IsDisabled {
		return nil, ErrAccountDisabled
	}

	return &Session{
		ID:         uuid.NewString(),
		User:       user,
		LoggedInAt: time.Now(),
	}, nil
}

// RoleWithArticle returns the role title prefixed with its article, such as
// "an Admin" or "a Scout Leader".
func RoleWithArticle(role string) string {
	title := storage.RoleTitle(role)
	if title == "" {
		return title
	}

	article := "a"
	switch title[0] {
	case 'A', 'E', 'I', 'O', 'U', 'a', 'e', 'i', 'o', 'u':
		article = "an"
	}
	return article + " " + title
}

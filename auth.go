package teamupdates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// HashPassword hashes one plaintext password for persistent storage.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword verifies a plaintext password against a bcrypt hash.
func VerifyPassword(passwordHash, candidate string) bool {
	if strings.TrimSpace(passwordHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(candidate)) == nil
}

// NewAuthor builds an Author with a fresh id and hashed password, ready for
// Store.CreateAuthor. Email is normalized to lowercase.
func NewAuthor(email, name, password string) (Author, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Author{}, fmt.Errorf("invalid email")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}, fmt.Errorf("name is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Author{}, err
	}
	return Author{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// SignIn verifies credentials against the authors table. Unknown email and
// wrong password both return ErrInvalidCredentials so callers cannot tell
// the two apart.
func (a *App) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	author, err := a.Store.GetAuthorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(author.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &Session{AuthorID: author.ID, AuthorName: author.Name}, nil
}

const sessionName = "updates_session"

// CurrentSession returns the signed-in author's session, or nil when the
// request carries no valid session cookie.
func CurrentSession(c echo.Context) *Session {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	id, ok := sess.Values["author_id"].(string)
	if !ok || id == "" {
		return nil
	}
	name, _ := sess.Values["author_name"].(string)
	return &Session{AuthorID: id, AuthorName: name}
}

func setSession(c echo.Context, s *Session) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["author_id"] = s.AuthorID
	sess.Values["author_name"] = s.AuthorName
	return sess.Save(c.Request(), c.Response())
}

// clearSession invalidates the cookie locally; there is no server-side
// session state to revoke.
func clearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// Package auth signs users in with a JWT session cookie and guards the routes that need
// an account.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mytheresa/content-portal/app/config"
	"github.com/mytheresa/content-portal/models"
)

var ErrInvalidSession = errors.New("invalid session")

type UserProvider interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// Sessions issues and verifies HS256-signed session cookies whose subject is the user id.
type Sessions struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	users      UserProvider
	now        func() time.Time
}

// NewSessions returns a session manager. An empty secret is replaced by a random one,
// which signs everybody out on restart.
func NewSessions(cfg config.SessionConfig, users UserProvider) (*Sessions, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	name := cfg.CookieName
	if name == "" {
		name = "sessionid"
	}
	return &Sessions{
		secret:     secret,
		cookieName: name,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		users:      users,
		now:        time.Now,
	}, nil
}

// Token returns a signed session token for user.
func (s *Sessions) Token(user *models.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl).Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse verifies token and returns the user id it was issued for.
func (s *Sessions) Parse(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidSession, claims.Subject)
	}
	return uint(id), nil
}

// Issue sets the session cookie for user.
func (s *Sessions) Issue(w http.ResponseWriter, user *models.User) error {
	token, exp, err := s.Token(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware puts the signed-in user, if any, into the request context. Invalid or stale
// cookies are treated as anonymous.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := s.resolve(r); user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) resolve(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, err := s.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	user, err := s.users.GetUser(r.Context(), id)
	if err != nil || !user.IsActive {
		return nil
	}
	return user
}

type userKey struct{}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

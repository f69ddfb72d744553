// internal/auth/auth.go
//
// JWT sessions for optional player accounts.
// Responsibilities:
//   - Issue and verify HS256 tokens carrying the user id and name.
//   - Auth cookie handling (credentials-friendly in production).
//   - A stable anonymous cookie so guest games can be claimed after signup.
//   - OptionalAuth/RequireAuth middleware that put the Identity in the request context.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AnonCookieName holds a guest's player ID.
const AnonCookieName = "foxowl_anon"

var ErrInvalidToken = errors.New("invalid token")

// Config controls token and cookie behaviour.
type Config struct {
	Secret     string
	Expiry     time.Duration
	CookieName string
	Secure     bool // production: Secure + SameSite=None
	BcryptCost int  // 0 = bcrypt.DefaultCost
}

// Identity is placed into the request context by the middleware.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Service struct {
	db   *sql.DB
	cfg  Config
	cost int
}

func NewService(db *sql.DB, cfg Config) *Service {
	if cfg.CookieName == "" {
		cfg.CookieName = "foxowl_token"
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 14 * 24 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{db: db, cfg: cfg, cost: cost}
}

// Sign creates a token for u and returns it with its expiry.
func (s *Service) Sign(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.Expiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Secret))
	return ss, exp, err
}

// Parse verifies a token and returns the identity it carries.
func (s *Service) Parse(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: id, Username: username}, nil
}

func (s *Service) sameSite() http.SameSite {
	if s.cfg.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (s *Service) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// TokenFrom extracts a bearer token from the Authorization header or the auth cookie.
func (s *Service) TokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// EnsureAnonID returns the existing anonymous cookie or sets a new one.
func (s *Service) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(AnonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := GenID()
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// PlayerID is the account id when logged in, otherwise the anonymous id.
func (s *Service) PlayerID(w http.ResponseWriter, r *http.Request) (id string, registered bool) {
	if me := FromContext(r.Context()); me != nil {
		return me.ID, true
	}
	return s.EnsureAnonID(w, r), false
}

// ---------------------------- middleware -----------------------------------

type ctxKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request's identity, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}

// identify resolves the request token to a still-existing user.
func (s *Service) identify(r *http.Request) (*Identity, error) {
	tok := s.TokenFrom(r)
	if tok == "" {
		return nil, ErrInvalidToken
	}
	id, err := s.Parse(tok)
	if err != nil {
		return nil, err
	}
	if _, err := s.FindByID(r.Context(), id.ID); err != nil {
		return nil, ErrInvalidToken
	}
	return id, nil
}

// OptionalAuth decorates requests with the identity when a valid token is
// present. It never rejects; guests pass through.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := s.identify(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid token with 401.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.TokenFrom(r) == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		id, err := s.identify(r)
		if err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

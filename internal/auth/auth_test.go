package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/foxowl/assets"
	"github.com/robalobadob/foxowl/internal/database"
)

func newService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return NewService(db, Config{Secret: "test-secret", Expiry: time.Hour, BcryptCost: bcrypt.MinCost}), db
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	u, err := s.CreateUser(ctx, "  fox_fan ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "fox_fan", u.Username)
	assert.Len(t, u.ID, 22)

	_, err = s.CreateUser(ctx, "FOX_FAN", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.Authenticate(ctx, "Fox_Fan", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "fox_fan", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	s, _ := newService(t)
	for _, tc := range []struct{ user, pw string }{
		{"ab", "password123"},
		{"has space", "password123"},
		{"owl", "short"},
	} {
		_, err := s.CreateUser(context.Background(), tc.user, tc.pw)
		assert.ErrorIs(t, err, ErrInvalidSignup, tc.user)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s, _ := newService(t)
	tok, exp, err := s.Sign(&User{ID: "u1", Username: "owl"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "u1", Username: "owl"}, id)

	other := NewService(nil, Config{Secret: "other"})
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	u, err := s.CreateUser(ctx, "owl_one", "password123")
	require.NoError(t, err)
	tok, _, err := s.Sign(u)
	require.NoError(t, err)

	var seen *Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = FromContext(r.Context()) })

	// optional: guests pass through
	rec := httptest.NewRecorder()
	s.OptionalAuth(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "foxowl_token", Value: tok})
	s.OptionalAuth(h).ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)

	// required
	seen = nil
	rec = httptest.NewRecorder()
	s.RequireAuth(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	s.RequireAuth(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owl_one", seen.Username)

	// a token for a deleted user is rejected
	ghost, _, err := s.Sign(&User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	s.RequireAuth(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnonIDIsStable(t *testing.T) {
	s, _ := newService(t)
	rec := httptest.NewRecorder()
	id := s.EnsureAnonID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, id, s.EnsureAnonID(httptest.NewRecorder(), req))
}

func TestBumpStatsAndClaim(t *testing.T) {
	ctx := context.Background()
	s, db := newService(t)
	u, err := s.CreateUser(ctx, "streaker", "password123")
	require.NoError(t, err)

	for _, won := range []bool{true, true, false, true} {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, BumpStats(ctx, tx, u.ID, won))
		require.NoError(t, tx.Commit())
	}
	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.GamesPlayed)
	assert.Equal(t, 3, got.Wins)
	assert.Equal(t, 1, got.Streak)

	_, err = db.Exec(`INSERT INTO games (id, anonymous_id, size, difficulty, fox_count, seed, started_at)
	                  VALUES ('g1', 'anon1', 3, 0, 0, 1, '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, s.ClaimAnonGames(ctx, "anon1", u.ID))
	var owner string
	require.NoError(t, db.QueryRow(`SELECT user_id FROM games WHERE id='g1'`).Scan(&owner))
	assert.Equal(t, u.ID, owner)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package daily

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/foxowl/assets"
	"github.com/robalobadob/foxowl/internal/database"
)

func TestDateKeyUsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	local := time.Date(2026, 3, 2, 6, 0, 0, 0, tokyo)
	assert.Equal(t, "2026-03-01", DateKey(local))
}

func TestSeedIsStablePerDateAndSalt(t *testing.T) {
	d := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	later := d.Add(11 * time.Hour)

	assert.Equal(t, Seed(d, "salt"), Seed(later, "salt"))
	assert.Equal(t, Seed(d, "salt"), SeedForKey("2026-10-18", "salt"))
	assert.NotEqual(t, Seed(d, "salt"), Seed(d.AddDate(0, 0, 1), "salt"))
	assert.NotEqual(t, Seed(d, "salt"), Seed(d, "pepper"))
	assert.Greater(t, Seed(d, "salt"), int64(0))
}

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return NewStore(db)
}

func TestResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	date := "2026-10-18"

	played, err := st.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.False(t, played)

	_, err = st.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES ('bob', 'Bobby', 'x', '2026-10-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "alice", Date: date, Size: 3, Moves: 30, ElapsedMs: 9000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "bob", Date: date, Size: 3, Moves: 12, ElapsedMs: 4000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "carol", Date: date, Size: 3, Moves: 8, ElapsedMs: 4000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "dave", Date: "2026-10-17", Size: 3, Moves: 1, ElapsedMs: 1}))
	// second solve on the same day is ignored
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "alice", Date: date, Size: 3, Moves: 2, ElapsedMs: 10}))

	played, err = st.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.True(t, played)

	top, err := st.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{GuestName, "Bobby", GuestName}, []string{top[0].Username, top[1].Username, top[2].Username})
	assert.Equal(t, []bool{true, false, true}, []bool{top[0].Guest, top[1].Guest, top[2].Guest})
	assert.Equal(t, []int{1, 2, 3}, []int{top[0].Rank, top[1].Rank, top[2].Rank})
	assert.Equal(t, 8, top[0].Moves)
	assert.Equal(t, 9000, top[2].ElapsedMs)

	// player IDs stay on the server
	body, err := json.Marshal(top)
	require.NoError(t, err)
	for _, id := range []string{"alice", "bob", "carol", "userId"} {
		assert.NotContains(t, string(body), `"`+id+`"`)
	}

	top, err = st.Leaderboard(ctx, date, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	top, err = st.Leaderboard(ctx, "2000-01-01", 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

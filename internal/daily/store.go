package daily

import (
	"context"
	"database/sql"
)

// Result is one player's solve of a daily board.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Size      int    `json:"size"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a solve. A second solve on the same date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, size, moves, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.Size, r.Moves, r.ElapsedMs,
	)
	return err
}

// GuestName stands in for players without an account. Player IDs never
// leave the server: a guest's ID is their anon cookie.
const GuestName = "guest"

// LBRow is one public leaderboard entry.
type LBRow struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Guest     bool   `json:"guest"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard ranks a date's solves by time, then by move count.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, ''), d.moves, d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=?
		 ORDER BY d.elapsed_ms ASC, d.moves ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		if r.Username == "" {
			r.Username, r.Guest = GuestName, true
		}
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses the session)
//   - POST /daily/move        → slide a tile on today's board
//   - GET  /daily/leaderboard → top 20 solves for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same board on a given UTC date (seed derived from date + salt).
// Each player can record one result per day (enforced by DB UNIQUE + session map).

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/internal/daily"
	"github.com/robalobadob/foxowl/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
	// player|date → game ID of the in-progress daily session
	sessions *expirable.LRU[string, string]
	now      func() time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	salt := s.opts.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     salt,
		sessions: expirable.NewLRU[string, string](10000, nil, 26*time.Hour),
		now:      time.Now,
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Post("/move", s.daily.handleMove)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

func sessionKey(playerID, date string) string { return playerID + "|" + date }

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	*boardRes
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses today's session.
// - If the player already has a DB row for today → Played=true, no board.
// - Otherwise reuse the live session or generate today's board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.auth.PlayerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := sessionKey(uid, date)
	if id, ok := d.sessions.Get(key); ok {
		if g, err := d.srv.store.Get(r.Context(), id); err == nil {
			view := d.srv.boardView(g, d.srv.locale(r))
			_ = json.NewEncoder(w).Encode(dailyNewRes{boardRes: &view, Date: date})
			return
		}
	}

	g, status, err := d.srv.newSession(r.Context(), game.Options{
		Difficulty: game.Normal,
		Seed:       daily.Seed(now, d.salt),
	})
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	d.sessions.Add(key, g.ID)

	view := d.srv.boardView(g, d.srv.locale(r))
	_ = json.NewEncoder(w).Encode(dailyNewRes{boardRes: &view, Date: date})
}

// -----------------------------------------------------------------------------
// /daily/move

type dailyMoveRes struct {
	moveRes
	Date string `json:"date"`
}

// handleMove applies a slide to today's session and records the result on solve.
func (d *dailyServer) handleMove(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.auth.PlayerID(w, r)

	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date := daily.DateKey(d.now())
	id, ok := d.sessions.Get(sessionKey(uid, date))
	if !ok || req.GameID == "" || id != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	g, err := d.srv.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	res, ok := d.srv.applyMove(w, r, g, req)
	if !ok {
		return
	}
	if res.State == game.StateSolved {
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      date,
			Size:      g.Size,
			Moves:     res.Moves,
			ElapsedMs: int(g.Elapsed().Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(dailyMoveRes{
		moveRes: moveRes{MoveResult: res, Progress: d.srv.opts.Text.Progress(res.Valid, res.Total, d.srv.locale(r))},
		Date:    date,
	})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

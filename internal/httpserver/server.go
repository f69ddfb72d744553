// internal/httpserver/server.go
//
// HTTP server wiring for the Fox & Owl backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, GET /game/{id}, POST /game/move,
//     and the websocket move stream GET /game/{id}/ws.
//   - Daily board endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Database persistence of game rows and user stats.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Live sessions are held in the store; SQLite only keeps history rows.
//   - The websocket route is registered outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/internal/auth"
	"github.com/robalobadob/foxowl/internal/game"
	"github.com/robalobadob/foxowl/internal/puzzle"
	"github.com/robalobadob/foxowl/internal/store"
	"github.com/robalobadob/foxowl/internal/testimony"
)

// Options carries the server's tunables.
type Options struct {
	ClientOrigin  string
	BoardSize     int
	Policy        *game.Policy
	DailySalt     string
	DefaultLocale string
	Text          *testimony.Table
	Auth          auth.Config
}

// Server bundles router, session store, DB handle and auth.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	auth  *auth.Service
	daily *dailyServer
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts Options) *Server {
	if opts.BoardSize == 0 {
		opts.BoardSize = 3
	}
	if opts.Policy == nil {
		opts.Policy = game.DefaultPolicy()
	}
	if opts.Text == nil {
		opts.Text = testimony.Get()
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = testimony.DefaultLocale
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), store: st, db: db, auth: auth.NewService(db, opts.Auth), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// Live move stream: long-lived, so no timeout or JSON header.
	s.r.With(s.auth.OptionalAuth).Get("/game/{id}/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(accessLog)
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"foxowl-go","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/move","GET /game/{id}/ws","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
		})

		// Game endpoints: optional auth, guests can play
		r.With(s.auth.OptionalAuth).Post("/game/new", s.handleNewGame)
		r.With(s.auth.OptionalAuth).Get("/game/{id}", s.handleGetGame)
		r.With(s.auth.OptionalAuth).Post("/game/move", s.handleMove)

		// Daily board: optional auth, result persisted on solve
		s.mountDaily(r.With(s.auth.OptionalAuth))

		// Auth + profile/stats
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// writeError sends {"error": code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// locale picks ?locale=, then the first Accept-Language tag, then the default.
func (s *Server) locale(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("locale")); l != "" {
		return l
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		tag := strings.TrimSpace(strings.SplitN(strings.SplitN(al, ",", 2)[0], ";", 2)[0])
		if tag != "" && tag != "*" {
			return tag
		}
	}
	return s.opts.DefaultLocale
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new. Every field is optional.
type newGameReq struct {
	Size       int             `json:"size"`
	Difficulty game.Difficulty `json:"difficulty"`
	Seed       int64           `json:"seed"`
}

// boardRes is a game view plus its localized progress label.
type boardRes struct {
	game.View
	Progress string `json:"progress"`
}

func (s *Server) boardView(g *game.Game, locale string) boardRes {
	v := g.View(g.State() == game.StateSolved, s.opts.Text.Labeler(locale))
	return boardRes{View: v, Progress: s.opts.Text.Progress(v.Valid, v.Total, locale)}
}

// newSession generates a game and registers it with the store.
func (s *Server) newSession(ctx context.Context, opts game.Options) (*game.Game, int, error) {
	if opts.Size == 0 {
		opts.Size = s.opts.BoardSize
	}
	if opts.Size < game.MinBoardSize || opts.Size > game.MaxBoardSize {
		return nil, http.StatusBadRequest, errors.New("invalid_size")
	}
	opts.Policy = s.opts.Policy
	g, err := game.New(opts)
	if err != nil {
		if errors.Is(err, puzzle.ErrInconsistentTestimony) {
			log.Error().Err(err).Msg("generate board")
			return nil, http.StatusInternalServerError, errors.New("generation_failed")
		}
		return nil, http.StatusBadRequest, errors.New("invalid_config")
	}
	if err := s.store.Save(ctx, g); err != nil {
		log.Error().Err(err).Msg("save game")
		return nil, http.StatusInternalServerError, errors.New("save_failed")
	}
	return g, http.StatusOK, nil
}

// handleNewGame creates a session and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, status, err := s.newSession(r.Context(), game.Options{Size: req.Size, Difficulty: req.Difficulty, Seed: req.Seed})
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	state := string(g.State())
	if me := auth.FromContext(r.Context()); me != nil {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, size, difficulty, fox_count, seed, status, started_at)
		                     VALUES (?,?,?,?,?,?,?,?)`, g.ID, me.ID, g.Size, int(g.Difficulty), g.FoxCount, g.Seed, state, now)
	} else {
		anon := s.auth.EnsureAnonID(w, r)
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, size, difficulty, fox_count, seed, status, started_at)
		                     VALUES (?,?,?,?,?,?,?,?)`, g.ID, anon, g.Size, int(g.Difficulty), g.FoxCount, g.Seed, state, now)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(s.boardView(g, s.locale(r)))
}

// handleGetGame returns the current board.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	_ = json.NewEncoder(w).Encode(s.boardView(g, s.locale(r)))
}

// moveReq is the payload for POST /game/move. With Direction set the move is
// a swipe of the tile at (x, y).
type moveReq struct {
	GameID    string `json:"gameId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction,omitempty"`
}

type moveRes struct {
	game.MoveResult
	Progress string `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// applyMove decodes a move request and applies it to g. It writes the
// response for rejected moves and reports whether the move landed.
func (s *Server) applyMove(w http.ResponseWriter, r *http.Request, g *game.Game, req moveReq) (game.MoveResult, bool) {
	addr := puzzle.Address{X: req.X, Y: req.Y}
	var (
		res game.MoveResult
		err error
	)
	if req.Direction != "" {
		dir, perr := puzzle.ParseDirection(req.Direction)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "bad_direction")
			return res, false
		}
		res, err = g.Swipe(addr, dir)
	} else {
		res, err = g.Move(addr)
	}
	locale := s.locale(r)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, game.ErrFinished):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(moveRes{MoveResult: res, Progress: s.opts.Text.Progress(res.Valid, res.Total, locale), Error: "finished"})
	case errors.Is(err, game.ErrRejectedMove):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(moveRes{MoveResult: res, Progress: s.opts.Text.Progress(res.Valid, res.Total, locale), Error: "illegal_move"})
	default:
		log.Error().Err(err).Str("gameId", g.ID).Msg("apply move")
		writeError(w, http.StatusInternalServerError, "move_failed")
	}
	return res, false
}

// handleMove applies a slide, persists progress, and (if solved) updates
// user stats in a best-effort transaction.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	res, ok := s.applyMove(w, r, g, req)
	if !ok {
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordMove(w, r, g, res)

	_ = json.NewEncoder(w).Encode(moveRes{MoveResult: res, Progress: s.opts.Text.Progress(res.Valid, res.Total, s.locale(r))})
}

// recordMove persists counters/history (best effort, non-fatal if it fails).
func (s *Server) recordMove(w http.ResponseWriter, r *http.Request, g *game.Game, res game.MoveResult) {
	ctx := r.Context()
	me := auth.FromContext(ctx)
	ownerClause := `anonymous_id=?`
	var ownerArg any
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = me.ID
	} else {
		ownerArg = s.auth.EnsureAnonID(w, r)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin move tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET moves=? WHERE id=? AND `+ownerClause, res.Moves, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update moves")
	}
	if res.State == game.StateSolved {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(game.StateSolved), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := auth.BumpStats(ctx, tx, me.ID, true); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
		log.Info().Str("gameId", g.ID).Int("moves", res.Moves).Dur("elapsed", g.Elapsed()).Msg("game solved")
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit move tx")
	}
}

// internal/httpserver/ws.go
//
// Live move stream: GET /game/{id}/ws upgrades to a websocket and pushes
//   {"type":"state",...}  once, with the current board,
//   {"type":"move",...}   after every accepted slide (from any client),
//   {"type":"solved",...} when the last statement falls into place.
// The stream is output only; moves are still posted to /game/move.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/internal/game"
	"github.com/robalobadob/foxowl/internal/testimony"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

type wsEvent struct {
	Type      string           `json:"type"`
	Board     *boardRes        `json:"board,omitempty"`
	Move      *game.MoveResult `json:"move,omitempty"`
	Progress  string           `json:"progress,omitempty"`
	Moves     int              `json:"moves,omitempty"`
	ElapsedMs int64            `json:"elapsedMs,omitempty"`
}

// wsListener adapts a session's listener port to a buffered event channel.
type wsListener struct {
	gameID string
	text   *testimony.Table
	locale string
	out    chan wsEvent
}

func (l *wsListener) push(ev wsEvent) {
	select {
	case l.out <- ev:
	default:
		log.Warn().Str("gameId", l.gameID).Str("type", ev.Type).Msg("ws event dropped")
	}
}

func (l *wsListener) TileMoved(res game.MoveResult) {
	l.push(wsEvent{Type: "move", Move: &res, Progress: l.text.Progress(res.Valid, res.Total, l.locale)})
}

func (l *wsListener) Solved(g *game.Game) {
	l.push(wsEvent{Type: "solved", Moves: g.Moves(), ElapsedMs: g.Elapsed().Milliseconds()})
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.opts.ClientOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	locale := s.locale(r)

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	l := &wsListener{gameID: g.ID, text: s.opts.Text, locale: locale, out: make(chan wsEvent, 64)}
	unsubscribe := g.Subscribe(l)
	defer unsubscribe()

	board := s.boardView(g, locale)
	l.push(wsEvent{Type: "state", Board: &board})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
				return
			case ev := <-l.out:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Read until the client goes away; inbound messages are ignored.
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	cancel()
	<-writerDone
}

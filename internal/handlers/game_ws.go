// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/game"
	"github.com/jason-s-yu/tbg/internal/middleware"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// pushMessage is what the server sends over the game channel. The first message on a
// connection is client_full carrying the whole view; later ones are client_update
// carrying a JSON Patch against the previous message.
type pushMessage struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Patch json.RawMessage `json:"patch,omitempty"`
}

// client is one player's push connection. mu serializes diff computation and the write
// so every player receives patches in the order they were computed.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	// closed is set under mu once a newer connection takes the seat.
	closed bool
}

// Hub tracks push connections per game.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]map[uuid.UUID]*client
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[uuid.UUID]*client),
		logger:  logger,
	}
}

// register replaces any existing connection for the same seat.
func (h *Hub) register(gameID, token uuid.UUID, c *client) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	seats, ok := h.clients[gameID]
	if !ok {
		seats = make(map[uuid.UUID]*client)
		h.clients[gameID] = seats
	}
	prev := seats[token]
	seats[token] = c
	return prev
}

// unregister drops c unless a newer connection has taken the seat. It reports whether c was removed.
func (h *Hub) unregister(gameID, token uuid.UUID, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	seats := h.clients[gameID]
	if seats[token] != c {
		return false
	}
	delete(seats, token)
	if len(seats) == 0 {
		delete(h.clients, gameID)
	}
	return true
}

func (h *Hub) snapshot(gameID uuid.UUID) map[uuid.UUID]*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[uuid.UUID]*client, len(h.clients[gameID]))
	for token, c := range h.clients[gameID] {
		out[token] = c
	}
	return out
}

// Connections is the number of live push connections for a game.
func (h *Hub) Connections(gameID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[gameID])
}

// Notify pushes the latest state of g to every connected player.
func (h *Hub) Notify(g *game.Game) {
	for token, c := range h.snapshot(g.ID) {
		h.push(g, token, c)
	}
}

func (h *Hub) push(g *game.Game, token uuid.UUID, c *client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	payload, full, err := g.UpdateFor(token)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"game": g.ID}).Warnf("failed to build update: %v", err)
		return
	}
	if len(payload) == 0 {
		return
	}
	msg := pushMessage{Type: "client_update", Patch: payload}
	if full {
		msg = pushMessage{Type: "client_full", Data: payload}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"game": g.ID}).Errorf("failed to marshal push message: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		h.logger.WithFields(logrus.Fields{"game": g.ID}).Debugf("push write failed: %v", err)
		// The next full view after a reconnect resynchronizes this player.
		g.ResetBaseline(token)
	}
}

// GameWSHandler upgrades the request to the game push channel. The client must present a
// session cookie for the game in the path and use the "game" subprotocol.
func GameWSHandler(logger *logrus.Logger, gs *GameServer, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid game_id format", http.StatusBadRequest)
			return
		}
		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "Client must use the 'game' subprotocol.")
			return
		}
		sess, err := sessionFromRequest(r)
		if err != nil {
			c.Close(InvalidAuthTokenError, "Invalid session.")
			return
		}
		if sess.GameID != gameID {
			c.Close(InvalidGameIDError, "Session does not belong to this game.")
			return
		}
		p, ok := g.PlayerByToken(sess.PlayerToken)
		if !ok {
			c.Close(NotInGameError, "You are not a player in this game.")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, gameID.String(), p.Name)
		cl := &client{conn: c}
		prev := attach(gs.Hub, g, sess.PlayerToken, cl)
		if prev != nil {
			prev.conn.Close(websocket.StatusPolicyViolation, "Replaced by a newer connection.")
		}
		g.SetConnected(sess.PlayerToken, true)
		gs.Hub.Notify(g)

		readErr := readGameMessages(r.Context(), c, logger)

		if gs.Hub.unregister(gameID, sess.PlayerToken, cl) {
			g.SetConnected(sess.PlayerToken, false)
			gs.Hub.Notify(g)
		}
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, gameID.String(), p.Name, readErr)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// attach registers cl for the seat and clears the seat's baseline before any push can
// reach cl, so its first message is always client_full. The replaced client, if any, is
// retired first so an in-flight push to it cannot record a new baseline.
func attach(h *Hub, g *game.Game, token uuid.UUID, cl *client) *client {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	prev := h.register(g.ID, token, cl)
	if prev != nil {
		prev.mu.Lock()
		prev.closed = true
		prev.mu.Unlock()
	}
	g.ResetBaseline(token)
	return prev
}

// readGameMessages keeps the connection open until the client goes away. Game actions
// travel over HTTP; the only message the channel answers is a ping.
func readGameMessages(ctx context.Context, c *websocket.Conn, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("ignoring malformed push channel message: %v", err)
			continue
		}
		if msg.Type == "ping" {
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, []byte(`{"type":"pong"}`))
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

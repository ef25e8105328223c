// internal/handlers/game.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/auth"
	"github.com/jason-s-yu/tbg/internal/game"
)

// Request bodies decode into pointers so an absent key can be told apart from a zero value.

type handRequest struct {
	FieldIndex *int `json:"field_index"`
}

func (r handRequest) complete() bool { return r.FieldIndex != nil }

type cardRequest struct {
	FieldIndex *int       `json:"field_index"`
	CardID     *uuid.UUID `json:"card_id"`
}

func (r cardRequest) complete() bool { return r.FieldIndex != nil && r.CardID != nil }

type createTradeRequest struct {
	CardIDs     *[]uuid.UUID `json:"card_ids"`
	OtherPlayer *string      `json:"other_player"`
	Wants       *[]string    `json:"wants"`
}

func (r createTradeRequest) complete() bool {
	return r.CardIDs != nil && r.OtherPlayer != nil && r.Wants != nil
}

type acceptTradeRequest struct {
	TradeID *uuid.UUID   `json:"trade_id"`
	CardIDs *[]uuid.UUID `json:"card_ids"`
}

func (r acceptTradeRequest) complete() bool { return r.TradeID != nil && r.CardIDs != nil }

type rejectTradeRequest struct {
	TradeID *uuid.UUID `json:"trade_id"`
}

func (r rejectTradeRequest) complete() bool { return r.TradeID != nil }

// requiredFields is implemented by every request body with mandatory keys.
type requiredFields interface {
	complete() bool
}

// decodeRequired reads a request body into req, a pointer, and rejects it when a
// required key is missing.
func decodeRequired(r *http.Request, req requiredFields) error {
	if err := decodeBody(r, req); err != nil || !req.complete() {
		return game.ErrMalformedRequest
	}
	return nil
}

// resolve authenticates the caller and loads the game named in the path. It writes
// the error response itself and reports whether the handler should continue.
func (gs *GameServer) resolve(w http.ResponseWriter, r *http.Request) (*game.Game, auth.Session, bool) {
	sess, err := sessionFromRequest(r)
	if err != nil {
		writeErrorMsg(w, http.StatusUnauthorized, err.Error())
		return nil, sess, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid game id")
		return nil, sess, false
	}
	g, ok := gs.GameStore.GetGame(id)
	if !ok {
		writeErrorMsg(w, http.StatusNotFound, "game not found")
		return nil, sess, false
	}
	if sess.GameID != g.ID {
		writeErrorMsg(w, http.StatusForbidden, "session does not belong to this game")
		return nil, sess, false
	}
	return g, sess, true
}

// action wraps a mutating game operation: resolve, run, respond, then push updates.
func (gs *GameServer) action(op func(r *http.Request, g *game.Game, token uuid.UUID) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, sess, ok := gs.resolve(w, r)
		if !ok {
			return
		}
		msg, err := op(r, g, sess.PlayerToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, msg)
		gs.Hub.Notify(g)
	}
}

// bodyOp decodes the request body before running op. Malformed bodies and missing
// keys surface as validation errors and the game is never touched.
func bodyOp[T requiredFields](op func(g *game.Game, token uuid.UUID, req T) (string, error)) func(*http.Request, *game.Game, uuid.UUID) (string, error) {
	return func(r *http.Request, g *game.Game, token uuid.UUID) (string, error) {
		var req T
		if err := decodeBody(r, &req); err != nil || !req.complete() {
			return "", game.ErrMalformedRequest
		}
		return op(g, token, req)
	}
}

// ViewHandler returns the caller's view of the game.
func ViewHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, sess, ok := gs.resolve(w, r)
		if !ok {
			return
		}
		view, err := g.View(sess.PlayerToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func StartHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(func(_ *http.Request, g *game.Game, token uuid.UUID) (string, error) {
		return g.Start(token)
	})
}

func PlayHandHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(bodyOp(func(g *game.Game, token uuid.UUID, req handRequest) (string, error) {
		return g.PlayFromHand(token, *req.FieldIndex)
	}))
}

func PlayMarketHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(bodyOp(func(g *game.Game, token uuid.UUID, req cardRequest) (string, error) {
		return g.PlayFromMarket(token, *req.FieldIndex, *req.CardID)
	}))
}

func PlayPendingHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(bodyOp(func(g *game.Game, token uuid.UUID, req cardRequest) (string, error) {
		return g.PlayFromPending(token, *req.FieldIndex, *req.CardID)
	}))
}

func DrawMarketHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(func(_ *http.Request, g *game.Game, token uuid.UUID) (string, error) {
		return g.DrawToMarket(token)
	})
}

func DrawHandHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(func(_ *http.Request, g *game.Game, token uuid.UUID) (string, error) {
		return g.DrawToHand(token)
	})
}

func BuyFieldHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(func(_ *http.Request, g *game.Game, token uuid.UUID) (string, error) {
		return g.BuyThirdField(token)
	})
}

// CreateTradeHandler responds with the new trade id alongside the success message.
func CreateTradeHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, sess, ok := gs.resolve(w, r)
		if !ok {
			return
		}
		var req createTradeRequest
		if err := decodeRequired(r, &req); err != nil {
			writeError(w, err)
			return
		}
		id, err := g.CreateTrade(sess.PlayerToken, *req.OtherPlayer, *req.CardIDs, *req.Wants)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  "Trade proposed",
			"trade_id": id,
		})
		gs.Hub.Notify(g)
	}
}

func AcceptTradeHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(bodyOp(func(g *game.Game, token uuid.UUID, req acceptTradeRequest) (string, error) {
		return g.AcceptTrade(token, *req.TradeID, *req.CardIDs)
	}))
}

func RejectTradeHandler(gs *GameServer) http.HandlerFunc {
	return gs.action(bodyOp(func(g *game.Game, token uuid.UUID, req rejectTradeRequest) (string, error) {
		return g.RejectTrade(token, *req.TradeID)
	}))
}

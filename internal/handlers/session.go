// internal/handlers/session.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/auth"
	"github.com/jason-s-yu/tbg/internal/game"
	"github.com/jason-s-yu/tbg/internal/models"
	"github.com/sirupsen/logrus"
)

var errNoSession = errors.New("missing or invalid session")

type createRequest struct {
	Name     string `json:"name"`
	GameType string `json:"game_type"`
}

type loginRequest struct {
	Name string `json:"name"`
	Game string `json:"game"`
}

type joinResponse struct {
	Success    string    `json:"success"`
	Game       uuid.UUID `json:"game"`
	PlayerName string    `json:"player_name"`
}

// CreateGameHandler creates a game and seats the caller as its host.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := decodeBody(r, &req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.GameType == "" {
			req.GameType = string(game.VisibilityPublic)
		}
		visibility, err := game.ParseVisibility(req.GameType)
		if err != nil {
			writeError(w, err)
			return
		}
		if req.Name == "" {
			writeError(w, game.ErrEmptyName)
			return
		}

		g := gs.NewGame(visibility)
		p, err := g.AddPlayer(req.Name)
		if err != nil {
			gs.GameStore.DeleteGame(g.ID)
			writeError(w, err)
			return
		}
		gs.join(w, g, p, "Successfully created game")
	}
}

// LoginHandler seats the caller in an existing game. Without a game id the oldest
// open public game is joined.
func LoginHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var (
			g  *game.Game
			ok bool
		)
		if req.Game == "" {
			g, ok = gs.GameStore.FirstPublic()
			if !ok {
				writeErrorMsg(w, http.StatusNotFound, "no public game is waiting for players")
				return
			}
		} else {
			id, err := uuid.Parse(req.Game)
			if err != nil {
				writeErrorMsg(w, http.StatusBadRequest, "invalid game id")
				return
			}
			if g, ok = gs.GameStore.GetGame(id); !ok {
				writeErrorMsg(w, http.StatusNotFound, "game not found")
				return
			}
		}

		p, err := g.AddPlayer(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		gs.join(w, g, p, "Successfully joined game")
		gs.Hub.Notify(g)
	}
}

// AccessHandler tells a returning client which game and seat its cookie names.
// A finished game cannot be re-entered.
func AccessHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			writeErrorMsg(w, http.StatusUnauthorized, err.Error())
			return
		}
		g, ok := gs.GameStore.GetGame(sess.GameID)
		if !ok {
			writeErrorMsg(w, http.StatusNotFound, "game not found")
			return
		}
		if g.CurrentStatus() == game.StatusCompleted {
			writeError(w, game.ErrGameCompleted)
			return
		}
		p, ok := g.PlayerByToken(sess.PlayerToken)
		if !ok {
			writeError(w, game.ErrPlayerNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"game":        g.ID,
			"player_name": p.Name,
		})
	}
}

// LeaveHandler removes the caller from a game that has not started.
func LeaveHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, sess, ok := gs.resolve(w, r)
		if !ok {
			return
		}
		if err := g.RemovePlayer(sess.PlayerToken); err != nil {
			writeError(w, err)
			return
		}
		gs.GameStore.UnbindToken(sess.PlayerToken)
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   gs.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		if g.PlayerCount() == 0 {
			gs.GameStore.DeleteGame(g.ID)
			gs.logger.WithField("game", g.ID).Info("removed empty game")
		} else {
			gs.Hub.Notify(g)
		}
		writeSuccess(w, "Successfully left game")
	}
}

// join issues the session cookie for a freshly seated player.
func (gs *GameServer) join(w http.ResponseWriter, g *game.Game, p *models.Player, msg string) {
	token, err := auth.CreateJWT(auth.Session{PlayerToken: p.Token, GameID: g.ID})
	if err != nil {
		gs.logger.WithField("game", g.ID).Errorf("failed to sign session: %v", err)
		writeErrorMsg(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	gs.GameStore.BindToken(p.Token, g.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   gs.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	gs.logger.WithFields(logrus.Fields{"game": g.ID, "player": p.Name}).Info("issued session")
	writeJSON(w, http.StatusOK, joinResponse{Success: msg, Game: g.ID, PlayerName: p.Name})
}

// sessionFromRequest verifies the session cookie.
func sessionFromRequest(r *http.Request) (auth.Session, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), auth.CookieName)
	if token == "" {
		return auth.Session{}, errNoSession
	}
	sess, err := auth.AuthenticateJWT(token)
	if err != nil {
		return auth.Session{}, errNoSession
	}
	return sess, nil
}

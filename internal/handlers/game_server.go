// internal/handlers/game_server.go
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/database"
	"github.com/jason-s-yu/tbg/internal/game"
	"github.com/sirupsen/logrus"
)

// GameServer holds every live game plus the push connections attached to them.
type GameServer struct {
	GameStore *game.GameStore
	Hub       *Hub

	logger        *logrus.Logger
	secureCookies bool
}

func NewGameServer(logger *logrus.Logger, secureCookies bool) *GameServer {
	return &GameServer{
		GameStore:     game.NewGameStore(),
		Hub:           NewHub(logger),
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// NewGame creates a game, wires its end-of-game hook and stores it.
func (gs *GameServer) NewGame(visibility game.Visibility) *game.Game {
	g := game.NewGame(visibility)
	g.OnGameEnd = gs.recordResult
	gs.GameStore.AddGame(g)
	gs.logger.WithFields(logrus.Fields{"game": g.ID, "visibility": visibility}).Info("game created")
	return g
}

// recordResult runs with the game lock held, so persistence happens in the background.
func (gs *GameServer) recordResult(gameID uuid.UUID, winner string, scores map[string]int) {
	final := make(map[string]int, len(scores))
	for name, coins := range scores {
		final[name] = coins
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.RecordGameResult(ctx, gameID, winner, final); err != nil {
			gs.logger.WithField("game", gameID).Errorf("failed to record game result: %v", err)
		}
	}()
}

// internal/game/guards.go
package game

import (
	"github.com/jason-s-yu/tbg/internal/models"
)

// guard is one precondition of a player action. Guards run in order and the
// first failure is returned; none of them mutate the game.
type guard func(g *Game, p *models.Player) error

// check runs the guards against p. Assumes lock is held.
func (g *Game) check(p *models.Player, guards ...guard) error {
	for _, gd := range guards {
		if err := gd(g, p); err != nil {
			return err
		}
	}
	return nil
}

func requireRunning(g *Game, _ *models.Player) error {
	if g.Status != StatusRunning {
		return ErrNotRunning
	}
	return nil
}

func requireStage(stages ...Stage) guard {
	return func(g *Game, _ *models.Player) error {
		for _, s := range stages {
			if g.Stage == s {
				return nil
			}
		}
		return ErrInvalidMove
	}
}

func requireTurn(g *Game, p *models.Player) error {
	if g.currentPlayer() != p {
		return ErrNotYourTurn
	}
	return nil
}

func requireNoPending(_ *Game, p *models.Player) error {
	if len(p.Pending) > 0 {
		return ErrPendingCards
	}
	return nil
}

func requireField(idx int) guard {
	return func(_ *Game, p *models.Player) error {
		if idx < 0 || idx >= len(p.Fields) {
			return ErrInvalidField
		}
		if !p.Fields[idx].Enabled {
			return ErrFieldNotBought
		}
		return nil
	}
}

func requireEmptyMarket(g *Game, _ *models.Player) error {
	if g.Market.Len() > 0 {
		return ErrMarketNotEmpty
	}
	return nil
}

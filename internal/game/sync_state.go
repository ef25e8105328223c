// internal/game/sync_state.go
package game

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/models"
	"github.com/wI2L/jsondiff"
)

// GameView is a snapshot of the game from one player's point of view. Only the
// requesting player's hand and pending cards are revealed.
type GameView struct {
	GameID        uuid.UUID                `json:"game_id"`
	GameType      Visibility               `json:"game_type"`
	PlayerInfo    models.PrivatePlayerView `json:"player_info"`
	Players       []models.PlayerView      `json:"players"`
	DeckCount     int                      `json:"deck_count"`
	DiscardCount  int                      `json:"discard_count"`
	Playthrough   int                      `json:"playthrough"`
	CurrentPlayer string                   `json:"current_player"`
	Status        Status                   `json:"status"`
	Stage         string                   `json:"stage"`
	Market        []models.CardView        `json:"market"`
	Trades        []models.TradeView       `json:"trades"`
	Winner        string                   `json:"winner,omitempty"`
}

// View returns the snapshot for the player holding token.
func (g *Game) View(token uuid.UUID) (GameView, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p := g.playerByToken(token)
	if p == nil {
		return GameView{}, ErrPlayerNotFound
	}
	return g.buildView(p), nil
}

// UpdateFor produces the next push message for a player: the full view the first
// time (full is true), afterwards a JSON Patch against the last view sent. An empty
// payload means nothing changed. The new view becomes the player's baseline.
func (g *Game) UpdateFor(token uuid.UUID) (payload []byte, full bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByToken(token)
	if p == nil {
		return nil, false, ErrPlayerNotFound
	}
	current, err := json.Marshal(g.buildView(p))
	if err != nil {
		return nil, false, fmt.Errorf("marshal view: %w", err)
	}
	previous := p.LastUpdate
	p.LastUpdate = current
	if previous == nil {
		return current, true, nil
	}

	patch, err := jsondiff.CompareJSON(previous, current)
	if err != nil {
		return nil, false, fmt.Errorf("diff view: %w", err)
	}
	if len(patch) == 0 {
		return nil, false, nil
	}
	payload, err = json.Marshal(patch)
	if err != nil {
		return nil, false, fmt.Errorf("marshal patch: %w", err)
	}
	return payload, false, nil
}

// ResetBaseline forgets the last view sent to a player so the next update is a full view.
func (g *Game) ResetBaseline(token uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.playerByToken(token); p != nil {
		p.LastUpdate = nil
	}
}

// buildView assumes at least the read lock is held.
func (g *Game) buildView(forPlayer *models.Player) GameView {
	view := GameView{
		GameID:       g.ID,
		GameType:     g.Visibility,
		PlayerInfo:   forPlayer.PrivateView(),
		Players:      make([]models.PlayerView, 0, len(g.Players)),
		DeckCount:    g.Deck.Len(),
		DiscardCount: g.Discard.Len(),
		Playthrough:  g.Playthrough,
		Status:       g.Status,
		Stage:        g.Stage.String(),
		Market:       g.Market.Views(),
		Trades:       make([]models.TradeView, 0, len(g.Trades)),
		Winner:       g.Winner,
	}
	if cur := g.currentPlayer(); cur != nil {
		view.CurrentPlayer = cur.Name
	}
	for _, p := range g.Players {
		view.Players = append(view.Players, p.PublicView())
	}
	for _, t := range g.Trades {
		view.Trades = append(view.Trades, t.View())
	}
	return view
}

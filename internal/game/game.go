// internal/game/game.go
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/cache"
	"github.com/jason-s-yu/tbg/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	MaxPlayers        = 7
	StartingHandSize  = 5
	MarketDrawCount   = 2
	HandDrawCount     = 3
	MaxPlaythroughs   = 2
	ThirdFieldCost    = 3
	thirdFieldIndex   = 2
	minPlayersToStart = 2
)

// Stage is a sub-phase of a player's turn.
type Stage int

const (
	StageFirstCard Stage = iota
	StageSecondCard
	StagePreMarketFlip
	StagePostMarketFlip
	stageCount
)

var stageNames = [...]string{"First Card", "Second Card", "Pre Market Flip", "Post Market Flip"}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "Unknown"
	}
	return stageNames[s]
}

// Status is the lifecycle state of a game.
type Status string

const (
	StatusAwaiting  Status = "Awaiting"
	StatusRunning   Status = "Running"
	StatusCompleted Status = "Completed"
)

// Visibility decides whether a game can be joined without knowing its ID.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility validates a game type sent by a client.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(s), nil
	}
	return "", ErrInvalidVisibility
}

// OnGameEndFunc receives the final coin totals once a game completes.
// It is called with the game lock held and must not call back into the game.
type OnGameEndFunc func(gameID uuid.UUID, winner string, scores map[string]int)

// Game holds the entire state of one session in memory. Every exported method
// is safe for concurrent use; mutations are serialized by mu.
type Game struct {
	ID         uuid.UUID
	Visibility Visibility

	Players []*models.Player
	Deck    models.Deck
	Discard models.Deck
	Market  models.Deck
	Trades  []*models.Trade

	CurrentPlayerIndex int
	Stage              Stage
	Status             Status
	Playthrough        int
	Winner             string

	OnGameEnd OnGameEndFunc

	actionIndex int
	mu          sync.RWMutex
}

// NewGame builds an awaiting game with a freshly built and shuffled deck.
func NewGame(visibility Visibility) *Game {
	id, _ := uuid.NewRandom()
	g := &Game{
		ID:         id,
		Visibility: visibility,
		Players:    []*models.Player{},
		Status:     StatusAwaiting,
	}
	g.Deck.Build()
	g.Deck.Shuffle()
	log.WithFields(log.Fields{"game": g.ID, "cards": g.Deck.Len()}).Debug("built and shuffled deck")
	return g
}

// AddPlayer joins a new player to an awaiting game. The first player becomes host.
func (g *Game) AddPlayer(name string) (*models.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if name == "" {
		return nil, ErrEmptyName
	}
	for _, p := range g.Players {
		if p.Name == name {
			return nil, ErrNameTaken
		}
	}
	if g.Status != StatusAwaiting {
		return nil, ErrGameClosed
	}
	if len(g.Players) >= MaxPlayers {
		return nil, ErrGameFull
	}

	p := models.NewPlayer(name)
	p.IsHost = len(g.Players) == 0
	g.Players = append(g.Players, p)

	log.WithFields(log.Fields{"game": g.ID, "player": name, "host": p.IsHost}).Info("player joined")
	g.logAction(name, "player_join", map[string]interface{}{"host": p.IsHost})
	return p, nil
}

// RemovePlayer takes a player out of a game that has not started yet.
// If the host leaves, the next player in join order becomes host.
func (g *Game) RemovePlayer(token uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByToken(token)
	if p == nil {
		return ErrPlayerNotFound
	}
	if g.Status != StatusAwaiting {
		return ErrAlreadyStarted
	}

	remaining := make([]*models.Player, 0, len(g.Players))
	for _, pl := range g.Players {
		if pl != p {
			remaining = append(remaining, pl)
		}
	}
	g.Players = remaining
	g.dropTradesInvolving(p)
	if p.IsHost && len(g.Players) > 0 {
		g.Players[0].IsHost = true
	}
	p.IsHost = false

	log.WithFields(log.Fields{"game": g.ID, "player": p.Name}).Info("player left")
	g.logAction(p.Name, "player_leave", nil)
	return nil
}

// Start deals the opening hands and begins the first turn. Only the host may start.
func (g *Game) Start(token uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusAwaiting {
		return "", ErrAlreadyStarted
	}
	p := g.playerByToken(token)
	if p == nil || !p.IsHost {
		return "", ErrNotHost
	}
	if len(g.Players) < minPlayersToStart {
		return "", ErrNotEnoughPlayers
	}

	for _, pl := range g.Players {
		cards, _ := g.drawCards(StartingHandSize)
		pl.Hand = append(pl.Hand, cards...)
	}
	g.Status = StatusRunning
	g.Stage = StageFirstCard
	g.CurrentPlayerIndex = 0

	log.WithFields(log.Fields{"game": g.ID, "players": len(g.Players)}).Info("game started")
	g.logAction(p.Name, "game_start", map[string]interface{}{"deckSize": g.Deck.Len()})
	return "Successfully started game", nil
}

// PlayerByToken resolves a session token to a player of this game.
func (g *Game) PlayerByToken(token uuid.UUID) (*models.Player, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p := g.playerByToken(token)
	return p, p != nil
}

// PlayerCount is the number of seated players.
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.Players)
}

// CurrentStatus returns the lifecycle state under the read lock.
func (g *Game) CurrentStatus() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Status
}

// SetConnected records whether the player has a live push connection.
func (g *Game) SetConnected(token uuid.UUID, connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.playerByToken(token); p != nil {
		p.Connected = connected
	}
}

// TotalCards counts every card the game owns across all collections.
func (g *Game) TotalCards() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := g.Deck.Len() + g.Discard.Len() + g.Market.Len()
	for _, p := range g.Players {
		n += p.CardCount()
	}
	return n
}

// playerByToken assumes lock is held.
func (g *Game) playerByToken(token uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.Token == token {
			return p
		}
	}
	return nil
}

// playerByName assumes lock is held.
func (g *Game) playerByName(name string) *models.Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// currentPlayer assumes lock is held.
func (g *Game) currentPlayer() *models.Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// advanceStage moves to the next stage of the current turn. Assumes lock is held.
func (g *Game) advanceStage() {
	g.Stage = (g.Stage + 1) % stageCount
	g.skipEmptyHand()
}

// advanceTurn hands the turn to the next player in join order. Assumes lock is held.
func (g *Game) advanceTurn() {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	g.Stage = StageFirstCard
	g.skipEmptyHand()
	log.WithFields(log.Fields{"game": g.ID, "player": g.currentPlayer().Name}).Debug("turn started")
}

// skipEmptyHand jumps past the planting stages when the current player has nothing to plant.
func (g *Game) skipEmptyHand() {
	if g.Stage > StageSecondCard {
		return
	}
	if p := g.currentPlayer(); p != nil && len(p.Hand) == 0 {
		g.Stage = StagePreMarketFlip
	}
}

// drawCards pops n cards, refilling the deck from the discard pile when it runs out.
// Once the deck has been refilled MaxPlaythroughs times, the next exhaustion ends the
// game and ok is false; cards popped earlier in the call go back on the deck.
// Assumes lock is held.
func (g *Game) drawCards(n int) (cards []*models.Card, ok bool) {
	cards = make([]*models.Card, 0, n)
	for len(cards) < n {
		if card, drawn := g.Deck.Draw(); drawn {
			cards = append(cards, card)
			continue
		}
		if g.Playthrough >= MaxPlaythroughs {
			for i := len(cards) - 1; i >= 0; i-- {
				g.Deck.Push(cards[i])
			}
			g.endGame()
			return nil, false
		}
		g.Playthrough++
		g.Deck.Push(g.Discard.ReclaimAll()...)
		g.Deck.Shuffle()
		log.WithFields(log.Fields{"game": g.ID, "playthrough": g.Playthrough, "cards": g.Deck.Len()}).Info("reshuffled discard pile into deck")
		g.logAction("", "game_reshuffle", map[string]interface{}{"playthrough": g.Playthrough, "deckSize": g.Deck.Len()})
	}
	return cards, true
}

// plant puts card on the player's field, cashing the field in first when the kinds differ.
// Returns the coins earned by the forced cash-in. Assumes lock is held.
func (g *Game) plant(p *models.Player, fieldIdx int, card *models.Card) int {
	field := p.Fields[fieldIdx]
	if field.TryAdd(card) {
		return 0
	}
	earned := g.cashIn(p, field)
	if !field.TryAdd(card) {
		panic("game: planting on an emptied field failed")
	}
	return earned
}

// cashIn converts the field into coins and discards the rest. Assumes lock is held.
func (g *Game) cashIn(p *models.Player, field *models.Field) int {
	kind := field.CardKind()
	coins, discards := field.Harvest()
	p.Treasury = append(p.Treasury, coins...)
	g.Discard.Push(discards...)
	g.logAction(p.Name, "field_cash_in", map[string]interface{}{"kind": kind, "coins": len(coins), "discarded": len(discards)})
	return len(coins)
}

// endGame cashes in every field and picks the winner. Ties go to the earliest joiner.
// Assumes lock is held.
func (g *Game) endGame() {
	if g.Status == StatusCompleted {
		return
	}
	g.Status = StatusCompleted

	scores := make(map[string]int, len(g.Players))
	var winner *models.Player
	for _, p := range g.Players {
		for _, f := range p.Fields {
			if len(f.Cards) > 0 {
				g.cashIn(p, f)
			}
		}
		scores[p.Name] = p.Coins()
		if winner == nil || p.Coins() > winner.Coins() {
			winner = p
		}
	}
	if winner != nil {
		g.Winner = winner.Name
	}
	g.Trades = nil

	log.WithFields(log.Fields{"game": g.ID, "winner": g.Winner, "scores": scores}).Info("game completed")
	g.logAction("", "game_end", map[string]interface{}{"winner": g.Winner, "scores": scores})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, g.Winner, scores)
	}
}

// dropTradesInvolving discards every open trade naming p. Assumes lock is held.
func (g *Game) dropTradesInvolving(p *models.Player) {
	kept := g.Trades[:0]
	for _, t := range g.Trades {
		if !t.Involves(p) {
			kept = append(kept, t)
		}
	}
	g.Trades = kept
}

// logAction sends the action to the historian queue via Redis. Assumes lock is held.
func (g *Game) logAction(actor, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if cache.Rdb == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		Actor:         actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.WithFields(log.Fields{"game": rec.GameID, "action": rec.ActionIndex}).Warnf("failed to publish game action: %v", err)
		}
	}(record)
}

// internal/game/actions.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/models"
	log "github.com/sirupsen/logrus"
)

const gameOverMessage = "Deck exhausted, game over"

// actor resolves the acting player. Assumes lock is held.
func (g *Game) actor(token uuid.UUID) (*models.Player, error) {
	p := g.playerByToken(token)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

func plantedMessage(earned int) string {
	if earned > 0 {
		return fmt.Sprintf("Field cashed in for %d coins and card successfully played", earned)
	}
	return "Card successfully played"
}

// PlayFromHand plants the top card of the player's hand. Allowed in the two planting stages.
func (g *Game) PlayFromHand(token uuid.UUID, fieldIdx int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p,
		requireRunning,
		requireStage(StageFirstCard, StageSecondCard),
		requireTurn,
		requireNoPending,
		requireField(fieldIdx),
	); err != nil {
		return "", err
	}
	card, ok := p.TopOfHand()
	if !ok {
		return "", ErrHandEmpty
	}

	p.Hand = p.Hand[1:]
	earned := g.plant(p, fieldIdx, card)
	g.advanceStage()

	g.logAction(p.Name, "play_hand", map[string]interface{}{"cardId": card.ID, "kind": card.Name(), "field": fieldIdx})
	return plantedMessage(earned), nil
}

// PlayFromMarket plants a market card. It may be repeated and does not advance the stage.
func (g *Game) PlayFromMarket(token uuid.UUID, fieldIdx int, cardID uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p,
		requireRunning,
		requireStage(StagePostMarketFlip),
		requireTurn,
		requireNoPending,
		requireField(fieldIdx),
	); err != nil {
		return "", err
	}
	card, ok := g.Market.Remove(cardID)
	if !ok {
		return "", ErrCardNotFound
	}
	earned := g.plant(p, fieldIdx, card)

	g.logAction(p.Name, "play_market", map[string]interface{}{"cardId": card.ID, "kind": card.Name(), "field": fieldIdx})
	return plantedMessage(earned), nil
}

// PlayFromPending plants a card won by trade. It is not bound to turn or stage so a
// player holding pending cards can always clear them.
func (g *Game) PlayFromPending(token uuid.UUID, fieldIdx int, cardID uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p, requireRunning, requireField(fieldIdx)); err != nil {
		return "", err
	}
	card, ok := p.RemovePending(cardID)
	if !ok {
		return "", ErrCardNotFound
	}
	earned := g.plant(p, fieldIdx, card)

	g.logAction(p.Name, "play_pending", map[string]interface{}{"cardId": card.ID, "kind": card.Name(), "field": fieldIdx})
	return plantedMessage(earned), nil
}

// DrawToMarket flips two cards from the deck into the market.
func (g *Game) DrawToMarket(token uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p,
		requireRunning,
		requireStage(StagePreMarketFlip),
		requireTurn,
		requireNoPending,
	); err != nil {
		return "", err
	}
	cards, ok := g.drawCards(MarketDrawCount)
	if !ok {
		return gameOverMessage, nil
	}
	g.Market.Push(cards...)
	g.advanceStage()

	g.logAction(p.Name, "draw_market", map[string]interface{}{"cards": len(cards), "deckSize": g.Deck.Len()})
	return "Cards drawn into market", nil
}

// DrawToHand ends the turn: the player draws three cards and play passes to the next player.
// The market must have been cleared first.
func (g *Game) DrawToHand(token uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p,
		requireRunning,
		requireStage(StagePostMarketFlip),
		requireTurn,
		requireNoPending,
		requireEmptyMarket,
	); err != nil {
		return "", err
	}
	cards, ok := g.drawCards(HandDrawCount)
	if !ok {
		return gameOverMessage, nil
	}
	p.Hand = append(p.Hand, cards...)
	g.advanceTurn()

	g.logAction(p.Name, "draw_hand", map[string]interface{}{"cards": len(cards), "deckSize": g.Deck.Len()})
	return fmt.Sprintf("Successfully drew %d cards for hand", len(cards)), nil
}

// BuyThirdField enables the player's third field for ThirdFieldCost coins.
// The spent coin cards go to the discard pile.
func (g *Game) BuyThirdField(token uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p, requireRunning); err != nil {
		return "", err
	}
	field := p.Fields[thirdFieldIndex]
	if field.Enabled {
		return "", ErrFieldOwned
	}
	if p.Coins() < ThirdFieldCost {
		return "", ErrInsufficientCoins
	}
	g.Discard.Push(p.Spend(ThirdFieldCost)...)
	field.Enabled = true

	log.WithFields(log.Fields{"game": g.ID, "player": p.Name}).Info("third field bought")
	g.logAction(p.Name, "buy_field", map[string]interface{}{"coins": p.Coins()})
	return "Successfully bought third field", nil
}

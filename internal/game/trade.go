// internal/game/trade.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/models"
	log "github.com/sirupsen/logrus"
)

// CreateTrade opens a trade from the acting player to targetName. The offered cards
// stay where they are until the trade is accepted.
func (g *Game) CreateTrade(token uuid.UUID, targetName string, offeredIDs []uuid.UUID, wants []string) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return uuid.Nil, err
	}
	if err := g.check(p,
		requireRunning,
		requireStage(StagePostMarketFlip),
		requireTurn,
		requireNoPending,
	); err != nil {
		return uuid.Nil, err
	}
	target := g.playerByName(targetName)
	if target == nil {
		return uuid.Nil, ErrTargetNotFound
	}
	if target == p {
		return uuid.Nil, ErrTradeWithSelf
	}
	if len(offeredIDs) == 0 && len(wants) == 0 {
		return uuid.Nil, ErrEmptyTrade
	}
	for _, name := range wants {
		if _, ok := models.LookupKind(name); !ok {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
		}
	}
	offered, err := g.resolveOffer(p, offeredIDs)
	if err != nil {
		return uuid.Nil, err
	}

	trade := models.NewTrade(p, target, offered, wants)
	g.Trades = append(g.Trades, trade)

	log.WithFields(log.Fields{"game": g.ID, "trade": trade.ID, "from": p.Name, "to": target.Name}).Info("trade proposed")
	g.logAction(p.Name, "trade_create", map[string]interface{}{"tradeId": trade.ID, "target": target.Name, "offered": len(offered), "wants": wants})
	return trade.ID, nil
}

// AcceptTrade completes a trade. The acceptor's cards must match the wanted kinds
// exactly; on success both sides' cards move to the other player's pending area.
// Any failure leaves every collection untouched.
func (g *Game) AcceptTrade(token, tradeID uuid.UUID, offeredIDs []uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p, requireRunning, requireStage(StagePostMarketFlip)); err != nil {
		return "", err
	}
	idx, trade := g.tradeByID(tradeID)
	if trade == nil {
		return "", ErrTradeNotFound
	}
	if trade.Target != p {
		return "", ErrNotTradeTarget
	}
	if err := requireNoPending(g, p); err != nil {
		return "", err
	}

	received, err := g.resolveOffer(p, offeredIDs)
	if err != nil {
		return "", err
	}
	for _, tc := range received {
		for _, own := range trade.Offered {
			if own.Card == tc.Card {
				return "", ErrDuplicateCard
			}
		}
	}
	if !trade.Satisfies(received) {
		return "", ErrTradeMismatch
	}
	for _, tc := range trade.Offered {
		if !g.stillAt(trade.Proposer, tc) {
			return "", ErrTradeStale
		}
	}

	for _, tc := range trade.Offered {
		g.takeFrom(trade.Proposer, tc)
		p.Pending = append(p.Pending, tc.Card)
	}
	for _, tc := range received {
		g.takeFrom(p, tc)
		trade.Proposer.Pending = append(trade.Proposer.Pending, tc.Card)
	}
	trade.Received = received
	g.Trades = append(g.Trades[:idx], g.Trades[idx+1:]...)

	log.WithFields(log.Fields{"game": g.ID, "trade": trade.ID, "from": trade.Proposer.Name, "to": p.Name}).Info("trade accepted")
	g.logAction(p.Name, "trade_accept", map[string]interface{}{"tradeId": trade.ID, "given": len(received), "received": len(trade.Offered)})
	return "Successfully traded cards", nil
}

// RejectTrade discards a trade offered to the acting player.
func (g *Game) RejectTrade(token, tradeID uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.actor(token)
	if err != nil {
		return "", err
	}
	if err := g.check(p, requireRunning, requireStage(StagePostMarketFlip)); err != nil {
		return "", err
	}
	idx, trade := g.tradeByID(tradeID)
	if trade == nil {
		return "", ErrTradeNotFound
	}
	if trade.Target != p {
		return "", ErrNotTradeTarget
	}
	g.Trades = append(g.Trades[:idx], g.Trades[idx+1:]...)

	g.logAction(p.Name, "trade_reject", map[string]interface{}{"tradeId": trade.ID})
	return "Trade rejected", nil
}

// tradeByID assumes lock is held.
func (g *Game) tradeByID(id uuid.UUID) (int, *models.Trade) {
	for i, t := range g.Trades {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

// resolveOffer locates each card in the market or in p's hand. Assumes lock is held.
func (g *Game) resolveOffer(p *models.Player, ids []uuid.UUID) ([]models.TradingCard, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	offered := make([]models.TradingCard, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, ErrDuplicateCard
		}
		seen[id] = true
		if card, ok := g.Market.Find(id); ok {
			offered = append(offered, models.TradingCard{Card: card, Origin: models.LocationMarket})
			continue
		}
		if card, ok := p.FindInHand(id); ok {
			offered = append(offered, models.TradingCard{Card: card, Origin: models.LocationHand})
			continue
		}
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return offered, nil
}

// stillAt reports whether tc is still in its recorded origin. Assumes lock is held.
func (g *Game) stillAt(owner *models.Player, tc models.TradingCard) bool {
	var ok bool
	switch tc.Origin {
	case models.LocationMarket:
		_, ok = g.Market.Find(tc.Card.ID)
	case models.LocationHand:
		_, ok = owner.FindInHand(tc.Card.ID)
	}
	return ok
}

// takeFrom removes tc from its origin. Assumes lock is held and stillAt was checked.
func (g *Game) takeFrom(owner *models.Player, tc models.TradingCard) {
	switch tc.Origin {
	case models.LocationMarket:
		g.Market.Remove(tc.Card.ID)
	case models.LocationHand:
		owner.RemoveFromHand(tc.Card.ID)
	}
}

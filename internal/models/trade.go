// internal/models/trade.go
package models

import (
	"sort"

	"github.com/google/uuid"
)

// Location names the collection a traded card is taken from.
type Location string

const (
	LocationHand   Location = "hand"
	LocationMarket Location = "market"
)

// TradingCard is a card offered in a trade together with where it currently sits.
type TradingCard struct {
	Card   *Card
	Origin Location
}

// Trade is an open offer from Proposer to Target: Offered in exchange for cards of the Wants kinds.
// Proposer and Target are shared with the game; a trade never owns players.
type Trade struct {
	ID       uuid.UUID
	Proposer *Player
	Target   *Player
	Offered  []TradingCard
	Wants    []string

	// Received holds the target's cards once the trade has been accepted.
	Received []TradingCard
}

// TradeView is the public form of a trade.
type TradeView struct {
	ID       uuid.UUID `json:"id"`
	Proposer string    `json:"player_1"`
	Target   string    `json:"player_2"`
	Wants    []string  `json:"p1_wants"`
	Has      []string  `json:"p1_has"`
}

func NewTrade(proposer, target *Player, offered []TradingCard, wants []string) *Trade {
	id, _ := uuid.NewRandom()
	return &Trade{
		ID:       id,
		Proposer: proposer,
		Target:   target,
		Offered:  offered,
		Wants:    append([]string(nil), wants...),
	}
}

// Involves reports whether p is either side of the trade.
func (t *Trade) Involves(p *Player) bool {
	return t.Proposer == p || t.Target == p
}

// Satisfies reports whether the kinds of cards equal the wanted kinds as a multiset.
func (t *Trade) Satisfies(cards []TradingCard) bool {
	if len(cards) != len(t.Wants) {
		return false
	}
	got := make([]string, len(cards))
	for i, tc := range cards {
		got[i] = tc.Card.Name()
	}
	want := append([]string(nil), t.Wants...)
	sort.Strings(got)
	sort.Strings(want)
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func (t *Trade) View() TradeView {
	has := make([]string, len(t.Offered))
	for i, tc := range t.Offered {
		has[i] = tc.Card.Name()
	}
	return TradeView{
		ID:       t.ID,
		Proposer: t.Proposer.Name,
		Target:   t.Target.Name,
		Wants:    append([]string{}, t.Wants...),
		Has:      has,
	}
}

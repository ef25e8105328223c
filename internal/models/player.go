package models

import (
	"github.com/google/uuid"
)

// FieldCount is the number of fields each player owns. The last one starts disabled.
const FieldCount = 3

// Player is one participant in a game. Hand[0] is the top of the hand and the next
// card to be planted; drawn cards go to the back.
type Player struct {
	Name      string
	Token     uuid.UUID
	Hand      []*Card
	Fields    [FieldCount]*Field
	Pending   []*Card // won by trade, waiting to be planted
	Treasury  []*Card // cashed-in cards, one per coin
	IsHost    bool
	Connected bool

	// LastUpdate is the JSON view most recently pushed to this player.
	LastUpdate []byte
}

// PlayerView is what every participant may see about a player.
type PlayerView struct {
	Name      string      `json:"name"`
	HandCount int         `json:"hand_count"`
	Fields    []FieldView `json:"fields"`
	Coins     int         `json:"coins"`
	IsHost    bool        `json:"is_host"`
	Connected bool        `json:"connected"`
}

// PrivatePlayerView adds what only the player may see.
type PrivatePlayerView struct {
	PlayerView
	Hand    []CardView `json:"hand"`
	Pending []CardView `json:"pending_cards"`
}

func NewPlayer(name string) *Player {
	token, _ := uuid.NewRandom()
	return &Player{
		Name:   name,
		Token:  token,
		Hand:   []*Card{},
		Fields: [FieldCount]*Field{NewField(true), NewField(true), NewField(false)},
	}
}

// Coins is the player's coin balance.
func (p *Player) Coins() int {
	return len(p.Treasury)
}

// TopOfHand returns the next card to plant without removing it.
func (p *Player) TopOfHand() (*Card, bool) {
	if len(p.Hand) == 0 {
		return nil, false
	}
	return p.Hand[0], true
}

// FindInHand returns the hand card with the given ID.
func (p *Player) FindInHand(id uuid.UUID) (*Card, bool) {
	return findCard(p.Hand, id)
}

// RemoveFromHand takes a card out of the hand by ID.
func (p *Player) RemoveFromHand(id uuid.UUID) (*Card, bool) {
	var card *Card
	var ok bool
	p.Hand, card, ok = removeCard(p.Hand, id)
	return card, ok
}

// FindPending returns the pending card with the given ID.
func (p *Player) FindPending(id uuid.UUID) (*Card, bool) {
	return findCard(p.Pending, id)
}

// RemovePending takes a card out of the pending area by ID.
func (p *Player) RemovePending(id uuid.UUID) (*Card, bool) {
	var card *Card
	var ok bool
	p.Pending, card, ok = removeCard(p.Pending, id)
	return card, ok
}

// Spend removes n coin cards from the treasury and returns them.
func (p *Player) Spend(n int) []*Card {
	if n > len(p.Treasury) {
		n = len(p.Treasury)
	}
	split := len(p.Treasury) - n
	spent := append([]*Card(nil), p.Treasury[split:]...)
	p.Treasury = p.Treasury[:split]
	return spent
}

// CardCount is the number of cards the player holds anywhere.
func (p *Player) CardCount() int {
	n := len(p.Hand) + len(p.Pending) + len(p.Treasury)
	for _, f := range p.Fields {
		n += len(f.Cards)
	}
	return n
}

func (p *Player) PublicView() PlayerView {
	fields := make([]FieldView, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = f.View()
	}
	return PlayerView{
		Name:      p.Name,
		HandCount: len(p.Hand),
		Fields:    fields,
		Coins:     p.Coins(),
		IsHost:    p.IsHost,
		Connected: p.Connected,
	}
}

func (p *Player) PrivateView() PrivatePlayerView {
	return PrivatePlayerView{
		PlayerView: p.PublicView(),
		Hand:       cardViews(p.Hand),
		Pending:    cardViews(p.Pending),
	}
}

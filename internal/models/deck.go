// internal/models/deck.go
package models

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Deck is an ordered pile of cards. The top of the deck is the end of the slice.
// The same type serves as the draw deck, the discard pile and the market.
type Deck struct {
	Cards []*Card
}

// Build appends one card per print-count unit of every catalog kind, each with a fresh ID.
func (d *Deck) Build() {
	for i := range Catalog {
		kind := &Catalog[i]
		for n := 0; n < kind.Count; n++ {
			cid, _ := uuid.NewRandom()
			d.Cards = append(d.Cards, &Card{ID: cid, Kind: kind})
		}
	}
}

// Shuffle randomizes the order of the pile.
func (d *Deck) Shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card. ok is false when the pile is empty.
func (d *Deck) Draw() (card *Card, ok bool) {
	if len(d.Cards) == 0 {
		return nil, false
	}
	idx := len(d.Cards) - 1
	card = d.Cards[idx]
	d.Cards[idx] = nil
	d.Cards = d.Cards[:idx]
	return card, true
}

// Push places cards on top of the pile in order.
func (d *Deck) Push(cards ...*Card) {
	d.Cards = append(d.Cards, cards...)
}

// ReclaimAll empties the pile and hands every card to the caller.
func (d *Deck) ReclaimAll() []*Card {
	cards := d.Cards
	d.Cards = nil
	return cards
}

// Len is the number of cards in the pile.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Find returns the card with the given ID without removing it.
func (d *Deck) Find(id uuid.UUID) (*Card, bool) {
	return findCard(d.Cards, id)
}

// Remove takes the card with the given ID out of the pile, keeping the order of the rest.
func (d *Deck) Remove(id uuid.UUID) (*Card, bool) {
	var card *Card
	var ok bool
	d.Cards, card, ok = removeCard(d.Cards, id)
	return card, ok
}

// Views returns the pile as client-facing cards, bottom first.
func (d *Deck) Views() []CardView {
	return cardViews(d.Cards)
}

func findCard(cards []*Card, id uuid.UUID) (*Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func removeCard(cards []*Card, id uuid.UUID) ([]*Card, *Card, bool) {
	for i, c := range cards {
		if c.ID == id {
			rest := append(cards[:i:i], cards[i+1:]...)
			return rest, c, true
		}
	}
	return cards, nil, false
}

func cardViews(cards []*Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = c.View()
	}
	return views
}

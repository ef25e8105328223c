// internal/models/card.go
package models

import "github.com/google/uuid"

// MaxCards is the open upper bound of a kind's last value band. A threshold equal
// to MaxCards marks a band that can never be reached.
const MaxCards = 24

// EmptyKind is reported by an empty field.
const EmptyKind = "Empty"

// CardKind is a catalog entry. Thresholds are the card counts at which a field of
// this kind is worth 1, 2, 3 and 4 coins.
type CardKind struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Thresholds [4]int `json:"values"`
	Img        string `json:"img"`
}

// Catalog lists every bean kind in the game, cheapest first.
var Catalog = []CardKind{
	{Name: "Cocoa Bean", Count: 4, Thresholds: [4]int{MaxCards, 2, 3, 4}, Img: "assets/beans/cocoa.jpg"},
	{Name: "Garden Bean", Count: 6, Thresholds: [4]int{MaxCards, 2, 3, MaxCards}, Img: "assets/beans/garden.jpg"},
	{Name: "Red Bean", Count: 8, Thresholds: [4]int{2, 3, 4, 5}, Img: "assets/beans/red.jpg"},
	{Name: "Black-eyed Bean", Count: 10, Thresholds: [4]int{2, 4, 5, 6}, Img: "assets/beans/black-eyed.jpg"},
	{Name: "Soy Bean", Count: 12, Thresholds: [4]int{2, 4, 6, 7}, Img: "assets/beans/soy.jpg"},
	{Name: "Green Bean", Count: 14, Thresholds: [4]int{3, 5, 6, 7}, Img: "assets/beans/green.jpg"},
	{Name: "Stink Bean", Count: 16, Thresholds: [4]int{3, 5, 7, 8}, Img: "assets/beans/stink.jpg"},
	{Name: "Chili Bean", Count: 18, Thresholds: [4]int{3, 6, 8, 9}, Img: "assets/beans/chili.jpg"},
	{Name: "Blue Bean", Count: 20, Thresholds: [4]int{4, 5, 8, 10}, Img: "assets/beans/blue.jpg"},
	{Name: "Wax Bean", Count: 22, Thresholds: [4]int{4, 7, 9, 11}, Img: "assets/beans/wax.jpg"},
	{Name: "Coffee Bean", Count: 24, Thresholds: [4]int{4, 7, 10, 12}, Img: "assets/beans/coffee.jpg"},
}

// CatalogTotal returns the number of cards a freshly built deck holds.
func CatalogTotal() int {
	total := 0
	for _, k := range Catalog {
		total += k.Count
	}
	return total
}

// LookupKind finds a catalog entry by name.
func LookupKind(name string) (*CardKind, bool) {
	for i := range Catalog {
		if Catalog[i].Name == name {
			return &Catalog[i], true
		}
	}
	return nil, false
}

// Card is one printed card. The ID is assigned when the deck is built and never changes.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Kind *CardKind `json:"-"`
}

// Name is the card's kind name.
func (c *Card) Name() string {
	return c.Kind.Name
}

// CardView is the client-facing form of a card.
type CardView struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Count  int       `json:"count"`
	Values [4]int    `json:"values"`
	Img    string    `json:"img"`
}

// View returns the card as sent to clients.
func (c *Card) View() CardView {
	return CardView{
		ID:     c.ID,
		Name:   c.Kind.Name,
		Count:  c.Kind.Count,
		Values: c.Kind.Thresholds,
		Img:    c.Kind.Img,
	}
}

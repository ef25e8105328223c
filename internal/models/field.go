// internal/models/field.go
package models

// Field is a pile of same-kind cards in front of a player.
type Field struct {
	Cards   []*Card
	Enabled bool
}

// FieldView is the public summary of a field.
type FieldView struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Enabled bool   `json:"enabled"`
}

// NewField returns an empty field.
func NewField(enabled bool) *Field {
	return &Field{Enabled: enabled}
}

// CardKind is the kind name of the first card, or EmptyKind.
func (f *Field) CardKind() string {
	if len(f.Cards) == 0 {
		return EmptyKind
	}
	return f.Cards[0].Name()
}

// TryAdd appends the card when the field is empty or already holds its kind.
// It reports false and leaves the field untouched otherwise.
func (f *Field) TryAdd(card *Card) bool {
	if len(f.Cards) > 0 && card.Name() != f.CardKind() {
		return false
	}
	f.Cards = append(f.Cards, card)
	return true
}

// TradeValue is the number of coins the field is worth if cashed in now.
// A field of n cards is worth i+1 when n lies in [t_i, t_i+1); the last band ends at MaxCards.
func (f *Field) TradeValue() int {
	if len(f.Cards) == 0 {
		return 0
	}
	n := len(f.Cards)
	t := f.Cards[0].Kind.Thresholds
	for i := range t {
		hi := MaxCards
		if i+1 < len(t) {
			hi = t[i+1]
		}
		if n >= t[i] && n < hi {
			return i + 1
		}
	}
	return 0
}

// Harvest empties the field. The last value cards are returned as coins, the rest as discards.
func (f *Field) Harvest() (coins, discards []*Card) {
	value := f.TradeValue()
	if value > len(f.Cards) {
		value = len(f.Cards)
	}
	split := len(f.Cards) - value
	discards = f.Cards[:split:split]
	coins = f.Cards[split:]
	f.Cards = nil
	return coins, discards
}

// View summarizes the field for clients.
func (f *Field) View() FieldView {
	return FieldView{
		Name:    f.CardKind(),
		Count:   len(f.Cards),
		Enabled: f.Enabled,
	}
}

package deck

import "fmt"

// Card represents an UNO card.
// Wild cards are Black until the player who plays one chooses a colour for it.
type Card struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
}

// NewCard constructs a card
func NewCard(color Color, value Value) Card {
	return Card{Color: color, Value: value}
}

// IsWild reports whether the card is a wild or wild draw four
func (c Card) IsWild() bool {
	return c.Value.IsWild()
}

// IsAction reports whether the card is a skip, reverse or draw two
func (c Card) IsAction() bool {
	return c.Value.IsAction()
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Color, c.Value)
}

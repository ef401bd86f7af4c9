package deck

import (
	"math/rand"
)

const (
	// Size is the number of cards in a full deck
	Size = 108

	numWilds = 4
)

// Deck represents a deck of cards.
// The end of the slice is the top of the deck.
type Deck []Card

// New creates a full, unshuffled deck of cards
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, color := range Colors {
		cards = append(cards, NewCard(color, Zero))
		for v := One; v <= Draw2; v++ {
			cards = append(cards, NewCard(color, v), NewCard(color, v))
		}
	}
	for i := 0; i < numWilds; i++ {
		cards = append(cards, NewCard(Black, Wild), NewCard(Black, WildDraw4))
	}
	return cards
}

// Shuffle shuffles the deck of cards
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw takes the top card of the deck
func (d *Deck) Draw() (Card, bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	card := (*d)[n-1]
	*d = (*d)[:n-1]
	return card, true
}

// PutBottom returns a card to the bottom of the deck
func (d *Deck) PutBottom(c Card) {
	*d = append(Deck{c}, *d...)
}

// Deal deals n cards from the top of the deck, one at a time.
// If the deck holds fewer than n cards, nothing is dealt.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || n > len(*d) {
		return []Card{}
	}
	dealt := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, _ := d.Draw()
		dealt = append(dealt, card)
	}
	return dealt
}

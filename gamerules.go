package uno

import (
	"sort"

	"github.com/minaorangina/uno/deck"
)

const (
	minPlayers = 2
	handSize   = 7
	drawTwo    = 2
	drawFour   = 4
	catchDraw  = 2
)

// IsLegalPlay reports whether card may be played on top of discard.
// Wild cards are always legal; anything else must match colour or value.
func IsLegalPlay(card, discard deck.Card) bool {
	if card.Color == deck.Black {
		return true
	}

	return card.Color == discard.Color || card.Value == discard.Value
}

// effect is what the top card does to the turn order
type effect struct {
	skip    bool
	reverse bool
	draw    int
}

func effectOf(c deck.Card) effect {
	switch c.Value {
	case deck.Skip:
		return effect{skip: true}
	case deck.Reverse:
		return effect{reverse: true}
	case deck.Draw2:
		return effect{skip: true, draw: drawTwo}
	case deck.Wild:
		return effect{skip: true}
	case deck.WildDraw4:
		return effect{skip: true, draw: drawFour}
	}

	return effect{}
}

// step returns how far the turn pointer moves for e
func (e effect) step() int {
	if e.skip {
		return 2
	}
	return 1
}

func nextIndex(current, step, numPlayers int) int {
	if numPlayers == 0 {
		return 0
	}
	return (current + step) % numPlayers
}

// reversedIndex is the position of the player at current once the
// player order has been reversed
func reversedIndex(current, numPlayers int) int {
	if numPlayers == 0 {
		return 0
	}
	return (numPlayers - current - 1) % numPlayers
}

func canDeclareUno(hand []deck.Card) bool {
	if len(hand) != 1 {
		return false
	}

	return hand[0].Value.IsNumber()
}

// rankPlayers orders players by the number of cards they hold, fewest first.
// Players holding the same number of cards keep their seating order.
func rankPlayers(ps Players) Players {
	ranked := make(Players, len(ps))
	copy(ranked, ps)

	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Hand) < len(ranked[j].Hand)
	})

	return ranked
}

func containsDuplicates(indices []int) bool {
	seen := map[int]struct{}{}
	for _, i := range indices {
		if _, ok := seen[i]; ok {
			return true
		}
		seen[i] = struct{}{}
	}

	return false
}

// removeCards takes the cards at indices out of hand, keeping the
// order of the cards that remain. The removed cards are returned in
// the order the indices were given.
func removeCards(hand []deck.Card, indices []int) ([]deck.Card, []deck.Card) {
	removed := make([]deck.Card, len(indices))
	for i, idx := range indices {
		removed[i] = hand[idx]
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	remaining := make([]deck.Card, len(hand))
	copy(remaining, hand)
	for _, idx := range sorted {
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return remaining, removed
}

package uno

import (
	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
	uuid "github.com/satori/go.uuid"
)

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Sender delivers messages to a player in the real world.
// A room never inspects a Sender beyond calling Send on it.
type Sender interface {
	Send(msg protocol.OutboundMessage) error
}

// Caller is whoever sent the command being handled
type Caller struct {
	ID   string
	Name string
	Conn Sender
}

// Player is a member of a room
type Player struct {
	ID             string
	Name           string
	Conn           Sender
	Hand           []deck.Card
	HasDeclaredUno bool
}

// NewPlayer constructs a player with an empty hand
func NewPlayer(c Caller) *Player {
	return &Player{
		ID:   c.ID,
		Name: c.Name,
		Conn: c.Conn,
		Hand: []deck.Card{},
	}
}

// Snapshot returns the public view of the player
func (p *Player) Snapshot() protocol.PlayerSnapshot {
	return protocol.PlayerSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		CardCount:      len(p.Hand),
		HasDeclaredUno: p.HasDeclaredUno,
	}
}

// HandCopy returns a copy of the player's hand, safe to hand to a Sender
func (p *Player) HandCopy() []deck.Card {
	hand := make([]deck.Card, len(p.Hand))
	copy(hand, p.Hand)
	return hand
}

// Players is an ordered set of players. Order is turn order.
type Players []*Player

// Find returns the player with the given ID
func (ps Players) Find(id string) (*Player, bool) {
	i := ps.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return ps[i], true
}

func (ps Players) indexOf(id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Snapshots returns the public view of every player
func (ps Players) Snapshots() []protocol.PlayerSnapshot {
	snapshots := make([]protocol.PlayerSnapshot, 0, len(ps))
	for _, p := range ps {
		snapshots = append(snapshots, p.Snapshot())
	}
	return snapshots
}

func (ps Players) reverse() {
	for i, j := 0, len(ps)-1; i < j; i, j = i+1, j-1 {
		ps[i], ps[j] = ps[j], ps[i]
	}
}

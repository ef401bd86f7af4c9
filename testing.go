package uno

import (
	"sync"

	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
)

// SpySender records every message sent to it
type SpySender struct {
	mu       sync.Mutex
	messages []protocol.OutboundMessage
	Err      error
}

func NewSpySender() *SpySender {
	return &SpySender{}
}

// Send records msg and returns s.Err
func (s *SpySender) Send(msg protocol.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	return s.Err
}

// Received returns every message sent so far
func (s *SpySender) Received() []protocol.OutboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]protocol.OutboundMessage, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// Types returns the type of every message sent so far
func (s *SpySender) Types() []protocol.Cmd {
	types := []protocol.Cmd{}
	for _, m := range s.Received() {
		types = append(types, m.Type)
	}
	return types
}

// Last returns the most recent message of the given type
func (s *SpySender) Last(cmd protocol.Cmd) (protocol.OutboundMessage, bool) {
	msgs := s.Received()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == cmd {
			return msgs[i], true
		}
	}
	return protocol.OutboundMessage{}, false
}

// Reset forgets every message sent so far
func (s *SpySender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
}

// ACaller returns a caller whose messages are recorded by the returned spy
func ACaller(id, name string) (Caller, *SpySender) {
	spy := NewSpySender()
	return Caller{ID: id, Name: name, Conn: spy}, spy
}

// APlayer returns a player holding hand, with a spy for a connection
func APlayer(id, name string, hand ...deck.Card) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Conn: NewSpySender(),
		Hand: append([]deck.Card{}, hand...),
	}
}

// CallerFor returns a caller acting as p
func CallerFor(p *Player) Caller {
	return Caller{ID: p.ID, Name: p.Name, Conn: p.Conn}
}

// SpyFor returns the spy attached to a player built by APlayer
func SpyFor(p *Player) *SpySender {
	spy, _ := p.Conn.(*SpySender)
	return spy
}

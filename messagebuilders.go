package uno

import (
	"fmt"

	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
)

func (r *Room) snapshot() protocol.RoomSnapshot {
	s := protocol.RoomSnapshot{
		Code:          r.code,
		Status:        r.status.String(),
		Players:       r.players.Snapshots(),
		TopCard:       r.topCard(),
		CurrentIndex:  r.currentIndex,
		DeckCount:     len(r.deck),
		AwaitingColor: r.awaitingColor,
		CreatedAt:     r.createdAt,
	}

	if !r.startedAt.IsZero() {
		startedAt := r.startedAt
		s.StartedAt = &startedAt
	}
	if !r.endedAt.IsZero() {
		endedAt := r.endedAt
		s.EndedAt = &endedAt
	}
	if r.winnerOrder != nil {
		s.WinnerOrder = make([]protocol.PlayerSnapshot, len(r.winnerOrder))
		copy(s.WinnerOrder, r.winnerOrder)
	}

	return s
}

func (r *Room) topCard() *deck.Card {
	if r.discard == nil {
		return nil
	}
	c := *r.discard
	return &c
}

func (r *Room) buildPlayerListMessage() protocol.OutboundMessage {
	return protocol.OutboundMessage{
		Type:    protocol.UpdatePlayerList,
		Data:    r.players.Snapshots(),
		Message: fmt.Sprintf("%d players in the room", len(r.players)),
	}
}

func (r *Room) buildRoomMessage() protocol.OutboundMessage {
	return protocol.OutboundMessage{
		Type: protocol.UpdateRoom,
		Data: r.snapshot(),
	}
}

func (r *Room) buildDealMessage(p *Player, room protocol.RoomSnapshot) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		Type:    protocol.DealCards,
		Data:    protocol.Deal{Hand: p.HandCopy(), Room: room},
		Message: "your cards have been dealt",
	}
}

func (r *Room) buildTurnMessage() protocol.OutboundMessage {
	current := r.players[r.currentIndex]

	return protocol.OutboundMessage{
		Type: protocol.NextTurn,
		Data: protocol.TurnState{
			CurrentIndex: r.currentIndex,
			Players:      r.players.Snapshots(),
			TopCard:      r.topCard(),
		},
		Message: fmt.Sprintf("it's %s's turn", current.Name),
	}
}

func (r *Room) buildGameOverMessage() protocol.OutboundMessage {
	order := make([]protocol.PlayerSnapshot, len(r.winnerOrder))
	copy(order, r.winnerOrder)

	msg := "game over"
	if len(order) > 0 {
		msg = fmt.Sprintf("game over, %s wins!", order[0].Name)
	}

	return protocol.OutboundMessage{
		Type:    protocol.GameOver,
		Data:    protocol.Result{WinnerOrder: order},
		Message: msg,
	}
}

func buildGainedMessage(cards []deck.Card) protocol.OutboundMessage {
	gained := make([]deck.Card, len(cards))
	copy(gained, cards)

	return protocol.OutboundMessage{
		Type:    protocol.CardsGained,
		Data:    protocol.Gained{Count: len(gained), Cards: gained},
		Message: fmt.Sprintf("you got %d cards", len(gained)),
	}
}

func buildUnoStatusMessage(p *Player) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		Type: protocol.UnoStatus,
		Data: protocol.Uno{PlayerID: p.ID, Name: p.Name, HasDeclaredUno: p.HasDeclaredUno},
	}
}

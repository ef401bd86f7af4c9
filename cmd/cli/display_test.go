package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/minaorangina/uno/deck"
	utils "github.com/minaorangina/uno/internal"
	"github.com/minaorangina/uno/protocol"
	"github.com/stretchr/testify/assert"
)

func TestSendText(t *testing.T) {
	buffer := &bytes.Buffer{}
	sendText(buffer, "Hello, %s", "human")

	utils.AssertEqual(t, buffer.String(), "Hello, human")
}

func TestBuildHandText(t *testing.T) {
	got := buildHandText([]deck.Card{deck.NewCard(deck.Red, deck.Seven), deck.NewCard(deck.Black, deck.Wild)})

	utils.AssertEqual(t, got, "In your hand, you have 2 cards:\n0 - red 7\n1 - black wild\n")
}

func TestDisplay(t *testing.T) {
	t.Run("shows a new hand", func(t *testing.T) {
		top := deck.NewCard(deck.Blue, deck.Skip)
		data, _ := json.Marshal(protocol.Deal{
			Hand: []deck.Card{deck.NewCard(deck.Green, deck.Two)},
			Room: protocol.RoomSnapshot{TopCard: &top},
		})

		buffer := &bytes.Buffer{}
		display(buffer, incoming{Type: protocol.DealCards, Data: data, Message: "dealt"})

		assert.Contains(t, buffer.String(), "dealt\n")
		assert.Contains(t, buffer.String(), "0 - green 2\n")
		assert.Contains(t, buffer.String(), "The discard is blue skip\n")
	})

	t.Run("shows whose turn it is", func(t *testing.T) {
		data, _ := json.Marshal(protocol.TurnState{
			CurrentIndex: 1,
			Players:      []protocol.PlayerSnapshot{{Name: "Ann", CardCount: 3}, {Name: "Bob", CardCount: 5}},
		})

		buffer := &bytes.Buffer{}
		display(buffer, incoming{Type: protocol.NextTurn, Data: data})

		assert.Contains(t, buffer.String(), "It's player 1's turn\n")
		assert.Contains(t, buffer.String(), "1. Bob (5 cards)\n")
	})

	t.Run("shows errors", func(t *testing.T) {
		buffer := &bytes.Buffer{}
		display(buffer, incoming{Type: protocol.Error, Data: json.RawMessage(`"INVALID_PLAY"`), Message: "card cannot be played"})

		utils.AssertEqual(t, buffer.String(), "card cannot be played\nerror: \"INVALID_PLAY\"\n")
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
)

const (
	handText      = "In your hand, you have %d cards:\n"
	discardText   = "The discard is %s\n"
	turnText      = "It's player %d's turn\n"
	chooseColText = "Choose a colour: color red|yellow|green|blue\n"
)

// incoming is a server message as the cli sees it
type incoming struct {
	Type    protocol.Cmd    `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func sendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func buildHandText(hand []deck.Card) string {
	text := fmt.Sprintf(handText, len(hand))
	for i, card := range hand {
		text += fmt.Sprintf("%d - %s\n", i, card)
	}
	return text
}

func buildTurnText(state protocol.TurnState) string {
	text := fmt.Sprintf(turnText, state.CurrentIndex)
	if state.TopCard != nil {
		text += fmt.Sprintf(discardText, state.TopCard)
	}
	for i, p := range state.Players {
		text += fmt.Sprintf("  %d. %s (%d cards)\n", i, p.Name, p.CardCount)
	}
	return text
}

// display writes msg for a person to read
func display(w io.Writer, msg incoming) {
	if msg.Message != "" {
		sendText(w, "%s\n", msg.Message)
	}

	switch msg.Type {
	case protocol.DealCards:
		var deal protocol.Deal
		if json.Unmarshal(msg.Data, &deal) == nil {
			sendText(w, buildHandText(deal.Hand))
			if deal.Room.TopCard != nil {
				sendText(w, discardText, deal.Room.TopCard)
			}
		}

	case protocol.DrawCard.Response(), protocol.PlayCards.Response():
		var hand protocol.Hand
		if json.Unmarshal(msg.Data, &hand) == nil {
			sendText(w, buildHandText(hand.Hand))
		}

	case protocol.NextTurn:
		var state protocol.TurnState
		if json.Unmarshal(msg.Data, &state) == nil {
			sendText(w, buildTurnText(state))
		}

	case protocol.SelectColor:
		sendText(w, chooseColText)

	case protocol.Error:
		sendText(w, "error: %s\n", msg.Data)
	}
}

package protocol

import (
	"encoding/json"
	"time"

	"github.com/minaorangina/uno/deck"
)

// InboundMessage is a message from a player to the server
type InboundMessage struct {
	Type Cmd             `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OutboundMessage is a message from the server to a player
type OutboundMessage struct {
	Type    Cmd         `json:"type"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// UserInfo identifies a player
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerSnapshot is the public view of a player
type PlayerSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CardCount      int    `json:"cardCount"`
	HasDeclaredUno bool   `json:"hasDeclaredUno"`
}

// RoomSnapshot is the public view of a room
type RoomSnapshot struct {
	Code          string           `json:"code"`
	Status        string           `json:"status"`
	Players       []PlayerSnapshot `json:"players"`
	TopCard       *deck.Card       `json:"topCard"`
	CurrentIndex  int              `json:"currentIndex"`
	DeckCount     int              `json:"deckCount"`
	AwaitingColor bool             `json:"awaitingColor"`
	CreatedAt     time.Time        `json:"createdAt"`
	StartedAt     *time.Time       `json:"startedAt,omitempty"`
	EndedAt       *time.Time       `json:"endedAt,omitempty"`
	WinnerOrder   []PlayerSnapshot `json:"winnerOrder,omitempty"`
}

// Hand is a player's private view of their cards
type Hand struct {
	Hand    []deck.Card `json:"hand"`
	Card    *deck.Card  `json:"card,omitempty"`
	Penalty []deck.Card `json:"penalty,omitempty"`
}

// Deal is sent privately to each player when a game starts
type Deal struct {
	Hand []deck.Card  `json:"hand"`
	Room RoomSnapshot `json:"room"`
}

// Gained tells a player which cards were added to their hand
type Gained struct {
	Count int         `json:"count"`
	Cards []deck.Card `json:"cards"`
}

// TurnState is broadcast whenever the turn changes
type TurnState struct {
	CurrentIndex int              `json:"currentIndex"`
	Players      []PlayerSnapshot `json:"players"`
	TopCard      *deck.Card       `json:"topCard"`
}

// ColorChange announces the colour chosen for a wild card
type ColorChange struct {
	Color deck.Color `json:"color"`
}

// Uno reports a player's Uno status
type Uno struct {
	PlayerID       string `json:"playerId"`
	Name           string `json:"name"`
	HasDeclaredUno bool   `json:"hasDeclaredUno"`
}

// Result is broadcast when a game ends
type Result struct {
	WinnerOrder []PlayerSnapshot `json:"winnerOrder"`
}

// Reply builds the response to a command
func Reply(cmd Cmd, data interface{}, message string) OutboundMessage {
	return OutboundMessage{Type: cmd.Response(), Data: data, Message: message}
}

// ErrorMessage builds an ERROR message with a machine-readable code as data
func ErrorMessage(code, message string) OutboundMessage {
	return OutboundMessage{Type: Error, Data: code, Message: message}
}

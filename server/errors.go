package server

import (
	"errors"

	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/protocol"
	"github.com/minaorangina/uno/store"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{store.ErrRoomNotFound, "ROOM_NOT_FOUND"},
	{store.ErrDuplicateIdentity, "DUPLICATE_IDENTITY"},
	{store.ErrCodesExhausted, "ROOM_CODES_EXHAUSTED"},
	{uno.ErrPlayerNotFound, "PLAYER_NOT_FOUND"},
	{uno.ErrAlreadyInRoom, "ALREADY_IN_ROOM"},
	{uno.ErrRoomAlreadyStarted, "ROOM_ALREADY_STARTED"},
	{uno.ErrRoomAlreadyEnded, "ROOM_ALREADY_ENDED"},
	{uno.ErrGameNotStarted, "GAME_NOT_STARTED"},
	{uno.ErrInsufficientPlayers, "INSUFFICIENT_PLAYERS"},
	{uno.ErrInvalidCardIndex, "INVALID_CARD_INDEX"},
	{uno.ErrInvalidPlay, "INVALID_PLAY"},
	{uno.ErrAwaitingColor, "AWAITING_COLOR"},
	{uno.ErrNotAwaitingColor, "NOT_AWAITING_COLOR"},
	{uno.ErrInvalidColor, "INVALID_COLOR"},
	{uno.ErrInvalidUnoDeclaration, "INVALID_UNO_DECLARATION"},
	{uno.ErrEmptyDeck, "EMPTY_DECK"},
	{protocol.ErrUnknownCommand, "UNKNOWN_COMMAND"},
	{protocol.ErrMalformedEnvelope, "MALFORMED_ENVELOPE"},
	{ErrNotIdentified, "NOT_IDENTIFIED"},
}

// errorCode names err for clients
func errorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "INTERNAL"
}

func errorMessage(err error) protocol.OutboundMessage {
	return protocol.ErrorMessage(errorCode(err), err.Error())
}

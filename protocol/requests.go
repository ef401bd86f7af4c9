package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/minaorangina/uno/deck"
)

var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrMalformedEnvelope = errors.New("malformed message")
)

// Request is a decoded command from a player.
// The set of implementations is closed: one per inbound Cmd.
type Request interface {
	Cmd() Cmd
	isRequest()
}

type CreateRoomReq struct {
	User UserInfo
}

type CreateUserReq struct {
	User UserInfo
}

type JoinRoomReq struct {
	RoomCode string   `json:"roomCode"`
	User     UserInfo `json:"userInfo"`
}

type LeaveRoomReq struct {
	RoomCode string   `json:"roomCode"`
	User     UserInfo `json:"userInfo"`
}

type DissolveRoomReq struct {
	RoomCode string
}

type StartGameReq struct {
	RoomCode string
}

type DrawCardReq struct {
	RoomCode string
}

type PlayCardsReq struct {
	RoomCode   string `json:"roomCode"`
	CardsIndex []int  `json:"cardsIndex"`
}

type SubmitColorReq struct {
	RoomCode string     `json:"roomCode"`
	Color    deck.Color `json:"color"`
}

type DeclareUnoReq struct {
	RoomCode string
}

type NextTurnReq struct {
	RoomCode string
}

func (CreateRoomReq) Cmd() Cmd   { return CreateRoom }
func (CreateUserReq) Cmd() Cmd   { return CreateUser }
func (JoinRoomReq) Cmd() Cmd     { return JoinRoom }
func (LeaveRoomReq) Cmd() Cmd    { return LeaveRoom }
func (DissolveRoomReq) Cmd() Cmd { return DissolveRoom }
func (StartGameReq) Cmd() Cmd    { return StartGame }
func (DrawCardReq) Cmd() Cmd     { return DrawCard }
func (PlayCardsReq) Cmd() Cmd    { return PlayCards }
func (SubmitColorReq) Cmd() Cmd  { return SubmitColor }
func (DeclareUnoReq) Cmd() Cmd   { return DeclareUno }
func (NextTurnReq) Cmd() Cmd     { return NextTurn }

func (CreateRoomReq) isRequest()   {}
func (CreateUserReq) isRequest()   {}
func (JoinRoomReq) isRequest()     {}
func (LeaveRoomReq) isRequest()    {}
func (DissolveRoomReq) isRequest() {}
func (StartGameReq) isRequest()    {}
func (DrawCardReq) isRequest()     {}
func (PlayCardsReq) isRequest()    {}
func (SubmitColorReq) isRequest()  {}
func (DeclareUnoReq) isRequest()   {}
func (NextTurnReq) isRequest()     {}

// Decode parses an inbound envelope into a Request
func Decode(raw []byte) (Request, error) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	switch msg.Type {
	case CreateRoom:
		user, err := decodeUser(msg.Data)
		if err != nil {
			return nil, err
		}
		return CreateRoomReq{User: user}, nil

	case CreateUser:
		user, err := decodeUser(msg.Data)
		if err != nil {
			return nil, err
		}
		return CreateUserReq{User: user}, nil

	case JoinRoom:
		var req JoinRoomReq
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		if err := validateUser(req.User); err != nil {
			return nil, err
		}
		return req, nil

	case LeaveRoom:
		var req LeaveRoomReq
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		if err := validateUser(req.User); err != nil {
			return nil, err
		}
		return req, nil

	case DissolveRoom:
		code, err := decodeRoomCode(msg.Data)
		return DissolveRoomReq{RoomCode: code}, err

	case StartGame:
		code, err := decodeRoomCode(msg.Data)
		return StartGameReq{RoomCode: code}, err

	case DrawCard:
		code, err := decodeRoomCode(msg.Data)
		return DrawCardReq{RoomCode: code}, err

	case DeclareUno:
		code, err := decodeRoomCode(msg.Data)
		return DeclareUnoReq{RoomCode: code}, err

	case NextTurn:
		code, err := decodeRoomCode(msg.Data)
		return NextTurnReq{RoomCode: code}, err

	case PlayCards:
		var req PlayCardsReq
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		return req, nil

	case SubmitColor:
		var req SubmitColorReq
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		return req, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownCommand, msg.Type)
}

func decodeData(data json.RawMessage, v interface{}) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrMalformedEnvelope)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return nil
}

func decodeUser(data json.RawMessage) (UserInfo, error) {
	var user UserInfo
	if err := decodeData(data, &user); err != nil {
		return UserInfo{}, err
	}
	return user, validateUser(user)
}

func validateUser(user UserInfo) error {
	if user.ID == "" {
		return fmt.Errorf("%w: missing user id", ErrMalformedEnvelope)
	}
	return nil
}

// decodeRoomCode accepts either "CODE" or {"roomCode": "CODE"}
func decodeRoomCode(data json.RawMessage) (string, error) {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		return code, nil
	}

	var wrapped struct {
		RoomCode string `json:"roomCode"`
	}
	if err := decodeData(data, &wrapped); err != nil {
		return "", err
	}
	return wrapped.RoomCode, nil
}

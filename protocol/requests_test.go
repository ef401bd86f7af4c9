package protocol

import (
	"encoding/json"
	"testing"

	"github.com/minaorangina/uno/deck"
	utils "github.com/minaorangina/uno/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("user commands", func(t *testing.T) {
		req, err := Decode([]byte(`{"type":"CREATE_ROOM","data":{"id":"u1","name":"Ann"}}`))
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, req, CreateRoomReq{User: UserInfo{ID: "u1", Name: "Ann"}})

		req, err = Decode([]byte(`{"type":"CREATE_USER","data":{"id":"u1","name":"Ann"}}`))
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, req.Cmd(), CreateUser)
	})

	t.Run("join and leave carry a room code and a user", func(t *testing.T) {
		req, err := Decode([]byte(`{"type":"JOIN_ROOM","data":{"roomCode":"ABC123","userInfo":{"id":"u2","name":"Bob"}}}`))
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, req, JoinRoomReq{RoomCode: "ABC123", User: UserInfo{ID: "u2", Name: "Bob"}})

		req, err = Decode([]byte(`{"type":"LEAVE_ROOM","data":{"roomCode":"ABC123","userInfo":{"id":"u2","name":"Bob"}}}`))
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, req, LeaveRoomReq{RoomCode: "ABC123", User: UserInfo{ID: "u2", Name: "Bob"}})
	})

	t.Run("room codes as a bare string or an object", func(t *testing.T) {
		for _, raw := range []string{
			`{"type":"START_GAME","data":"ABC123"}`,
			`{"type":"START_GAME","data":{"roomCode":"ABC123"}}`,
		} {
			req, err := Decode([]byte(raw))
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, req, StartGameReq{RoomCode: "ABC123"})
		}

		cases := map[Cmd]Request{
			DissolveRoom: DissolveRoomReq{RoomCode: "X"},
			DrawCard:     DrawCardReq{RoomCode: "X"},
			DeclareUno:   DeclareUnoReq{RoomCode: "X"},
			NextTurn:     NextTurnReq{RoomCode: "X"},
		}
		for cmd, want := range cases {
			req, err := Decode([]byte(`{"type":"` + string(cmd) + `","data":"X"}`))
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, req, want)
		}
	})

	t.Run("playing cards", func(t *testing.T) {
		req, err := Decode([]byte(`{"type":"OUT_OF_THE_CARD","data":{"roomCode":"R","cardsIndex":[2,0]}}`))
		utils.AssertNoError(t, err)
		utils.AssertDeepEqual(t, req, PlayCardsReq{RoomCode: "R", CardsIndex: []int{2, 0}})
	})

	t.Run("submitting a colour", func(t *testing.T) {
		req, err := Decode([]byte(`{"type":"SUBMIT_COLOR","data":{"roomCode":"R","color":"green"}}`))
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, req, SubmitColorReq{RoomCode: "R", Color: deck.Green})

		_, err = Decode([]byte(`{"type":"SUBMIT_COLOR","data":{"roomCode":"R","color":"purple"}}`))
		utils.AssertErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"SHUFFLE","data":"R"}`))
		utils.AssertErrorIs(t, err, ErrUnknownCommand)
	})

	t.Run("rejects malformed envelopes", func(t *testing.T) {
		for _, raw := range []string{
			`not json`,
			`{"type":"CREATE_USER"}`,
			`{"type":"CREATE_USER","data":{"name":"no id"}}`,
			`{"type":"JOIN_ROOM","data":{"roomCode":"R"}}`,
			`{"type":"OUT_OF_THE_CARD","data":{"cardsIndex":"zero"}}`,
		} {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedEnvelope, raw)
		}
	})
}

func TestCmd(t *testing.T) {
	utils.AssertEqual(t, CreateRoom.Response(), Cmd("RES_CREATE_ROOM"))
	utils.AssertEqual(t, DeclareUno.String(), "UNO")
	assert.Len(t, Commands, 11)
}

func TestOutboundMessageJSON(t *testing.T) {
	card := deck.NewCard(deck.Red, deck.Seven)
	msg := Reply(PlayCards, Hand{Hand: []deck.Card{card}}, "played")

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"RES_OUT_OF_THE_CARD","data":{"hand":[{"color":"red","value":7}]},"message":"played"}`, string(b))

	b, err = json.Marshal(ErrorMessage("ROOM_NOT_FOUND", "no such room"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ERROR","data":"ROOM_NOT_FOUND","message":"no such room"}`, string(b))
}

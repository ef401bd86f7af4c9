package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/deck"
	utils "github.com/minaorangina/uno/internal"
	"github.com/minaorangina/uno/protocol"
	"github.com/minaorangina/uno/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerHealth(t *testing.T) {
	response := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	server, _ := newTestServer(t, nil)
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok","rooms":0}`, response.Body.String())
}

func TestServerFindRoom(t *testing.T) {
	t.Run("returns the room snapshot", func(t *testing.T) {
		creator, _ := uno.ACaller("a", "Ann")
		rooms := store.NewTestRoomStore(map[string]*uno.Room{
			"ABC123": uno.NewRoom("ABC123", creator, nil),
		}, nil, nil)
		server, _ := newTestServer(t, rooms)

		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/rooms/ABC123", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		var got protocol.RoomSnapshot
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		utils.AssertEqual(t, got.Code, "ABC123")
		utils.AssertEqual(t, got.Status, "WAITING")
		assert.Len(t, got.Players, 1)
	})

	t.Run("404s for an unknown room", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/rooms/NOPE00", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("does not match on POST", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodPost, "/rooms/ABC123", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusMethodNotAllowed)
	})
}

func TestServerCheckOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"http://good.example"}
	s := NewServer(store.NewInMemoryRoomStore(nil), store.NewInMemoryUserStore(), cfg, nil)

	request, _ := http.NewRequest(http.MethodGet, "/ws", nil)
	utils.AssertTrue(t, s.checkOrigin(request))

	request.Header.Set("Origin", "http://good.example")
	utils.AssertTrue(t, s.checkOrigin(request))

	request.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkOrigin(request))
}

func TestErrorCode(t *testing.T) {
	utils.AssertEqual(t, errorCode(store.ErrRoomNotFound), "ROOM_NOT_FOUND")
	utils.AssertEqual(t, errorCode(fmt.Errorf("%w: bad json", protocol.ErrMalformedEnvelope)), "MALFORMED_ENVELOPE")
	utils.AssertEqual(t, errorCode(uno.ErrEmptyDeck), "EMPTY_DECK")
	utils.AssertEqual(t, errorCode(errors.New("something else")), "INTERNAL")

	msg := errorMessage(uno.ErrInvalidPlay)
	utils.AssertEqual(t, msg.Type, protocol.Error)
	utils.AssertEqual(t, msg.Data, "INVALID_PLAY")
	utils.AssertEqual(t, msg.Message, uno.ErrInvalidPlay.Error())
}

func TestWebsocketErrors(t *testing.T) {
	_, srv := newTestServer(t, nil)
	conn := dial(t, srv)

	t.Run("unknown commands are reported and the connection stays open", func(t *testing.T) {
		send(t, conn, "SHUFFLE", "ABC123")

		msg := readMessage(t, conn)
		utils.AssertEqual(t, msg.Type, protocol.Error)
		utils.AssertEqual(t, string(msg.Data), `"UNKNOWN_COMMAND"`)
	})

	t.Run("undecodable messages are reported", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

		msg := readMessage(t, conn)
		utils.AssertEqual(t, msg.Type, protocol.Error)
		utils.AssertEqual(t, string(msg.Data), `"MALFORMED_ENVELOPE"`)
		assert.NotEmpty(t, msg.Message)
	})

	t.Run("room commands need an identity", func(t *testing.T) {
		creator, _ := uno.ACaller("a", "Ann")
		rooms := store.NewTestRoomStore(map[string]*uno.Room{
			"ABC123": uno.NewRoom("ABC123", creator, nil),
		}, nil, nil)
		_, srv := newTestServer(t, rooms)
		conn := dial(t, srv)

		send(t, conn, protocol.StartGame, "ABC123")

		msg := readMessage(t, conn)
		utils.AssertEqual(t, string(msg.Data), `"NOT_IDENTIFIED"`)
	})

	t.Run("unknown rooms are reported", func(t *testing.T) {
		send(t, conn, protocol.JoinRoom, map[string]interface{}{
			"roomCode": "NOPE00",
			"userInfo": protocol.UserInfo{ID: "u1", Name: "Ann"},
		})

		msg := readMessage(t, conn)
		utils.AssertEqual(t, string(msg.Data), `"ROOM_NOT_FOUND"`)
	})

	t.Run("a rejected join leaves the connection unidentified", func(t *testing.T) {
		a, b := uno.APlayer("a", "Ann"), uno.APlayer("b", "Bob")
		rooms := store.NewTestRoomStore(map[string]*uno.Room{
			"ABC123": uno.ExistingRoom(uno.RoomOpts{Code: "ABC123", Status: uno.Gaming, Players: uno.Players{a, b}}),
		}, nil, nil)
		_, srv := newTestServer(t, rooms)
		conn := dial(t, srv)

		send(t, conn, protocol.JoinRoom, map[string]interface{}{
			"roomCode": "ABC123",
			"userInfo": protocol.UserInfo{ID: "u1", Name: "Cat"},
		})
		msg := readMessage(t, conn)
		utils.AssertEqual(t, string(msg.Data), `"ROOM_ALREADY_STARTED"`)

		send(t, conn, protocol.StartGame, "ABC123")
		msg = readMessage(t, conn)
		utils.AssertEqual(t, string(msg.Data), `"NOT_IDENTIFIED"`)
	})

	t.Run("dissolving an unknown room still succeeds", func(t *testing.T) {
		send(t, conn, protocol.DissolveRoom, "NOPE00")

		msg := readMessage(t, conn)
		utils.AssertEqual(t, msg.Type, protocol.DissolveRoom.Response())
	})
}

func TestWebsocketCreateUser(t *testing.T) {
	_, srv := newTestServer(t, nil)
	conn := dial(t, srv)
	user := protocol.UserInfo{ID: "u1", Name: "Ann"}

	send(t, conn, protocol.CreateUser, user)
	msg := readMessage(t, conn)
	utils.AssertEqual(t, msg.Type, protocol.CreateUser.Response())
	var got protocol.UserInfo
	decodeData(t, msg, &got)
	utils.AssertEqual(t, got, user)

	send(t, conn, protocol.CreateUser, user)
	msg = readMessage(t, conn)
	utils.AssertEqual(t, msg.Type, protocol.Error)
	utils.AssertEqual(t, string(msg.Data), `"DUPLICATE_IDENTITY"`)
}

func TestWebsocketGame(t *testing.T) {
	rooms := store.NewTestRoomStore(nil, func() string { return "GAME01" }, nil)
	_, srv := newTestServer(t, rooms)

	ann := dial(t, srv)
	bob := dial(t, srv)

	t.Log("Given Ann creates a room")
	send(t, ann, protocol.CreateRoom, protocol.UserInfo{ID: "a", Name: "Ann"})
	created := readMessage(t, ann)
	utils.AssertEqual(t, created.Type, protocol.CreateRoom.Response())
	var snapshot protocol.RoomSnapshot
	decodeData(t, created, &snapshot)
	utils.AssertEqual(t, snapshot.Code, "GAME01")
	readUntil(t, ann, protocol.UpdatePlayerList)

	t.Log("And Bob joins it")
	send(t, bob, protocol.JoinRoom, map[string]interface{}{
		"roomCode": "GAME01",
		"userInfo": protocol.UserInfo{ID: "b", Name: "Bob"},
	})
	joined := readUntil(t, bob, protocol.JoinRoom.Response())
	decodeData(t, joined, &snapshot)
	assert.Len(t, snapshot.Players, 2)

	list := readUntil(t, ann, protocol.UpdatePlayerList)
	var players []protocol.PlayerSnapshot
	decodeData(t, list, &players)
	assert.Len(t, players, 2)

	t.Log("When Ann starts the game")
	send(t, ann, protocol.StartGame, "GAME01")

	t.Log("Then both players are dealt seven cards")
	for _, conn := range []*websocket.Conn{ann, bob} {
		dealt := readUntil(t, conn, protocol.DealCards)
		var deal struct {
			Hand []deck.Card          `json:"hand"`
			Room protocol.RoomSnapshot `json:"room"`
		}
		decodeData(t, dealt, &deal)
		assert.Len(t, deal.Hand, 7)
		utils.AssertEqual(t, deal.Room.Status, "GAMING")
		require.NotNil(t, deal.Room.TopCard)

		readUntil(t, conn, protocol.GameStarted)
	}
	readUntil(t, ann, protocol.StartGame.Response())

	t.Log("When Bob draws a card")
	send(t, bob, protocol.DrawCard, map[string]string{"roomCode": "GAME01"})

	t.Log("Then only Bob is told")
	drawn := readUntil(t, bob, protocol.DrawCard.Response())
	var hand protocol.Hand
	decodeData(t, drawn, &hand)
	assert.Len(t, hand.Hand, 8)
	require.NotNil(t, hand.Card)
	readUntil(t, bob, protocol.CardsGained)

	t.Log("When Bob declares uno with eight cards")
	send(t, bob, protocol.DeclareUno, "GAME01")

	t.Log("Then he is told off")
	msg := readMessage(t, bob)
	utils.AssertEqual(t, msg.Type, protocol.Error)
	utils.AssertEqual(t, string(msg.Data), `"INVALID_UNO_DECLARATION"`)

	t.Log("When Ann passes the turn")
	send(t, ann, protocol.NextTurn, "GAME01")

	t.Log("Then everyone sees it is Bob's turn")
	for _, conn := range []*websocket.Conn{ann, bob} {
		turn := readUntil(t, conn, protocol.NextTurn)
		var state protocol.TurnState
		decodeData(t, turn, &state)
		utils.AssertEqual(t, state.CurrentIndex, 1)
	}

	t.Log("When Bob leaves")
	send(t, bob, protocol.LeaveRoom, map[string]interface{}{
		"roomCode": "GAME01",
		"userInfo": protocol.UserInfo{ID: "b", Name: "Bob"},
	})

	t.Log("Then the game is over and Bob is acknowledged")
	readUntil(t, bob, protocol.LeaveRoom.Response())
	over := readUntil(t, ann, protocol.GameOver)
	var result protocol.Result
	decodeData(t, over, &result)
	require.Len(t, result.WinnerOrder, 1)
	utils.AssertEqual(t, result.WinnerOrder[0].ID, "a")

	room, err := rooms.Get("GAME01")
	require.NoError(t, err)
	utils.AssertEqual(t, room.Status(), uno.Ended)

	t.Log("When Ann dissolves the room")
	send(t, ann, protocol.DissolveRoom, "GAME01")
	readUntil(t, ann, protocol.RoomDissolved)
	readUntil(t, ann, protocol.DissolveRoom.Response())

	_, err = rooms.Get("GAME01")
	utils.AssertErrorIs(t, err, store.ErrRoomNotFound)
}

func TestClientSend(t *testing.T) {
	t.Run("refuses when the buffer is full", func(t *testing.T) {
		c := newClient("c1", nil, 1, nil)

		utils.AssertNoError(t, c.Send(protocol.OutboundMessage{Type: protocol.Welcome}))
		utils.AssertErrorIs(t, c.Send(protocol.OutboundMessage{Type: protocol.Welcome}), ErrSendBufferFull)
	})

	t.Run("refuses once closed", func(t *testing.T) {
		c := newClient("c1", nil, 1, nil)
		c.close()
		c.close()

		utils.AssertErrorIs(t, c.Send(protocol.OutboundMessage{Type: protocol.Welcome}), ErrConnectionClosed)
	})

	t.Run("has no caller until identified", func(t *testing.T) {
		c := newClient("c1", nil, 1, nil)

		_, err := c.caller()
		utils.AssertErrorIs(t, err, ErrNotIdentified)

		c.identify(protocol.UserInfo{ID: "u1", Name: "Ann"})
		caller, err := c.caller()
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, caller.ID, "u1")
		utils.AssertEqual(t, caller.Conn, uno.Sender(c))
	})
}

package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/uno/config"
	utils "github.com/minaorangina/uno/internal"
	"github.com/minaorangina/uno/protocol"
	"github.com/minaorangina/uno/store"
	"go.uber.org/zap"
)

// received is an outbound message as a client sees it
type received struct {
	Type    protocol.Cmd    `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func testConfig() config.Config {
	return config.Config{
		Host:           "127.0.0.1",
		Port:           3000,
		AllowedOrigins: []string{"*"},
		MaxMessageSize: 4096,
		SendBuffer:     64,
	}
}

func newTestServer(t *testing.T, rooms *store.InMemoryRoomStore) (*Server, *httptest.Server) {
	t.Helper()

	if rooms == nil {
		rooms = store.NewInMemoryRoomStore(zap.NewNop())
	}
	// connections outlive the test that opened them, so nothing may log to t
	s := NewServer(rooms, store.NewInMemoryUserStore(), testConfig(), zap.NewNop())
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	return s, srv
}

// dial connects to the server and reads the welcome message
func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	utils.AssertNoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := readMessage(t, conn)
	utils.AssertEqual(t, welcome.Type, protocol.Welcome)
	var id string
	decodeData(t, welcome, &id)
	utils.AssertEqual(t, len(id), 36)

	return conn
}

func send(t *testing.T, conn *websocket.Conn, cmd protocol.Cmd, data interface{}) {
	t.Helper()

	raw, err := json.Marshal(data)
	utils.AssertNoError(t, err)

	msg := protocol.InboundMessage{Type: cmd, Data: raw}
	utils.AssertNoError(t, conn.WriteJSON(msg))
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg received
	_, data, err := conn.ReadMessage()
	utils.AssertNoError(t, err)
	utils.AssertNoError(t, json.Unmarshal(data, &msg))

	return msg
}

// readUntil reads messages until one of the given type arrives
func readUntil(t *testing.T, conn *websocket.Conn, cmd protocol.Cmd) received {
	t.Helper()

	for i := 0; i < 50; i++ {
		msg := readMessage(t, conn)
		if msg.Type == cmd {
			return msg
		}
	}

	t.Fatalf("never received %s", cmd)
	return received{}
}

func decodeData(t *testing.T, msg received, v interface{}) {
	t.Helper()
	utils.AssertNoError(t, json.Unmarshal(msg.Data, v))
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var (
	ErrNotIdentified    = errors.New("connection has not identified itself")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// client is one websocket connection. It is the uno.Sender rooms
// use to reach the player behind it.
type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger

	mu   sync.Mutex
	user *protocol.UserInfo
}

func newClient(id string, conn *websocket.Conn, buffer int, logger *zap.Logger) *client {
	return &client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send queues msg for delivery without waiting for the socket
func (c *client) Send(msg protocol.OutboundMessage) error {
	bytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- bytes:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *client) sendError(err error) {
	if sendErr := c.Send(errorMessage(err)); sendErr != nil {
		c.logger.Warn("failed to send error", zap.Error(sendErr))
	}
}

// identify remembers who is using the connection
func (c *client) identify(user protocol.UserInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = &user
}

// caller is the player using the connection
func (c *client) caller() (uno.Caller, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return uno.Caller{}, ErrNotIdentified
	}

	return c.callerAs(*c.user), nil
}

func (c *client) callerAs(user protocol.UserInfo) uno.Caller {
	return uno.Caller{ID: user.ID, Name: user.Name, Conn: c}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// readPump hands every message from the connection to handle
// until the connection fails or closes
func (c *client) readPump(maxMessageSize int64, handle func(*client, []byte)) {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("websocket error", zap.Error(err))
			}
			return
		}

		handle(c, data)
	}
}

// writePump writes queued messages to the connection, one per frame
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
)

const usage = `commands:
  user                 register yourself
  create               create a room
  join CODE            join a room
  leave                leave the room
  dissolve             dissolve the room
  start                start the game
  draw                 draw a card
  play I [I...]        play the cards at those positions in your hand
  color COLOUR         choose a colour for a wild
  uno                  declare uno
  next                 pass the turn
  quit`

type session struct {
	user protocol.UserInfo
	conn *websocket.Conn

	mu   sync.Mutex
	room string
}

func (s *session) setRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = code
}

func (s *session) roomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func main() {
	addr := flag.String("addr", "localhost:3000", "server address")
	name := flag.String("name", "player", "your name")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Could not connect to %s: %v", u.String(), err)
	}
	defer conn.Close()

	s := &session{
		user: protocol.UserInfo{ID: uno.NewID(), Name: *name},
		conn: conn,
	}

	go s.listen()

	fmt.Println(usage)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return
		}
		if err := s.command(fields[0], fields[1:]); err != nil {
			fmt.Println(err)
		}
	}
}

func (s *session) listen() {
	for {
		var msg incoming
		if err := s.conn.ReadJSON(&msg); err != nil {
			log.Fatalf("Connection lost: %v", err)
		}

		if msg.Type == protocol.CreateRoom.Response() || msg.Type == protocol.JoinRoom.Response() {
			var room protocol.RoomSnapshot
			if err := json.Unmarshal(msg.Data, &room); err == nil {
				s.setRoom(room.Code)
			}
		}

		display(os.Stdout, msg)
	}
}

func (s *session) command(name string, args []string) error {
	room := s.roomCode()

	switch name {
	case "user":
		return s.send(protocol.CreateUser, s.user)
	case "create":
		return s.send(protocol.CreateRoom, s.user)
	case "join":
		if len(args) != 1 {
			return fmt.Errorf("join needs a room code")
		}
		s.setRoom(args[0])
		return s.send(protocol.JoinRoom, protocol.JoinRoomReq{RoomCode: args[0], User: s.user})
	case "leave":
		return s.send(protocol.LeaveRoom, protocol.LeaveRoomReq{RoomCode: room, User: s.user})
	case "dissolve":
		return s.send(protocol.DissolveRoom, room)
	case "start":
		return s.send(protocol.StartGame, room)
	case "draw":
		return s.send(protocol.DrawCard, room)
	case "uno":
		return s.send(protocol.DeclareUno, room)
	case "next":
		return s.send(protocol.NextTurn, room)
	case "play":
		indices := []int{}
		for _, a := range args {
			i, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("%q is not a card position", a)
			}
			indices = append(indices, i)
		}
		return s.send(protocol.PlayCards, protocol.PlayCardsReq{RoomCode: room, CardsIndex: indices})
	case "color":
		if len(args) != 1 {
			return fmt.Errorf("color needs a colour")
		}
		color, err := deck.ParseColor(args[0])
		if err != nil {
			return err
		}
		return s.send(protocol.SubmitColor, protocol.SubmitColorReq{RoomCode: room, Color: color})
	}

	return fmt.Errorf("unknown command %q\n%s", name, usage)
}

func (s *session) send(cmd protocol.Cmd, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.conn.WriteJSON(protocol.InboundMessage{Type: cmd, Data: raw})
}

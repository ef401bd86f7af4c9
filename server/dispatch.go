package server

import (
	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/protocol"
	"go.uber.org/zap"
)

// dispatch decodes one message from a connection and carries it out.
// Failures are reported to that connection only.
func (s *Server) dispatch(c *client, data []byte) {
	req, err := protocol.Decode(data)
	if err != nil {
		c.logger.Debug("bad message", zap.Error(err))
		c.sendError(err)
		return
	}

	if err := s.handle(c, req); err != nil {
		c.logger.Debug("command failed", zap.Stringer("type", req.Cmd()), zap.Error(err))
		c.sendError(err)
	}
}

func (s *Server) handle(c *client, req protocol.Request) error {
	switch req := req.(type) {
	case protocol.CreateUserReq:
		user, err := s.users.Create(req.User)
		if err != nil {
			return err
		}
		c.identify(user)
		return c.Send(protocol.Reply(protocol.CreateUser, user, "user created"))

	case protocol.CreateRoomReq:
		c.identify(req.User)
		caller := c.callerAs(req.User)
		room, err := s.rooms.Create(caller)
		if err != nil {
			return err
		}
		room.Open(caller)
		return nil

	case protocol.JoinRoomReq:
		room, err := s.rooms.Get(req.RoomCode)
		if err != nil {
			return err
		}
		if err := room.Join(c.callerAs(req.User)); err != nil {
			return err
		}
		c.identify(req.User)
		return nil

	case protocol.LeaveRoomReq:
		room, err := s.rooms.Get(req.RoomCode)
		if err != nil {
			return err
		}
		room.Leave(c.callerAs(req.User))
		return nil

	case protocol.DissolveRoomReq:
		if !s.rooms.Dissolve(req.RoomCode) {
			c.logger.Debug("dissolved an unknown room", zap.String("room", req.RoomCode))
		}
		return c.Send(protocol.Reply(protocol.DissolveRoom, req.RoomCode, "room dissolved"))

	case protocol.StartGameReq:
		return s.withRoom(c, req.RoomCode, (*uno.Room).Start)

	case protocol.DrawCardReq:
		return s.withRoom(c, req.RoomCode, (*uno.Room).Draw)

	case protocol.DeclareUnoReq:
		return s.withRoom(c, req.RoomCode, (*uno.Room).DeclareUno)

	case protocol.NextTurnReq:
		return s.withRoom(c, req.RoomCode, (*uno.Room).NextTurn)

	case protocol.PlayCardsReq:
		return s.withRoom(c, req.RoomCode, func(r *uno.Room, caller uno.Caller) error {
			return r.Play(caller, req.CardsIndex)
		})

	case protocol.SubmitColorReq:
		return s.withRoom(c, req.RoomCode, func(r *uno.Room, caller uno.Caller) error {
			return r.SubmitColor(caller, req.Color)
		})
	}

	return protocol.ErrUnknownCommand
}

// withRoom runs fn against the room with the given code, as the
// player using the connection
func (s *Server) withRoom(c *client, code string, fn func(*uno.Room, uno.Caller) error) error {
	room, err := s.rooms.Get(code)
	if err != nil {
		return err
	}

	caller, err := c.caller()
	if err != nil {
		return err
	}

	return fn(room, caller)
}

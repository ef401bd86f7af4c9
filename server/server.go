package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/uno"
	"github.com/minaorangina/uno/config"
	"github.com/minaorangina/uno/protocol"
	"github.com/minaorangina/uno/store"
	"go.uber.org/zap"
)

const welcomeMessage = "welcome to uno"

// Server accepts player connections and routes their commands to rooms
type Server struct {
	rooms    store.RoomStore
	users    store.UserStore
	cfg      config.Config
	logger   *zap.Logger
	upgrader websocket.Upgrader
	http.Handler
}

// NewServer creates a new Server
func NewServer(rooms store.RoomStore, users store.UserStore, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		rooms:  rooms,
		users:  users,
		cfg:    cfg,
		logger: logger,
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	router := chi.NewRouter()
	router.Get("/healthz", s.HandleHealth)
	router.Get("/ws", s.HandleWS)
	router.Get("/rooms/{code}", s.HandleFindRoom)

	stdLog := zap.NewStdLog(logger)
	var handler http.Handler = router
	handler = handlers.CORS(handlers.AllowedOrigins(cfg.AllowedOrigins))(handler)
	handler = handlers.CombinedLoggingHandler(stdLog.Writer(), handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(handler)
	s.Handler = handler

	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

type healthRes struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

// HandleHealth reports that the server is up
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthRes{Status: "ok", Rooms: s.rooms.Len()})
}

// HandleFindRoom returns the public view of a room
func (s *Server) HandleFindRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := s.rooms.Get(code)
	if errors.Is(err, store.ErrRoomNotFound) {
		http.Error(w, "unknown room code '"+code+"'", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("finding room", zap.String("room", code), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, room.Snapshot())
}

// HandleWS upgrades the request to a websocket and serves it until it closes
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	id := uno.NewID()
	c := newClient(id, conn, s.cfg.SendBuffer, s.logger.With(zap.String("conn", id)))
	go c.writePump()

	c.logger.Debug("connected", zap.String("remote", r.RemoteAddr))
	_ = c.Send(protocol.OutboundMessage{Type: protocol.Welcome, Data: id, Message: welcomeMessage})

	c.readPump(s.cfg.MaxMessageSize, s.dispatch)
	c.logger.Debug("disconnected")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

package uno

import (
	"errors"
	"sync"
	"time"

	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
	"go.uber.org/zap"
)

var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrAlreadyInRoom         = errors.New("player already in room")
	ErrRoomAlreadyStarted    = errors.New("game has already started")
	ErrRoomAlreadyEnded      = errors.New("game has already ended")
	ErrGameNotStarted        = errors.New("game has not started")
	ErrInsufficientPlayers   = errors.New("not enough players to start")
	ErrInvalidCardIndex      = errors.New("invalid card index")
	ErrInvalidPlay           = errors.New("card cannot be played")
	ErrAwaitingColor         = errors.New("waiting for a colour to be chosen")
	ErrNotAwaitingColor      = errors.New("no colour to choose")
	ErrInvalidColor          = errors.New("invalid colour")
	ErrInvalidUnoDeclaration = errors.New("cannot declare uno")
	ErrEmptyDeck             = errors.New("deck is empty")
)

// Status is the stage a room is in. It only ever moves forward.
type Status int

const (
	Waiting Status = iota
	Gaming
	Ended
)

var statusNames = []string{"WAITING", "GAMING", "END"}

func (s Status) String() string {
	if s < Waiting || s > Ended {
		return "UNKNOWN"
	}
	return statusNames[s]
}

// Room is a single game of UNO and the players in it.
// All methods are safe for concurrent use; commands for one room
// are applied one at a time, in the order they acquire the room.
type Room struct {
	mu sync.Mutex

	code          string
	status        Status
	players       Players
	deck          deck.Deck
	discard       *deck.Card
	currentIndex  int
	awaitingColor bool
	pending       effect
	createdAt     time.Time
	startedAt     time.Time
	endedAt       time.Time
	winnerOrder   []protocol.PlayerSnapshot

	newDeck func() deck.Deck
	now     func() time.Time
	logger  *zap.Logger
}

// RoomOpts configures a room in an arbitrary state
type RoomOpts struct {
	Code          string
	Status        Status
	Players       Players
	Deck          deck.Deck
	Discard       *deck.Card
	CurrentIndex  int
	AwaitingColor bool
	CreatedAt     time.Time
	NewDeck       func() deck.Deck
	Now           func() time.Time
	Logger        *zap.Logger

	pending effect
}

// NewRoom constructs a waiting room whose only member is its creator
func NewRoom(code string, creator Caller, logger *zap.Logger) *Room {
	return ExistingRoom(RoomOpts{
		Code:    code,
		Players: Players{NewPlayer(creator)},
		Logger:  logger,
	})
}

// ExistingRoom constructs a room from opts, filling in defaults
func ExistingRoom(opts RoomOpts) *Room {
	r := &Room{
		code:          opts.Code,
		status:        opts.Status,
		players:       opts.Players,
		deck:          opts.Deck,
		currentIndex:  opts.CurrentIndex,
		awaitingColor: opts.AwaitingColor,
		pending:       opts.pending,
		createdAt:     opts.CreatedAt,
		newDeck:       opts.NewDeck,
		now:           opts.Now,
		logger:        opts.Logger,
	}

	if opts.Discard != nil {
		c := *opts.Discard
		r.discard = &c
	}
	if r.players == nil {
		r.players = Players{}
	}
	if r.deck == nil {
		r.deck = deck.Deck{}
	}
	if r.newDeck == nil {
		r.newDeck = shuffledDeck
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.createdAt.IsZero() {
		r.createdAt = r.now()
	}
	if r.status == Gaming && r.startedAt.IsZero() {
		r.startedAt = r.createdAt
	}

	r.logger = r.logger.With(zap.String("room", r.code))

	return r
}

func shuffledDeck() deck.Deck {
	d := deck.New()
	d.Shuffle()
	return d
}

// Code returns the room's unique code
func (r *Room) Code() string {
	return r.code
}

// Status returns the stage the room is in
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// Snapshot returns the public view of the room
func (r *Room) Snapshot() protocol.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot()
}

// Expired reports whether the room ended at least ttl before now
func (r *Room) Expired(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status == Ended && !r.endedAt.IsZero() && now.Sub(r.endedAt) >= ttl
}

// Open greets the creator of a new room
func (r *Room) Open(c Caller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.send(c.Conn, protocol.Reply(protocol.CreateRoom, r.snapshot(), "room created"))
	r.broadcast(r.buildPlayerListMessage())
}

// Join adds the caller to a waiting room
func (r *Room) Join(c Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case Gaming:
		return ErrRoomAlreadyStarted
	case Ended:
		return ErrRoomAlreadyEnded
	}

	if _, ok := r.players.Find(c.ID); ok {
		return ErrAlreadyInRoom
	}

	r.players = append(r.players, NewPlayer(c))
	r.logger.Info("player joined", zap.String("player", c.ID), zap.Int("players", len(r.players)))

	r.broadcast(r.buildPlayerListMessage())
	r.send(c.Conn, protocol.Reply(protocol.JoinRoom, r.snapshot(), "joined room"))

	return nil
}

// Leave removes the caller from the room. A room left with fewer
// than two players is over. The caller is always acknowledged.
func (r *Room) Leave(c Caller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.players.indexOf(c.ID); i >= 0 {
		r.removePlayer(i)
		r.logger.Info("player left", zap.String("player", c.ID), zap.Int("players", len(r.players)))

		if r.status != Ended && len(r.players) < minPlayers {
			r.endGame()
		} else {
			r.broadcast(r.buildPlayerListMessage())
		}
	}

	r.send(c.Conn, protocol.Reply(protocol.LeaveRoom, nil, "left room"))
}

func (r *Room) removePlayer(i int) {
	for _, c := range r.players[i].Hand {
		r.bury(c)
	}

	r.players = append(r.players[:i], r.players[i+1:]...)
	n := len(r.players)
	if n == 0 {
		r.currentIndex = 0
		return
	}

	switch {
	case i < r.currentIndex:
		r.currentIndex--
	case i == r.currentIndex && r.awaitingColor:
		// the pending effect still starts from the seat after the leaver
		r.currentIndex = (i - 1 + n) % n
	}
	if r.currentIndex >= n {
		r.currentIndex = 0
	}
}

// Start deals a fresh deck and turns over the first discard
func (r *Room) Start(c Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case Gaming:
		return ErrRoomAlreadyStarted
	case Ended:
		return ErrRoomAlreadyEnded
	}

	if _, ok := r.players.Find(c.ID); !ok {
		return ErrPlayerNotFound
	}
	if len(r.players) < minPlayers {
		return ErrInsufficientPlayers
	}

	d := r.newDeck()
	if len(d) < len(r.players)*handSize+1 {
		return ErrEmptyDeck
	}

	hands := make([][]deck.Card, len(r.players))
	for i := range r.players {
		hands[i] = d.Deal(handSize)
	}

	top, ok := revealDiscard(&d)
	if !ok {
		return ErrEmptyDeck
	}

	for i, p := range r.players {
		p.Hand = hands[i]
		p.HasDeclaredUno = false
	}
	r.deck = d
	r.discard = &top
	r.currentIndex = 0
	r.awaitingColor = false
	r.pending = effect{}
	r.status = Gaming
	r.startedAt = r.now()

	r.logger.Info("game started", zap.Int("players", len(r.players)), zap.Stringer("discard", top))

	snapshot := r.snapshot()
	for _, p := range r.players {
		r.send(p.Conn, r.buildDealMessage(p, snapshot))
	}
	r.broadcast(protocol.OutboundMessage{Type: protocol.GameStarted, Message: "the game has started"})
	r.send(c.Conn, protocol.Reply(protocol.StartGame, nil, "game started"))

	return nil
}

// revealDiscard draws until it finds a card that is not a wild.
// Wilds drawn on the way go to the bottom of the deck.
func revealDiscard(d *deck.Deck) (deck.Card, bool) {
	for i := len(*d); i > 0; i-- {
		c, ok := d.Draw()
		if !ok {
			break
		}
		if c.Color != deck.Black {
			return c, true
		}
		d.PutBottom(c)
	}

	return deck.Card{}, false
}

// Draw gives the caller the top card of the deck
func (r *Room) Draw(c Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.activePlayer(c.ID)
	if err != nil {
		return err
	}
	if r.awaitingColor {
		return ErrAwaitingColor
	}

	card, ok := r.deck.Draw()
	if !ok {
		return ErrEmptyDeck
	}

	r.give(p, []deck.Card{card})
	r.logger.Debug("card drawn", zap.String("player", p.ID), zap.Int("deck", len(r.deck)))

	r.send(c.Conn, protocol.Reply(protocol.DrawCard, protocol.Hand{Hand: p.HandCopy(), Card: &card}, "drew a card"))
	r.send(c.Conn, buildGainedMessage([]deck.Card{card}))

	return nil
}

// Play puts the cards at indices from the caller's hand onto the discard.
// Every card must be legal against the current discard. Only the last
// card counts as the new discard and only its effect is applied.
func (r *Room) Play(c Caller, indices []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.activePlayer(c.ID)
	if err != nil {
		return err
	}
	if r.awaitingColor {
		return ErrAwaitingColor
	}
	if len(indices) == 0 || containsDuplicates(indices) {
		return ErrInvalidCardIndex
	}
	for _, i := range indices {
		if i < 0 || i >= len(p.Hand) {
			return ErrInvalidCardIndex
		}
	}
	for _, i := range indices {
		if r.discard != nil && !IsLegalPlay(p.Hand[i], *r.discard) {
			return ErrInvalidPlay
		}
	}

	remaining, played := removeCards(p.Hand, indices)
	p.Hand = remaining

	if r.discard != nil {
		r.bury(*r.discard)
	}
	for _, card := range played[:len(played)-1] {
		r.bury(card)
	}
	top := played[len(played)-1]
	r.discard = &top

	r.logger.Debug("cards played",
		zap.String("player", p.ID),
		zap.Stringer("discard", top),
		zap.Int("count", len(played)),
		zap.Int("hand", len(p.Hand)),
	)

	if top.Color == deck.Black {
		r.send(c.Conn, protocol.OutboundMessage{Type: protocol.SelectColor, Message: "choose a colour"})
	}

	if len(p.Hand) == 0 {
		r.send(c.Conn, protocol.Reply(protocol.PlayCards, protocol.Hand{Hand: p.HandCopy()}, "played"))
		r.endGame()
		return nil
	}

	eff := effectOf(top)
	if top.Color == deck.Black {
		r.awaitingColor = true
		r.pending = eff
	}

	if len(p.Hand) == 1 && !p.HasDeclaredUno {
		penalty := r.drawUpTo(catchDraw)
		r.give(p, penalty)
		r.logger.Debug("caught without uno", zap.String("player", p.ID), zap.Int("penalty", len(penalty)))

		r.send(c.Conn, protocol.Reply(protocol.PlayCards,
			protocol.Hand{Hand: p.HandCopy(), Penalty: penalty},
			"you did not declare uno"))
		r.send(c.Conn, buildGainedMessage(penalty))
	} else {
		r.send(c.Conn, protocol.Reply(protocol.PlayCards, protocol.Hand{Hand: p.HandCopy()}, "played"))
	}

	if r.awaitingColor {
		return nil
	}

	r.advance(eff)

	return nil
}

// SubmitColor chooses the colour of a wild discard and lets play continue
func (r *Room) SubmitColor(c Caller, color deck.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.activePlayer(c.ID); err != nil {
		return err
	}
	if !r.awaitingColor || r.discard == nil || r.discard.Color != deck.Black {
		return ErrNotAwaitingColor
	}
	if color < deck.Red || color >= deck.Black {
		return ErrInvalidColor
	}

	r.discard.Color = color
	r.awaitingColor = false
	eff := r.pending
	r.pending = effect{}

	r.logger.Debug("colour chosen", zap.String("player", c.ID), zap.Stringer("color", color))

	r.broadcast(protocol.OutboundMessage{
		Type:    protocol.ColorChanged,
		Data:    protocol.ColorChange{Color: color},
		Message: "the colour is now " + color.String(),
	})
	r.advance(eff)
	r.broadcast(r.buildRoomMessage())
	r.send(c.Conn, protocol.Reply(protocol.SubmitColor, nil, "colour chosen"))

	return nil
}

// DeclareUno marks the caller as having declared uno.
// Only a hand of a single numbered card may be declared.
func (r *Room) DeclareUno(c Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.activePlayer(c.ID)
	if err != nil {
		return err
	}
	if !canDeclareUno(p.Hand) {
		return ErrInvalidUnoDeclaration
	}

	p.HasDeclaredUno = true

	r.send(c.Conn, buildUnoStatusMessage(p))
	r.broadcast(protocol.OutboundMessage{
		Type:    protocol.UnoAnnounced,
		Data:    protocol.Uno{PlayerID: p.ID, Name: p.Name, HasDeclaredUno: true},
		Message: p.Name + " declared uno!",
	})
	r.send(c.Conn, protocol.Reply(protocol.DeclareUno, nil, "uno!"))

	return nil
}

// NextTurn passes the turn to the next player
func (r *Room) NextTurn(c Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.activePlayer(c.ID); err != nil {
		return err
	}
	if r.awaitingColor {
		return ErrAwaitingColor
	}

	r.currentIndex = nextIndex(r.currentIndex, 1, len(r.players))
	r.broadcast(r.buildTurnMessage())

	return nil
}

// Dissolve tells every player the room is gone and ends the game
func (r *Room) Dissolve() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != Ended {
		r.status = Ended
		r.endedAt = r.now()
		r.awaitingColor = false
	}

	r.logger.Info("room dissolved")
	r.broadcast(protocol.OutboundMessage{
		Type:    protocol.RoomDissolved,
		Data:    r.code,
		Message: "the room has been dissolved",
	})
}

// activePlayer finds a player in a room whose game is in progress
func (r *Room) activePlayer(id string) (*Player, error) {
	switch r.status {
	case Waiting:
		return nil, ErrGameNotStarted
	case Ended:
		return nil, ErrRoomAlreadyEnded
	}

	p, ok := r.players.Find(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return p, nil
}

// advance applies eff to the turn order then announces whose turn it is
func (r *Room) advance(eff effect) {
	n := len(r.players)

	if eff.reverse && n > 2 {
		r.players.reverse()
		r.currentIndex = reversedIndex(r.currentIndex, n)
	}

	victim := r.players[nextIndex(r.currentIndex, 1, n)]
	r.currentIndex = nextIndex(r.currentIndex, eff.step(), n)

	if eff.draw > 0 {
		forced := r.drawUpTo(eff.draw)
		r.give(victim, forced)
		r.logger.Debug("forced draw", zap.String("player", victim.ID), zap.Int("count", len(forced)))
		r.send(victim.Conn, buildGainedMessage(forced))
	}

	r.broadcast(r.buildTurnMessage())
}

// drawUpTo draws n cards, or as many as the deck has left
func (r *Room) drawUpTo(n int) []deck.Card {
	drawn := []deck.Card{}
	for i := 0; i < n; i++ {
		c, ok := r.deck.Draw()
		if !ok {
			break
		}
		drawn = append(drawn, c)
	}
	return drawn
}

// give adds cards to a hand. A declared uno no longer stands once
// the hand holds more than one card.
func (r *Room) give(p *Player, cards []deck.Card) {
	p.Hand = append(p.Hand, cards...)

	if p.HasDeclaredUno && len(p.Hand) > 1 {
		p.HasDeclaredUno = false
		r.send(p.Conn, buildUnoStatusMessage(p))
	}
}

// bury returns a card to the bottom of the deck, wilds without their colour
func (r *Room) bury(c deck.Card) {
	if c.IsWild() {
		c.Color = deck.Black
	}
	r.deck.PutBottom(c)
}

func (r *Room) endGame() {
	r.status = Ended
	r.endedAt = r.now()
	r.awaitingColor = false
	r.pending = effect{}
	r.winnerOrder = rankPlayers(r.players).Snapshots()

	r.logger.Info("game over", zap.Int("players", len(r.players)))
	r.broadcast(r.buildGameOverMessage())
}

func (r *Room) send(to Sender, msg protocol.OutboundMessage) {
	if to == nil {
		return
	}
	if err := to.Send(msg); err != nil {
		r.logger.Warn("failed to deliver message", zap.Stringer("type", msg.Type), zap.Error(err))
	}
}

func (r *Room) broadcast(msg protocol.OutboundMessage) {
	for _, p := range r.players {
		r.send(p.Conn, msg)
	}
}

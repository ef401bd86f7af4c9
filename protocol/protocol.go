package protocol

// Cmd names a message type on the wire
type Cmd string

// Commands sent by players
const (
	CreateRoom   Cmd = "CREATE_ROOM"
	JoinRoom     Cmd = "JOIN_ROOM"
	LeaveRoom    Cmd = "LEAVE_ROOM"
	DissolveRoom Cmd = "DISSOLVE_ROOM"
	CreateUser   Cmd = "CREATE_USER"
	StartGame    Cmd = "START_GAME"
	PlayCards    Cmd = "OUT_OF_THE_CARD"
	DrawCard     Cmd = "GET_ONE_CARD"
	NextTurn     Cmd = "NEXT_TURN"
	SubmitColor  Cmd = "SUBMIT_COLOR"
	DeclareUno   Cmd = "UNO"
)

// Messages initiated by the server
const (
	Welcome          Cmd = "WELCOME"
	UpdatePlayerList Cmd = "UPDATE_PLAYER_LIST"
	UpdateRoom       Cmd = "UPDATE_ROOM"
	DealCards        Cmd = "DEAL_CARDS"
	GameStarted      Cmd = "GAME_IS_START"
	CardsGained      Cmd = "GET_CARDS"
	SelectColor      Cmd = "SELECT_COLOR"
	ColorChanged     Cmd = "COLOR_IS_CHANGED"
	UnoStatus        Cmd = "UNO_STATUS"
	UnoAnnounced     Cmd = "UNO_ANNOUNCED"
	GameOver         Cmd = "GAME_IS_OVER"
	RoomDissolved    Cmd = "ROOM_IS_DISSOLVED"
	Error            Cmd = "ERROR"
)

// Commands lists every command a player may send
var Commands = []Cmd{
	CreateRoom,
	JoinRoom,
	LeaveRoom,
	DissolveRoom,
	CreateUser,
	StartGame,
	PlayCards,
	DrawCard,
	NextTurn,
	SubmitColor,
	DeclareUno,
}

// Response returns the type of the reply to a command
func (c Cmd) Response() Cmd {
	return "RES_" + c
}

func (c Cmd) String() string {
	return string(c)
}

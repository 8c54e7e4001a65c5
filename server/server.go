package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/durak/game"
	"github.com/minaorangina/durak/protocol"
	"github.com/minaorangina/durak/store"
	"go.uber.org/zap"
)

const defaultMaxPlayers = 2

// ServerOpts configures a GameServer. Every field is optional.
type ServerOpts struct {
	Logger *zap.Logger
	// AllowedOrigins for CORS and websocket upgrades; "*" allows any.
	AllowedOrigins []string
	// StaticURL and StaticDir serve card images when StaticDir is set.
	StaticURL string
	StaticDir string
}

// GameServer is a game server
type GameServer struct {
	store store.GameStore
	hub   *Hub
	log   *zap.Logger

	upgrader websocket.Upgrader
	http.Server
}

// NewServer creates a new GameServer
func NewServer(st store.GameStore, opts ServerOpts) *GameServer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	g := &GameServer{
		store: st,
		hub:   NewHub(opts.Logger),
		log:   opts.Logger,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(opts.AllowedOrigins, r.Header.Get("Origin"))
		},
	}

	router := http.NewServeMux()
	router.Handle("/health", http.HandlerFunc(g.HandleHealth))
	router.Handle("/new", http.HandlerFunc(g.HandleNewGame))
	router.Handle("/join", http.HandlerFunc(g.HandleJoinGame))
	router.Handle("/start", http.HandlerFunc(g.HandleStartGame))
	router.Handle("/leave", http.HandlerFunc(g.HandleLeaveGame))
	router.Handle("/ping", http.HandlerFunc(g.HandlePing))
	router.Handle("/rooms", http.HandlerFunc(g.HandleListRooms))
	router.Handle("/game/", http.HandlerFunc(g.HandleFindGame))
	router.Handle("/move", http.HandlerFunc(g.HandleMove))
	router.Handle("/ws", http.HandlerFunc(g.HandleWS))

	if opts.StaticDir != "" {
		prefix := opts.StaticURL
		if prefix == "" {
			prefix = "/static/"
		}
		router.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(opts.StaticDir))))
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(opts.Logger)),
		handlers.PrintRecoveryStack(true),
	)
	g.Handler = recovery(cors(router))

	return g
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (g *GameServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleNewGame creates a room with the requester as its creator
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data NewGameReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}
	if data.Name == "" {
		g.writeError(w, http.StatusBadRequest, "missing player name")
		return
	}
	if data.MaxPlayers == 0 {
		data.MaxPlayers = defaultMaxPlayers
	}

	creator := protocol.Player{PlayerID: NewID(), Name: data.Name}

	var room store.Room
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		room, err = store.NewRoom(NewGameID(), data.RoomName, creator, data.MaxPlayers)
		if err != nil {
			break
		}
		if err = g.store.AddRoom(room); !errors.Is(err, store.ErrDuplicateGameID) {
			break
		}
	}
	if err != nil {
		g.writeStoreError(w, err)
		return
	}

	g.writeJSON(w, http.StatusCreated, PendingGameRes{
		GameID:   room.ID,
		PlayerID: creator.PlayerID,
		Name:     creator.Name,
		Admin:    true,
		Players:  playerNames(room.Players),
		Status:   store.Waiting.String(),
	})
}

// HandleJoinGame seats a new player in a waiting room
func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data JoinGameReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}
	if data.GameID == "" {
		g.writeError(w, http.StatusBadRequest, "missing game ID")
		return
	}
	if data.Name == "" {
		g.writeError(w, http.StatusBadRequest, "missing player name")
		return
	}

	joiner := protocol.Player{PlayerID: NewID(), Name: data.Name}
	room, err := g.store.AddPlayer(data.GameID, joiner)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}

	g.hub.Broadcast(room.ID, func(playerID string) (protocol.OutboundMessage, bool) {
		return protocol.OutboundMessage{
			PlayerID: playerID,
			Command:  protocol.NewJoiner,
			Success:  true,
			Message:  fmt.Sprintf("%s has joined the game!", joiner.Name),
			Joiner:   &protocol.Player{Name: joiner.Name},
		}, true
	})
	if room.Status == store.Playing {
		g.broadcastStarted(room)
	}

	g.writeJSON(w, http.StatusOK, PendingGameRes{
		GameID:   room.ID,
		PlayerID: joiner.PlayerID,
		Name:     joiner.Name,
		Players:  playerNames(room.Players),
		Status:   room.Status.String(),
	})
}

// HandleStartGame deals the game on the creator's request
func (g *GameServer) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data RoomReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}

	room, err := g.store.StartGame(data.GameID, data.PlayerID)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	g.broadcastStarted(room)

	g.writeJSON(w, http.StatusOK, roomResponse(room))
}

// HandleLeaveGame removes a player from a waiting room
func (g *GameServer) HandleLeaveGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data RoomReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}

	before, ok := g.store.FindRoom(data.GameID)
	if !ok {
		g.writeStoreError(w, store.ErrUnknownGameID)
		return
	}
	room, err := g.store.RemovePlayer(data.GameID, data.PlayerID)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}

	name := nameOf(before, data.PlayerID)
	msg := fmt.Sprintf("%s has left the game", name)
	if room.Status == store.Cancelled {
		msg = fmt.Sprintf("%s has left the game, the room is closed", name)
	}
	g.hub.Broadcast(room.ID, func(playerID string) (protocol.OutboundMessage, bool) {
		return protocol.OutboundMessage{
			PlayerID: playerID,
			Command:  protocol.PlayerLeft,
			Success:  true,
			Message:  msg,
		}, playerID != data.PlayerID
	})

	g.writeJSON(w, http.StatusOK, roomResponse(room))
}

// HandlePing marks the player as still present
func (g *GameServer) HandlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data RoomReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}
	if err := g.store.Touch(data.GameID, data.PlayerID); err != nil {
		g.writeStoreError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, ErrorRes{Success: true, Message: "pong"})
}

// HandleListRooms lists the rooms that can be joined
func (g *GameServer) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rooms := []RoomRes{}
	for _, room := range g.store.WaitingRooms() {
		rooms = append(rooms, roomResponse(room))
	}
	g.writeJSON(w, http.StatusOK, rooms)
}

// HandleFindGame returns a room and, once dealt, the requester's view of the game
func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		g.writeError(w, http.StatusBadRequest, "missing game ID")
		return
	}
	playerID := r.URL.Query().Get("player_id")

	room, ok := g.store.FindRoom(gameID)
	if !ok {
		g.writeStoreError(w, store.ErrUnknownGameID)
		return
	}
	if !room.HasPlayer(playerID) {
		g.writeStoreError(w, store.ErrUnknownPlayerID)
		return
	}

	res := GetGameRes{Room: roomResponse(room)}
	if room.Status == store.Playing || room.Status == store.Finished {
		view, err := g.store.View(gameID, playerID)
		if err != nil {
			g.writeStoreError(w, err)
			return
		}
		res.State = &view
	}

	g.writeJSON(w, http.StatusOK, res)
}

// HandleMove applies one game action for a player
func (g *GameServer) HandleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var data MoveReq
	if err := decode(r, &data); err != nil {
		g.writeParseError(w, err)
		return
	}

	reply, err := g.move(data.GameID, protocol.InboundMessage{
		PlayerID: data.PlayerID,
		Command:  data.Command,
		Decision: data.Decision,
	})
	if err != nil {
		g.writeStoreError(w, err)
		return
	}

	status := http.StatusOK
	if !reply.Success {
		status = http.StatusBadRequest
	}
	g.writeJSON(w, status, reply)
}

// move runs one action through the store. Engine rejections come back as
// an unsuccessful reply; err is only set when the room refused the player.
func (g *GameServer) move(roomID string, msg protocol.InboundMessage) (protocol.OutboundMessage, error) {
	if !msg.Command.IsMove() {
		return game.BuildErrorMessage(msg.PlayerID, fmt.Errorf("%w: %s is not a move", game.ErrIllegalAction, msg.Command)), nil
	}

	res, room, err := g.store.Act(roomID, msg.PlayerID, func(d *game.Durak) (game.Result, error) {
		return d.Apply(msg)
	})
	if err != nil && !isEngineError(err) {
		return protocol.OutboundMessage{}, err
	}

	reply := game.BuildResultMessage(msg.PlayerID, msg.Command, res, err)
	if err != nil {
		g.log.Debug("move rejected",
			zap.String("room", roomID),
			zap.String("player", msg.PlayerID),
			zap.String("kind", game.KindName(err)),
			zap.Error(err))
		return reply, nil
	}

	g.broadcastState(room)
	return reply, nil
}

func isEngineError(err error) bool {
	var actionErr *game.ActionError
	return errors.As(err, &actionErr)
}

func (g *GameServer) broadcastStarted(room store.Room) {
	g.hub.Broadcast(room.ID, func(playerID string) (protocol.OutboundMessage, bool) {
		return protocol.OutboundMessage{
			PlayerID: playerID,
			Command:  protocol.HasStarted,
			Success:  true,
			Message:  "the game has started",
		}, true
	})
	g.broadcastState(room)
}

// broadcastState pushes each connected player their own view of the game
func (g *GameServer) broadcastState(room store.Room) {
	g.hub.Broadcast(room.ID, func(playerID string) (protocol.OutboundMessage, bool) {
		return g.stateMessage(room.ID, playerID)
	})
}

func (g *GameServer) stateMessage(roomID, playerID string) (protocol.OutboundMessage, bool) {
	view, err := g.store.View(roomID, playerID)
	if err != nil {
		if !errors.Is(err, store.ErrGameNotStarted) {
			g.log.Warn("could not build state", zap.String("room", roomID), zap.String("player", playerID), zap.Error(err))
		}
		return protocol.OutboundMessage{}, false
	}
	return game.BuildStateMessage(playerID, view), true
}

// HandleWS subscribes a room member to live updates and accepts moves
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID, playerID := query.Get("game_id"), query.Get("player_id")
	if gameID == "" || playerID == "" {
		g.writeError(w, http.StatusBadRequest, "missing game ID or player ID")
		return
	}

	room, ok := g.store.FindRoom(gameID)
	if !ok {
		g.writeStoreError(w, store.ErrUnknownGameID)
		return
	}
	if !room.HasPlayer(playerID) {
		g.writeStoreError(w, store.ErrUnknownPlayerID)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	c := &client{roomID: gameID, playerID: playerID, conn: conn, send: make(chan []byte, sendBuffer)}
	g.hub.register(c)

	go g.hub.writePump(c)
	go g.hub.readPump(c, g.handleWSMessage, func() {
		if err := g.store.Touch(gameID, playerID); err != nil {
			g.log.Debug("touch failed", zap.Error(err))
		}
	})

	welcome, ok := g.stateMessage(gameID, playerID)
	if !ok {
		welcome = protocol.OutboundMessage{
			PlayerID: playerID,
			Command:  protocol.State,
			Success:  true,
			Message:  "waiting for players",
		}
	}
	g.hub.Send(c, welcome)
}

func (g *GameServer) handleWSMessage(c *client, msg protocol.InboundMessage) {
	if err := g.store.Touch(c.roomID, c.playerID); err != nil {
		g.hub.Send(c, protocol.OutboundMessage{PlayerID: c.playerID, Command: protocol.Error, Message: err.Error()})
		return
	}

	if msg.Command == protocol.Start {
		room, err := g.store.StartGame(c.roomID, c.playerID)
		if err != nil {
			g.hub.Send(c, protocol.OutboundMessage{PlayerID: c.playerID, Command: protocol.Error, Message: err.Error()})
			return
		}
		g.broadcastStarted(room)
		return
	}

	reply, err := g.move(c.roomID, msg)
	if err != nil {
		reply = protocol.OutboundMessage{PlayerID: c.playerID, Command: protocol.Error, Message: err.Error()}
	}
	g.hub.Send(c, reply)
}

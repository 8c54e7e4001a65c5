package server

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"

	"github.com/minaorangina/durak/game"
	"github.com/minaorangina/durak/protocol"
	"github.com/minaorangina/durak/store"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

type NewGameReq struct {
	Name       string `json:"name"`
	RoomName   string `json:"room_name"`
	MaxPlayers int    `json:"max_players"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

// RoomReq identifies a player acting on a room
type RoomReq struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type MoveReq struct {
	GameID   string       `json:"game_id"`
	PlayerID string       `json:"player_id"`
	Command  protocol.Cmd `json:"command"`
	Decision []int        `json:"decision"`
}

// PendingGameRes is returned to a player who created or joined a room.
// PlayerID is only ever sent to the player it belongs to.
type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
	Status   string   `json:"status"`
}

// RoomRes describes a room without revealing player IDs
type RoomRes struct {
	GameID     string   `json:"game_id"`
	Name       string   `json:"name"`
	Creator    string   `json:"creator"`
	Status     string   `json:"status"`
	MaxPlayers int      `json:"max_players"`
	Players    []string `json:"players"`
	Winner     string   `json:"winner,omitempty"`
	Loser      string   `json:"loser,omitempty"`
	IsDraw     bool     `json:"is_draw"`
}

type GetGameRes struct {
	Room  RoomRes            `json:"room"`
	State *protocol.GameView `json:"state,omitempty"`
}

type ErrorRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// NewGameID constructs a short code players can share
func NewGameID() string {
	letters := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	code := make([]byte, 6)
	for i := range code {
		code[i] = letters[rand.Intn(len(letters))]
	}
	return string(code)
}

func playerNames(ps []protocol.Player) []string {
	names := []string{}
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

func nameOf(room store.Room, playerID string) string {
	for _, p := range room.Players {
		if p.PlayerID == playerID {
			return p.Name
		}
	}
	return ""
}

func roomResponse(room store.Room) RoomRes {
	return RoomRes{
		GameID:     room.ID,
		Name:       room.Name,
		Creator:    nameOf(room, room.CreatorID),
		Status:     room.Status.String(),
		MaxPlayers: room.MaxPlayers,
		Players:    playerNames(room.Players),
		Winner:     nameOf(room, room.Winner),
		Loser:      nameOf(room, room.Loser),
		IsDraw:     room.IsDraw,
	}
}

// statusFor maps store and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrUnknownGameID):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnknownPlayerID), errors.Is(err, store.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, store.ErrGameAlreadyStarted),
		errors.Is(err, store.ErrGameNotStarted),
		errors.Is(err, store.ErrRoomFull),
		errors.Is(err, store.ErrRoomClosed),
		errors.Is(err, store.ErrAlreadyJoined),
		errors.Is(err, game.ErrTooFewPlayers):
		return http.StatusConflict
	case errors.Is(err, store.ErrBadMaxPlayers),
		errors.Is(err, game.ErrIllegalAction),
		errors.Is(err, game.ErrInvalidIndex),
		errors.Is(err, game.ErrRuleViolation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (g *GameServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		g.log.Error("could not encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func (g *GameServer) writeError(w http.ResponseWriter, status int, msg string) {
	g.writeJSON(w, status, ErrorRes{Success: false, Message: msg})
}

func (g *GameServer) writeStoreError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		g.log.Error("request failed", zap.Error(err))
		g.writeError(w, status, "something went wrong")
		return
	}
	g.writeError(w, status, err.Error())
}

func (g *GameServer) writeParseError(w http.ResponseWriter, err error) {
	if err == io.EOF {
		g.writeError(w, http.StatusBadRequest, "missing body")
		return
	}
	g.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
}

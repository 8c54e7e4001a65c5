package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/minaorangina/durak/protocol"
)

// RoomStatus represents where a room is in its lifecycle
// waiting -> players are joining
// playing -> a game is in progress
// finished -> the game has an outcome
// cancelled -> the room closed before a game started
type RoomStatus int

const (
	Waiting RoomStatus = iota
	Playing
	Finished
	Cancelled
)

var roomStatusNames = []string{"waiting", "playing", "finished", "cancelled"}

func (s RoomStatus) String() string {
	if s < Waiting || s > Cancelled {
		return fmt.Sprintf("RoomStatus(%d)", int(s))
	}
	return roomStatusNames[s]
}

func (s RoomStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Room is a table players gather at before and during a game
type Room struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CreatorID    string            `json:"creator_id"`
	MaxPlayers   int               `json:"max_players"`
	Players      []protocol.Player `json:"players"`
	Status       RoomStatus        `json:"status"`
	Winner       string            `json:"winner,omitempty"`
	Loser        string            `json:"loser,omitempty"`
	IsDraw       bool              `json:"is_draw"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

// NewRoom constructs a waiting room with its creator seated
func NewRoom(id, name string, creator protocol.Player, maxPlayers int) (Room, error) {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return Room{}, fmt.Errorf("%w: %d", ErrBadMaxPlayers, maxPlayers)
	}
	if name == "" {
		name = fmt.Sprintf("%s's room", creator.Name)
	}
	return Room{
		ID:         id,
		Name:       name,
		CreatorID:  creator.PlayerID,
		MaxPlayers: maxPlayers,
		Players:    []protocol.Player{creator},
		Status:     Waiting,
	}, nil
}

// HasPlayer reports whether playerID is seated in the room
func (r Room) HasPlayer(playerID string) bool {
	for _, p := range r.Players {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Full reports whether every seat is taken
func (r Room) Full() bool {
	return len(r.Players) >= r.MaxPlayers
}

func (r Room) copy() Room {
	r.Players = append([]protocol.Player{}, r.Players...)
	return r
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/game"
	"github.com/minaorangina/durak/protocol"
	"go.uber.org/zap"
)

var (
	ErrUnknownGameID      = errors.New("unknown game ID")
	ErrUnknownPlayerID    = errors.New("unknown player ID")
	ErrDuplicateGameID    = errors.New("game ID already exists")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomClosed         = errors.New("room is closed")
	ErrNotCreator         = errors.New("only the room creator can do that")
	ErrAlreadyJoined      = errors.New("player is already in the room")
	ErrBadMaxPlayers      = errors.New("rooms seat between 2 and 4 players")
)

// ActionFn is one engine action, run against a freshly loaded game
type ActionFn func(g *game.Durak) (game.Result, error)

type GameStore interface {
	AddRoom(room Room) error
	FindRoom(roomID string) (Room, bool)
	WaitingRooms() []Room
	AddPlayer(roomID string, player protocol.Player) (Room, error)
	RemovePlayer(roomID, playerID string) (Room, error)
	StartGame(roomID, playerID string) (Room, error)
	Act(roomID, playerID string, fn ActionFn) (game.Result, Room, error)
	View(roomID, playerID string) (protocol.GameView, error)
	Touch(roomID, playerID string) error
	Reap(idle time.Duration) []string
}

// StoreOpts configures an InMemoryGameStore. Every field is optional.
type StoreOpts struct {
	Logger    *zap.Logger
	StaticURL string
	// NewDeck supplies the deck for each new game instead of a shuffled one.
	NewDeck func() deck.Deck
	Now     func() time.Time
}

// entry is one room and its persisted game. mu serialises every
// load, act and save on the room.
type entry struct {
	mu       sync.Mutex
	room     Room
	snapshot []byte
}

// InMemoryGameStore maps room id to room and game snapshot
type InMemoryGameStore struct {
	mu    sync.RWMutex
	rooms map[string]*entry
	opts  StoreOpts
	log   *zap.Logger
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore(opts StoreOpts) *InMemoryGameStore {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &InMemoryGameStore{
		rooms: map[string]*entry{},
		opts:  opts,
		log:   opts.Logger,
	}
}

func (s *InMemoryGameStore) find(roomID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrUnknownGameID
	}
	return e, nil
}

// AddRoom stores a new waiting room
func (s *InMemoryGameStore) AddRoom(room Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGameID, room.ID)
	}

	now := s.opts.Now()
	room = room.copy()
	room.Status = Waiting
	room.CreatedAt, room.LastActivity = now, now
	s.rooms[room.ID] = &entry{room: room}

	s.log.Info("room created", zap.String("room", room.ID), zap.String("creator", room.CreatorID))
	return nil
}

// FindRoom returns a copy of the room
func (s *InMemoryGameStore) FindRoom(roomID string) (Room, bool) {
	e, err := s.find(roomID)
	if err != nil {
		return Room{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.copy(), true
}

// WaitingRooms lists the rooms that can still be joined, oldest first
func (s *InMemoryGameStore) WaitingRooms() []Room {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.rooms))
	for _, e := range s.rooms {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	rooms := []Room{}
	for _, e := range entries {
		e.mu.Lock()
		if e.room.Status == Waiting && !e.room.Full() {
			rooms = append(rooms, e.room.copy())
		}
		e.mu.Unlock()
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}

// AddPlayer seats a player in a waiting room. The game starts as soon as
// the last seat is taken.
func (s *InMemoryGameStore) AddPlayer(roomID string, player protocol.Player) (Room, error) {
	e, err := s.find(roomID)
	if err != nil {
		return Room{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.room.Status {
	case Waiting:
	case Playing, Finished:
		return Room{}, ErrGameAlreadyStarted
	default:
		return Room{}, ErrRoomClosed
	}
	if e.room.HasPlayer(player.PlayerID) {
		return Room{}, ErrAlreadyJoined
	}
	if e.room.Full() {
		return Room{}, ErrRoomFull
	}

	e.room.Players = append(e.room.Players, player)
	e.room.LastActivity = s.opts.Now()
	s.log.Info("player joined", zap.String("room", roomID), zap.String("player", player.PlayerID))

	if e.room.Full() {
		if err := s.start(e); err != nil {
			return Room{}, err
		}
	}

	return e.room.copy(), nil
}

// RemovePlayer takes a player out of a waiting room. The room is cancelled
// when its creator or its last player leaves.
func (s *InMemoryGameStore) RemovePlayer(roomID, playerID string) (Room, error) {
	e, err := s.find(roomID)
	if err != nil {
		return Room{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.room.HasPlayer(playerID) {
		return Room{}, ErrUnknownPlayerID
	}
	if e.room.Status == Playing {
		return Room{}, ErrGameAlreadyStarted
	}

	remaining := []protocol.Player{}
	for _, p := range e.room.Players {
		if p.PlayerID != playerID {
			remaining = append(remaining, p)
		}
	}
	e.room.Players = remaining
	e.room.LastActivity = s.opts.Now()

	if e.room.Status == Waiting && (playerID == e.room.CreatorID || len(remaining) == 0) {
		e.room.Status = Cancelled
		s.log.Info("room cancelled", zap.String("room", roomID), zap.String("left", playerID))
	}

	return e.room.copy(), nil
}

// StartGame deals a game for the players in the room
func (s *InMemoryGameStore) StartGame(roomID, playerID string) (Room, error) {
	e, err := s.find(roomID)
	if err != nil {
		return Room{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if playerID != e.room.CreatorID {
		return Room{}, ErrNotCreator
	}
	if e.room.Status != Waiting {
		return Room{}, ErrGameAlreadyStarted
	}
	if len(e.room.Players) < MinPlayers {
		return Room{}, game.ErrTooFewPlayers
	}

	if err := s.start(e); err != nil {
		return Room{}, err
	}
	return e.room.copy(), nil
}

// start deals and persists a new game. e.mu must be held.
func (s *InMemoryGameStore) start(e *entry) error {
	opts := s.gameOpts(e.room)
	if s.opts.NewDeck != nil {
		opts.Deck = s.opts.NewDeck()
	}

	g, err := game.New(e.room.Players, opts)
	if err != nil {
		return err
	}
	if err := s.save(e, g); err != nil {
		return err
	}

	e.room.Status = Playing
	e.room.LastActivity = s.opts.Now()
	s.log.Info("game started", zap.String("room", e.room.ID), zap.Int("players", len(e.room.Players)))
	return nil
}

// Act loads the room's game, runs fn against it and saves the result.
// Actions on the same room never overlap.
func (s *InMemoryGameStore) Act(roomID, playerID string, fn ActionFn) (game.Result, Room, error) {
	e, err := s.find(roomID)
	if err != nil {
		return game.Result{}, Room{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.room.HasPlayer(playerID) {
		return game.Result{}, Room{}, ErrUnknownPlayerID
	}
	g, err := s.load(e)
	if err != nil {
		return game.Result{}, Room{}, err
	}

	res, err := fn(g)
	if err != nil {
		return res, e.room.copy(), err
	}

	if err := s.save(e, g); err != nil {
		return game.Result{}, Room{}, err
	}
	e.room.LastActivity = s.opts.Now()

	if res.Outcome != nil && res.Outcome.GameOver {
		s.applyOutcome(e, *res.Outcome)
	} else {
		s.recordFirstOut(e, g)
	}

	return res, e.room.copy(), nil
}

// View projects the room's game for one of its players
func (s *InMemoryGameStore) View(roomID, playerID string) (protocol.GameView, error) {
	e, err := s.find(roomID)
	if err != nil {
		return protocol.GameView{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.room.HasPlayer(playerID) {
		return protocol.GameView{}, ErrUnknownPlayerID
	}
	g, err := s.load(e)
	if err != nil {
		return protocol.GameView{}, err
	}
	return g.View(playerID), nil
}

// Touch marks a room as active on behalf of one of its players
func (s *InMemoryGameStore) Touch(roomID, playerID string) error {
	e, err := s.find(roomID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.room.HasPlayer(playerID) {
		return ErrUnknownPlayerID
	}
	e.room.LastActivity = s.opts.Now()
	return nil
}

// Reap cancels waiting rooms nobody has touched for idle, and forgets
// stale rooms that are empty or closed. It returns the ids
// of every room it changed.
func (s *InMemoryGameStore) Reap(idle time.Duration) []string {
	cutoff := s.opts.Now().Add(-idle)
	reaped := []string{}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.rooms {
		e.mu.Lock()
		stale := e.room.LastActivity.Before(cutoff)
		switch {
		case !stale:
		case len(e.room.Players) == 0, e.room.Status == Cancelled, e.room.Status == Finished:
			delete(s.rooms, id)
			reaped = append(reaped, id)
			s.log.Info("room deleted", zap.String("room", id))
		case e.room.Status == Waiting:
			e.room.Status = Cancelled
			e.room.LastActivity = s.opts.Now()
			reaped = append(reaped, id)
			s.log.Info("idle room cancelled", zap.String("room", id))
		}
		e.mu.Unlock()
	}

	sort.Strings(reaped)
	return reaped
}

func (s *InMemoryGameStore) gameOpts(room Room) game.Opts {
	return game.Opts{
		Logger:         s.log.With(zap.String("room", room.ID)),
		StaticURL:      s.opts.StaticURL,
		RecordedWinner: room.Winner,
	}
}

// load rebuilds the engine from the persisted snapshot. e.mu must be held.
func (s *InMemoryGameStore) load(e *entry) (*game.Durak, error) {
	if e.snapshot == nil {
		return nil, ErrGameNotStarted
	}

	var snap game.Snapshot
	if err := json.Unmarshal(e.snapshot, &snap); err != nil {
		s.log.Error("corrupt game snapshot", zap.String("room", e.room.ID), zap.Error(err))
		return nil, err
	}
	return game.Load(e.room.Players, snap, s.gameOpts(e.room))
}

func (s *InMemoryGameStore) save(e *entry, g *game.Durak) error {
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		return err
	}
	e.snapshot = data
	return nil
}

func (s *InMemoryGameStore) applyOutcome(e *entry, outcome protocol.Outcome) {
	e.room.Status = Finished
	e.room.IsDraw = outcome.IsDraw
	e.room.Loser = outcome.Loser
	if outcome.IsDraw {
		e.room.Winner = ""
	} else if outcome.Winner != "" {
		e.room.Winner = outcome.Winner
	}

	s.log.Info("game finished",
		zap.String("room", e.room.ID),
		zap.Bool("draw", e.room.IsDraw),
		zap.String("winner", e.room.Winner),
		zap.String("loser", e.room.Loser))
}

// recordFirstOut keeps the first player to run out of cards while there is
// still a deck to draw from. That player is the winner of a 3 or 4 player game.
func (s *InMemoryGameStore) recordFirstOut(e *entry, g *game.Durak) {
	if e.room.Winner != "" || g.DeckCount() == 0 {
		return
	}
	if out := g.EmptyHanded(); len(out) > 0 {
		e.room.Winner = out[0]
		s.log.Info("player out of cards", zap.String("room", e.room.ID), zap.String("player", out[0]))
	}
}

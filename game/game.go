package game

import (
	"fmt"
	"math/rand"

	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/protocol"
	"go.uber.org/zap"
)

const (
	minPlayers   = 2
	maxPlayers   = 4
	handSize     = 6
	maxTableSize = 6

	defaultStaticURL = "/static/"
)

// Slot is one attack card on the table and its optional defence
type Slot struct {
	Attack     deck.Card  `json:"attack_card"`
	Defense    *deck.Card `json:"defense_card"`
	AttackerID string     `json:"attacker_id"`
	DefenderID string     `json:"defender_id,omitempty"`
}

func (s Slot) beaten() bool {
	return s.Defense != nil
}

// Opts configures a Durak engine. Every field is optional.
type Opts struct {
	// Deck is used as-is (front card drawn first) instead of a shuffled deck.
	Deck deck.Deck
	// Rand drives the shuffle of a new deck.
	Rand   *rand.Rand
	Logger *zap.Logger
	// StaticURL prefixes card image references.
	StaticURL string
	// RecordedWinner is the winner the surrounding room already holds.
	// It only names the winner of a 3 or 4 player game.
	RecordedWinner string
}

// Result describes an accepted action
type Result struct {
	Action  Action
	Message string
	Outcome *protocol.Outcome
}

// Durak is the rules engine for one game. It is not safe for concurrent use:
// callers must serialise actions on the same game.
type Durak struct {
	players     []protocol.Player
	hands       hands
	deck        deck.Deck
	table       []Slot
	trumpSuit   *deck.Suit
	trumpCard   *deck.Card
	attackerIdx int
	defenderIdx int
	status      Status

	recordedWinner string
	staticURL      string
	log            *zap.Logger
}

func newDurak(players []protocol.Player, opts Opts) (*Durak, error) {
	if len(players) < minPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(players) > maxPlayers {
		return nil, ErrTooManyPlayers
	}
	seen := map[string]struct{}{}
	for _, p := range players {
		if _, ok := seen[p.PlayerID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.PlayerID)
		}
		seen[p.PlayerID] = struct{}{}
	}

	d := &Durak{
		players:        append([]protocol.Player{}, players...),
		hands:          hands{},
		deck:           deck.Deck{},
		table:          []Slot{},
		status:         Playing,
		recordedWinner: opts.RecordedWinner,
		staticURL:      opts.StaticURL,
		log:            opts.Logger,
	}
	if d.staticURL == "" {
		d.staticURL = defaultStaticURL
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	for _, p := range players {
		d.hands[p.PlayerID] = []deck.Card{}
	}

	return d, nil
}

// New deals a new game for between 2 and 4 players.
func New(players []protocol.Player, opts Opts) (*Durak, error) {
	d, err := newDurak(players, opts)
	if err != nil {
		return nil, err
	}

	if opts.Deck != nil {
		if !cardsUnique(opts.Deck) {
			return nil, ErrInvalidDeck
		}
		d.deck = append(deck.Deck{}, opts.Deck...)
	} else {
		d.deck = deck.New()
		d.deck.Shuffle(opts.Rand)
	}

	d.deal()
	d.revealTrump()
	d.attackerIdx = d.lowestTrumpHolder()
	d.defenderIdx = d.nextIdx(d.attackerIdx)

	d.log.Info("new game dealt",
		zap.Int("players", len(d.players)),
		zap.String("trump", d.trumpLabel()),
		zap.String("attacker", d.attackerID()))

	return d, nil
}

// deal gives each player up to 6 cards, one at a time in player order
func (d *Durak) deal() {
	for round := 0; round < handSize; round++ {
		for _, p := range d.players {
			c, ok := d.deck.Draw()
			if !ok {
				d.log.Warn("deck ran out during the initial deal")
				return
			}
			d.hands.add(p.PlayerID, c)
		}
	}
}

// revealTrump takes the trump suit from the card left at the front of the deck.
// The card stays in the deck.
func (d *Durak) revealTrump() {
	top, ok := d.deck.Peek()
	if !ok {
		if d.trumpSuit == nil {
			d.log.Error("deck empty after the deal, no trump suit could be determined")
		}
		return
	}
	suit := top.Suit
	d.trumpSuit = &suit
	d.trumpCard = &top
}

// lowestTrumpHolder finds the player holding the lowest trump.
// Ties go to the earlier player; nobody holding a trump means player 0.
func (d *Durak) lowestTrumpHolder() int {
	if d.trumpSuit == nil {
		return 0
	}

	holder, lowest := -1, 0
	for i, p := range d.players {
		for _, c := range d.hands.get(p.PlayerID) {
			if c.Suit != *d.trumpSuit {
				continue
			}
			if holder == -1 || c.Rank.Value() < lowest {
				holder, lowest = i, c.Rank.Value()
			}
		}
	}

	if holder == -1 {
		return 0
	}
	return holder
}

func (d *Durak) nextIdx(i int) int {
	return (i + 1) % len(d.players)
}

func (d *Durak) playerIndex(playerID string) (int, bool) {
	for i, p := range d.players {
		if p.PlayerID == playerID {
			return i, true
		}
	}
	return -1, false
}

func (d *Durak) attackerID() string {
	return d.players[d.attackerIdx].PlayerID
}

func (d *Durak) defenderID() string {
	return d.players[d.defenderIdx].PlayerID
}

func (d *Durak) trumpLabel() string {
	if d.trumpCard == nil {
		return "none"
	}
	return d.trumpCard.ID()
}

// checkActive is the shared first step of every action
func (d *Durak) checkActive(playerID string) error {
	if d.status != Playing {
		return illegal("the game is not active")
	}
	if _, ok := d.playerIndex(playerID); !ok {
		return illegal("player %s is not in this game", playerID)
	}
	return nil
}

func (d *Durak) unbeatenCount() int {
	n := 0
	for _, s := range d.table {
		if !s.beaten() {
			n++
		}
	}
	return n
}

// Status returns whether the game is still being played
func (d *Durak) Status() Status {
	return d.status
}

// Players returns the fixed player order
func (d *Durak) Players() []protocol.Player {
	return append([]protocol.Player{}, d.players...)
}

// Attacker returns the current attacker
func (d *Durak) Attacker() protocol.Player {
	return d.players[d.attackerIdx]
}

// Defender returns the current defender
func (d *Durak) Defender() protocol.Player {
	return d.players[d.defenderIdx]
}

// DeckCount is the number of cards left to draw
func (d *Durak) DeckCount() int {
	return len(d.deck)
}

// Trump returns the trump suit, if one could be determined
func (d *Durak) Trump() (deck.Suit, bool) {
	if d.trumpSuit == nil {
		return 0, false
	}
	return *d.trumpSuit, true
}

// Hand returns a copy of a player's hand in hand-index order
func (d *Durak) Hand(playerID string) []deck.Card {
	return append([]deck.Card{}, d.hands.get(playerID)...)
}

// Table returns a copy of the table
func (d *Durak) Table() []Slot {
	return copySlots(d.table)
}

// EmptyHanded lists, in player order, the players holding no cards
func (d *Durak) EmptyHanded() []string {
	ids := []string{}
	for _, p := range d.players {
		if len(d.hands.get(p.PlayerID)) == 0 {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}

// Apply dispatches an inbound move to the matching action
func (d *Durak) Apply(msg protocol.InboundMessage) (Result, error) {
	switch msg.Command {
	case protocol.Attack:
		return d.Attack(msg.PlayerID, msg.Decision)
	case protocol.Defend:
		if len(msg.Decision) != 2 {
			return Result{}, badIndex("defending needs a table index and a hand index")
		}
		return d.Defend(msg.PlayerID, msg.Decision[0], msg.Decision[1])
	case protocol.Take:
		return d.Take(msg.PlayerID)
	case protocol.PassOrBito:
		return d.PassOrBito(msg.PlayerID)
	}
	return Result{}, illegal("unknown move %q", msg.Command.String())
}

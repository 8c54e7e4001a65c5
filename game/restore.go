package game

import (
	"fmt"

	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/protocol"
	"go.uber.org/zap"
)

// Snapshot is the persisted form of a game. Deck and hand order are
// significant and survive a Load/Snapshot round trip unchanged.
type Snapshot struct {
	Deck              []deck.Card            `json:"deck"`
	TrumpSuit         *deck.Suit             `json:"trump_suit"`
	TrumpCardRevealed *deck.Card             `json:"trump_card_revealed"`
	Table             []Slot                 `json:"table"`
	Hands             map[string][]deck.Card `json:"hands"`
	CurrentTurn       string                 `json:"current_turn"`
	Status            Status                 `json:"status"`
}

// Snapshot captures the game for persistence
func (d *Durak) Snapshot() Snapshot {
	snap := Snapshot{
		Deck:        append([]deck.Card{}, d.deck...),
		Table:       copySlots(d.table),
		Hands:       d.hands.copy(),
		CurrentTurn: d.attackerID(),
		Status:      d.status,
	}
	if d.trumpSuit != nil {
		suit := *d.trumpSuit
		snap.TrumpSuit = &suit
	}
	if d.trumpCard != nil {
		c := *d.trumpCard
		snap.TrumpCardRevealed = &c
	}
	return snap
}

// Load rebuilds a game from a snapshot over the fixed player order.
//
// The attacker is the snapshot's current turn. If that player is missing
// from players, the attacker is re-derived with the lowest-trump rule,
// which can silently hand the attack to someone else.
func Load(players []protocol.Player, snap Snapshot, opts Opts) (*Durak, error) {
	d, err := newDurak(players, opts)
	if err != nil {
		return nil, err
	}

	if len(snap.Table) > maxTableSize {
		return nil, fmt.Errorf("%w: %d cards on the table", ErrInvalidSnapshot, len(snap.Table))
	}
	groups := [][]deck.Card{snap.Deck, tableCards(snap.Table)}
	for _, cards := range snap.Hands {
		groups = append(groups, cards)
	}
	if !cardsUnique(groups...) {
		return nil, fmt.Errorf("%w: duplicate cards", ErrInvalidSnapshot)
	}

	d.deck = append(deck.Deck{}, snap.Deck...)
	d.table = copySlots(snap.Table)
	for id, cards := range snap.Hands {
		d.hands[id] = append([]deck.Card{}, cards...)
	}
	if snap.TrumpSuit != nil {
		suit := *snap.TrumpSuit
		d.trumpSuit = &suit
	}
	if snap.TrumpCardRevealed != nil {
		c := *snap.TrumpCardRevealed
		d.trumpCard = &c
	}
	d.status = snap.Status

	idx, ok := d.playerIndex(snap.CurrentTurn)
	switch {
	case ok:
		d.attackerIdx = idx
	case snap.CurrentTurn == "":
		d.attackerIdx = d.lowestTrumpHolder()
	default:
		d.attackerIdx = d.lowestTrumpHolder()
		d.log.Warn("current turn player not in roster, re-determined attacker",
			zap.String("recorded", snap.CurrentTurn),
			zap.String("attacker", d.attackerID()))
	}
	d.defenderIdx = d.nextIdx(d.attackerIdx)

	return d, nil
}

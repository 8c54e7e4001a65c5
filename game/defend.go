package game

import (
	"github.com/minaorangina/durak/deck"
	"go.uber.org/zap"
)

// CanBeat reports whether defense beats attack. A higher card of the same
// suit always beats; a trump beats any non-trump. Without a trump suit only
// the same-suit rule applies.
func CanBeat(attack, defense deck.Card, trump *deck.Suit) bool {
	if defense.Suit == attack.Suit {
		return defense.Rank.Value() > attack.Rank.Value()
	}
	if trump == nil {
		return false
	}
	return defense.Suit == *trump && attack.Suit != *trump
}

// Defend covers the unbeaten card at tableIndex with the defender's card at handIndex.
func (d *Durak) Defend(playerID string, tableIndex, handIndex int) (Result, error) {
	if err := d.checkActive(playerID); err != nil {
		return Result{}, err
	}
	if playerID != d.defenderID() {
		return Result{}, illegal("it is not your turn to defend")
	}

	if tableIndex < 0 || tableIndex >= len(d.table) {
		return Result{}, badIndex("invalid table index: %d", tableIndex)
	}
	slot := d.table[tableIndex]
	if slot.beaten() {
		return Result{}, badIndex("the card at %d is already beaten", tableIndex)
	}

	hand := d.hands.get(playerID)
	if handIndex < 0 || handIndex >= len(hand) {
		return Result{}, badIndex("invalid card index: %d", handIndex)
	}
	card := hand[handIndex]

	if d.trumpSuit == nil {
		d.log.Error("defending without a trump suit, only same-suit beats apply")
	}
	if !CanBeat(slot.Attack, card, d.trumpSuit) {
		return Result{}, violation("%s cannot beat %s", card, slot.Attack)
	}

	if err := d.hands.removeIndices(playerID, []int{handIndex}); err != nil {
		d.log.Error("defence failed after validation", zap.String("player", playerID), zap.Error(err))
		return Result{}, err
	}
	d.table[tableIndex].Defense = &card
	d.table[tableIndex].DefenderID = playerID

	return Result{Action: ActionDefend, Message: "card beaten"}, nil
}

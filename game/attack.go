package game

import (
	"github.com/minaorangina/durak/deck"
	"go.uber.org/zap"
)

// Attack places cards from the player's hand on the table.
//
// On an empty or fully beaten table only the attacker may play, and all
// cards must share one rank. Once a trick is open any player but the
// defender may throw in cards whose rank is already on the table.
// Indices refer to the hand as it is before this call.
func (d *Durak) Attack(playerID string, handIndices []int) (Result, error) {
	if err := d.checkActive(playerID); err != nil {
		return Result{}, err
	}

	isAttacker := playerID == d.attackerID()
	isThrower := d.unbeatenCount() > 0 && playerID != d.defenderID()
	if !isAttacker && !isThrower {
		return Result{}, illegal("it is not your turn to attack")
	}

	if len(handIndices) == 0 {
		return Result{}, badIndex("choose at least one card to attack with")
	}
	cards, err := resolveIndices(d.hands.get(playerID), handIndices)
	if err != nil {
		return Result{}, err
	}

	defenderCards := len(d.hands.get(d.defenderID()))
	if unbeaten := d.unbeatenCount(); unbeaten == 0 {
		err = d.validateFirstAttack(cards, defenderCards)
	} else {
		err = d.validateThrowIn(cards, defenderCards, unbeaten)
	}
	if err != nil {
		return Result{}, err
	}

	if err := d.hands.removeIndices(playerID, handIndices); err != nil {
		d.log.Error("attack failed after validation", zap.String("player", playerID), zap.Error(err))
		return Result{}, err
	}
	for _, c := range cards {
		d.table = append(d.table, Slot{Attack: c, AttackerID: playerID})
	}

	return Result{Action: ActionAttack, Message: "attack made"}, nil
}

func (d *Durak) validateFirstAttack(cards []deck.Card, defenderCards int) error {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return violation("all cards in an opening attack must share one rank")
		}
	}
	if defenderCards > 0 && len(cards) > defenderCards {
		return violation("cannot attack with %d cards, the defender only holds %d", len(cards), defenderCards)
	}
	if len(cards) > maxTableSize {
		return violation("cannot attack with more than %d cards", maxTableSize)
	}
	if len(d.table)+len(cards) > maxTableSize {
		return violation("too many cards on the table (maximum %d)", maxTableSize)
	}
	return nil
}

func (d *Durak) validateThrowIn(cards []deck.Card, defenderCards, unbeaten int) error {
	if len(d.table)+len(cards) > maxTableSize {
		return violation("too many cards on the table (maximum %d)", maxTableSize)
	}

	allowed := map[deck.Rank]struct{}{}
	for _, s := range d.table {
		allowed[s.Attack.Rank] = struct{}{}
		if s.Defense != nil {
			allowed[s.Defense.Rank] = struct{}{}
		}
	}
	d.log.Debug("throw-in", zap.Int("allowed_ranks", len(allowed)), zap.Int("cards", len(cards)))

	for _, c := range cards {
		if _, ok := allowed[c.Rank]; !ok {
			return violation("thrown-in cards must match a rank already on the table")
		}
	}

	capacity := defenderCards - unbeaten
	if capacity < 0 {
		return violation("the defender cannot cover the cards already on the table")
	}
	if len(cards) > capacity {
		return violation("cannot throw in %d cards, the defender can only answer %d more", len(cards), capacity)
	}
	return nil
}

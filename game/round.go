package game

import (
	"github.com/minaorangina/durak/protocol"
	"go.uber.org/zap"
)

// Take moves every card on the table into the defender's hand. The player
// after the defender attacks next, so the defender loses their turn to attack.
func (d *Durak) Take(playerID string) (Result, error) {
	if err := d.checkActive(playerID); err != nil {
		return Result{}, err
	}
	if playerID != d.defenderID() {
		return Result{}, illegal("only the defender can take the cards")
	}
	if len(d.table) == 0 {
		return Result{}, illegal("there are no cards on the table to take")
	}

	round := d.table
	d.hands.add(playerID, tableCards(round)...)
	d.table = []Slot{}
	d.replenish(round)

	d.attackerIdx = d.nextIdx(d.defenderIdx)
	d.defenderIdx = d.nextIdx(d.attackerIdx)

	if outcome := d.evaluate(); outcome.GameOver {
		return d.finish(ActionTake, outcome), nil
	}

	return Result{Action: ActionTake, Message: "cards taken"}, nil
}

// PassOrBito ends the attackers' turn. If every card on the table is beaten
// the cards are discarded and the defender attacks next. Otherwise nothing
// changes and the defender still has to beat the rest or take.
func (d *Durak) PassOrBito(playerID string) (Result, error) {
	if err := d.checkActive(playerID); err != nil {
		return Result{}, err
	}
	if len(d.table) == 0 {
		return Result{}, illegal("the table is empty, there is nothing to pass on")
	}

	if d.unbeatenCount() > 0 {
		return Result{
			Action:  ActionAttackerPassed,
			Message: "attackers are done adding cards, the defender must beat the rest or take",
		}, nil
	}

	round := d.table
	d.table = []Slot{}
	d.replenish(round)
	d.log.Debug("bito", zap.Int("discarded", len(tableCards(round))))

	if outcome := d.evaluate(); outcome.GameOver {
		return d.finish(ActionBito, outcome), nil
	}

	d.attackerIdx = d.defenderIdx
	d.defenderIdx = d.nextIdx(d.attackerIdx)

	return Result{Action: ActionBito, Message: "bito, round over"}, nil
}

// replenish tops hands back up to 6 after a round is resolved: the attacker
// first, then everyone else who threw in, in player order. The defender only
// draws when the resolved round had nothing on the table.
func (d *Durak) replenish(round []Slot) {
	if len(d.deck) == 0 {
		return
	}

	attacker := d.attackerID()
	throwers := map[string]struct{}{}
	for _, s := range round {
		if s.AttackerID != attacker {
			throwers[s.AttackerID] = struct{}{}
		}
	}

	order := []string{attacker}
	for _, p := range d.players {
		if _, ok := throwers[p.PlayerID]; ok {
			order = append(order, p.PlayerID)
		}
	}
	if len(round) == 0 && d.defenderID() != attacker {
		order = append(order, d.defenderID())
	}

	for _, id := range order {
		d.hands.topUp(id, &d.deck)
	}
}

func (d *Durak) finish(action Action, outcome protocol.Outcome) Result {
	d.status = Finished
	d.log.Info("game over",
		zap.Bool("draw", outcome.IsDraw),
		zap.String("winner", outcome.Winner),
		zap.String("loser", outcome.Loser))

	return Result{Action: action, Message: d.outcomeMessage(outcome), Outcome: &outcome}
}

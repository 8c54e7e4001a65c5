package game

import (
	"fmt"

	"github.com/minaorangina/durak/protocol"
)

// evaluate decides whether the game is over. It only ever ends a game once
// the deck is empty: a player with no cards while cards remain can still be
// dealt back in.
//
// With 3 or 4 players the evaluator only names the loser; the winner is the
// one the room already recorded, if any.
func (d *Durak) evaluate() protocol.Outcome {
	if len(d.deck) > 0 {
		return protocol.Outcome{}
	}

	holders := []int{}
	for i, p := range d.players {
		if len(d.hands.get(p.PlayerID)) > 0 {
			holders = append(holders, i)
		}
	}

	switch len(holders) {
	case 0:
		return protocol.Outcome{GameOver: true, IsDraw: true}
	case 1:
		loser := d.players[holders[0]].PlayerID
		outcome := protocol.Outcome{GameOver: true, Loser: loser}
		if len(d.players) == 2 {
			outcome.Winner = d.players[1-holders[0]].PlayerID
		} else if d.recordedWinner != "" && d.recordedWinner != loser {
			outcome.Winner = d.recordedWinner
		}
		return outcome
	}

	return protocol.Outcome{}
}

func (d *Durak) outcomeMessage(o protocol.Outcome) string {
	if o.IsDraw {
		return "game over, it's a draw"
	}
	name := o.Loser
	if idx, ok := d.playerIndex(o.Loser); ok && d.players[idx].Name != "" {
		name = d.players[idx].Name
	}
	return fmt.Sprintf("game over, %s is the durak", name)
}

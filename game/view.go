package game

import (
	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/protocol"
)

// View projects the game for one viewer. Hands are hidden except the
// viewer's own, until the game is finished and every hand is revealed.
func (d *Durak) View(viewerID string) protocol.GameView {
	attacker, defender := d.Attacker(), d.Defender()
	view := protocol.GameView{
		Status:       d.status.String(),
		AttackerID:   attacker.PlayerID,
		AttackerName: attacker.Name,
		DefenderID:   defender.PlayerID,
		DefenderName: defender.Name,
		DeckCount:    len(d.deck),
		Table:        []protocol.SlotView{},
		Players:      []protocol.PlayerView{},
	}

	if d.trumpSuit != nil {
		view.TrumpSuit = d.trumpSuit.String()
	}
	if d.trumpCard != nil {
		cv := d.cardView(*d.trumpCard)
		view.TrumpCard = &cv
	}

	for _, s := range d.table {
		sv := protocol.SlotView{
			Attack:     d.cardView(s.Attack),
			AttackerID: s.AttackerID,
			DefenderID: s.DefenderID,
		}
		if s.Defense != nil {
			cv := d.cardView(*s.Defense)
			sv.Defense = &cv
		}
		view.Table = append(view.Table, sv)
	}

	reveal := d.status == Finished
	for _, p := range d.players {
		hand := d.hands.get(p.PlayerID)
		pv := protocol.PlayerView{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			CardCount: len(hand),
			IsViewer:  p.PlayerID == viewerID,
			Cards:     []protocol.CardView{},
		}
		if pv.IsViewer || reveal {
			for i, c := range hand {
				cv := d.cardView(c)
				idx := i
				cv.HandIndex = &idx
				pv.Cards = append(pv.Cards, cv)
			}
		}
		view.Players = append(view.Players, pv)
	}

	if reveal {
		outcome := d.evaluate()
		view.Outcome = &outcome
	}

	return view
}

func (d *Durak) cardView(c deck.Card) protocol.CardView {
	return protocol.CardView{
		ID:       c.ID(),
		Rank:     c.Rank.String(),
		Suit:     c.Suit.String(),
		ImageURL: d.imageURL(c),
	}
}

// imageURL is a display-only reference, e.g. /static/cards/hearts/Q.png
func (d *Durak) imageURL(c deck.Card) string {
	return d.staticURL + "cards/" + c.Suit.String() + "/" + c.Rank.String() + ".png"
}

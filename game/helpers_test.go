package game

import (
	"testing"

	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/protocol"
	"github.com/stretchr/testify/require"
)

var (
	twoPlayers = func() []protocol.Player {
		return []protocol.Player{{PlayerID: "p1", Name: "Harry"}, {PlayerID: "p2", Name: "Sally"}}
	}
	threePlayers = func() []protocol.Player {
		return append(twoPlayers(), protocol.Player{PlayerID: "p3", Name: "Hermione"})
	}
	fourPlayers = func() []protocol.Player {
		return append(threePlayers(), protocol.Player{PlayerID: "p4", Name: "Horatio"})
	}
)

func card(id string) deck.Card {
	c, err := deck.ParseCard(id)
	if err != nil {
		panic(err)
	}
	return c
}

func cards(ids ...string) []deck.Card {
	cs := []deck.Card{}
	for _, id := range ids {
		cs = append(cs, card(id))
	}
	return cs
}

func cardPtr(id string) *deck.Card {
	c := card(id)
	return &c
}

func suitPtr(s deck.Suit) *deck.Suit {
	return &s
}

// stackedDeck puts the given cards at the front of an otherwise ordered full deck
func stackedDeck(front ...string) deck.Deck {
	d := deck.Deck(cards(front...))
	chosen := map[deck.Card]struct{}{}
	for _, c := range d {
		chosen[c] = struct{}{}
	}
	for _, c := range deck.New() {
		if _, ok := chosen[c]; !ok {
			d = append(d, c)
		}
	}
	return d
}

// spadesSnapshot is a game with spades as trump and the given holdings
func spadesSnapshot(turn string, hands map[string][]deck.Card, remaining []deck.Card, table ...Slot) Snapshot {
	if table == nil {
		table = []Slot{}
	}
	return Snapshot{
		Deck:              remaining,
		TrumpSuit:         suitPtr(deck.Spades),
		TrumpCardRevealed: cardPtr("8-spades"),
		Table:             table,
		Hands:             hands,
		CurrentTurn:       turn,
		Status:            Playing,
	}
}

func loadGame(t *testing.T, players []protocol.Player, snap Snapshot) *Durak {
	t.Helper()
	g, err := Load(players, snap, Opts{})
	require.NoError(t, err)
	return g
}

// headsUp is a two player game with p1 to attack and three cards left to draw
func headsUp(t *testing.T) *Durak {
	t.Helper()
	return loadGame(t, twoPlayers(), spadesSnapshot("p1",
		map[string][]deck.Card{
			"p1": cards("7-hearts", "7-clubs", "9-clubs", "10-diamonds", "K-spades", "6-diamonds"),
			"p2": cards("6-hearts", "10-hearts", "8-diamonds", "J-spades", "Q-clubs", "A-diamonds"),
		},
		cards("6-clubs", "8-clubs", "8-spades"),
	))
}

func beatenSlot(attack, defense, attacker, defender string) Slot {
	return Slot{Attack: card(attack), Defense: cardPtr(defense), AttackerID: attacker, DefenderID: defender}
}

func openSlot(attack, attacker string) Slot {
	return Slot{Attack: card(attack), AttackerID: attacker}
}

// allCards gathers every card the game still tracks
func allCards(g *Durak) []deck.Card {
	all := append([]deck.Card{}, g.deck...)
	all = append(all, tableCards(g.table)...)
	for _, p := range g.players {
		all = append(all, g.hands.get(p.PlayerID)...)
	}
	return all
}

// assertUniqueCards fails if any card appears more than once across the groups
func assertUniqueCards(t *testing.T, groups ...[]deck.Card) {
	t.Helper()

	seen := map[deck.Card]struct{}{}
	for _, group := range groups {
		for _, c := range group {
			if _, ok := seen[c]; ok {
				t.Errorf("card %s appears more than once", c)
			}
			seen[c] = struct{}{}
		}
	}
}

func inbound(playerID string, cmd protocol.Cmd, decision ...int) protocol.InboundMessage {
	return protocol.InboundMessage{PlayerID: playerID, Command: cmd, Decision: decision}
}

package game

import (
	"sort"

	"github.com/minaorangina/durak/deck"
)

// hands maps player id to that player's cards in deal/draw order
type hands map[string][]deck.Card

func (h hands) get(playerID string) []deck.Card {
	return h[playerID]
}

func (h hands) add(playerID string, cards ...deck.Card) {
	h[playerID] = append(h[playerID], cards...)
}

// resolveIndices picks the cards at the given indices from a hand, without
// touching it. The returned cards follow the order of indices.
func resolveIndices(hand []deck.Card, indices []int) ([]deck.Card, error) {
	seen := map[int]struct{}{}
	cards := make([]deck.Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(hand) {
			return nil, badIndex("invalid card index: %d", idx)
		}
		if _, ok := seen[idx]; ok {
			return nil, badIndex("card index %d chosen twice", idx)
		}
		seen[idx] = struct{}{}
		cards = append(cards, hand[idx])
	}
	return cards, nil
}

// removeIndices removes cards from a hand, highest index first so the
// remaining indices stay valid. The hand is only replaced once every
// removal has succeeded.
func (h hands) removeIndices(playerID string, indices []int) error {
	hand := append([]deck.Card{}, h[playerID]...)

	desc := append([]int{}, indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	for _, idx := range desc {
		if idx < 0 || idx >= len(hand) {
			return internal("could not remove card %d from the hand of %s", idx, playerID)
		}
		hand = append(hand[:idx], hand[idx+1:]...)
	}

	h[playerID] = hand
	return nil
}

// topUp draws from the deck until the hand holds 6 cards or the deck is empty
func (h hands) topUp(playerID string, d *deck.Deck) {
	for len(h[playerID]) < handSize {
		c, ok := d.Draw()
		if !ok {
			return
		}
		h.add(playerID, c)
	}
}

func (h hands) copy() map[string][]deck.Card {
	out := make(map[string][]deck.Card, len(h))
	for id, cards := range h {
		out[id] = append([]deck.Card{}, cards...)
	}
	return out
}

func copySlots(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Defense != nil {
			def := *s.Defense
			s.Defense = &def
		}
		out = append(out, s)
	}
	return out
}

func cardsUnique(groups ...[]deck.Card) bool {
	seen := map[deck.Card]struct{}{}
	for _, cards := range groups {
		for _, c := range cards {
			if _, ok := seen[c]; ok {
				return false
			}
			seen[c] = struct{}{}
		}
	}
	return true
}

func tableCards(table []Slot) []deck.Card {
	cards := []deck.Card{}
	for _, s := range table {
		cards = append(cards, s.Attack)
		if s.Defense != nil {
			cards = append(cards, *s.Defense)
		}
	}
	return cards
}

package deck

import (
	"math/rand"
	"time"
)

// Size is the number of cards in a Durak deck
const Size = 36

// Deck represents a deck of cards. Cards are drawn from the front.
type Deck []Card

// New creates an ordered 36-card deck, suit by suit
func New() Deck {
	cards := make(Deck, 0, Size)
	for suit := range suitNames {
		for rank := range rankNames {
			cards = append(cards, NewCard(Rank(rank), Suit(suit)))
		}
	}
	return cards
}

// Shuffle applies a uniform random permutation to the deck.
// A nil rng falls back to one seeded from the clock.
func (d Deck) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes and returns the card at the front of the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	c := (*d)[0]
	*d = (*d)[1:]
	return c, true
}

// Peek returns the card at the front without removing it.
func (d Deck) Peek() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[0], true
}

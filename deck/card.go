package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRank = errors.New("unknown rank")
	ErrUnknownSuit = errors.New("unknown suit")
	ErrBadCardID   = errors.New("card id must look like RANK-suit")
)

// Rank represents a rank in a Durak deck, six through ace
type Rank int

var rankNames = []string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}

const (
	Six Rank = iota
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit represents a suit in a deck of cards
type Suit int

var suitNames = []string{"hearts", "diamonds", "clubs", "spades"}

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

func (r Rank) valid() bool { return r >= Six && r <= Ace }

func (s Suit) valid() bool { return s >= Hearts && s <= Spades }

func (r Rank) String() string {
	if !r.valid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Value is the numeric strength of a rank: 6 for a six up to 14 for an ace.
func (r Rank) Value() int {
	return int(r) + 6
}

func (s Suit) String() string {
	if !s.valid() {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// ParseRank reads a rank name such as "10" or "Q". Lower case is accepted.
func ParseRank(name string) (Rank, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range rankNames {
		if n == name {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRank, name)
}

// ParseSuit reads a suit name such as "hearts".
func ParseSuit(name string) (Suit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range suitNames {
		if n == name {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSuit, name)
}

func (s Suit) MarshalJSON() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSuit, int(s))
	}
	return json.Marshal(s.String())
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSuit(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Card is a single playing card. Its identity is its rank and suit.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard constructs a card. It panics on out-of-range arguments,
// which only happens through programmer error.
func NewCard(rank Rank, suit Suit) Card {
	if !rank.valid() || !suit.valid() {
		panic(fmt.Sprintf("card out of range: rank %d suit %d", rank, suit))
	}
	return Card{Rank: rank, Suit: suit}
}

// ID is the textual identity of a card, e.g. "10-spades".
func (c Card) ID() string {
	return c.Rank.String() + "-" + c.Suit.String()
}

func (c Card) String() string {
	return c.ID()
}

// ParseCard is the inverse of Card.ID.
func ParseCard(id string) (Card, error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return Card{}, fmt.Errorf("%w: %q", ErrBadCardID, id)
	}
	rank, err := ParseRank(id[:idx])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(id[idx+1:])
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Rank.valid() || !c.Suit.valid() {
		return nil, fmt.Errorf("%w: rank %d suit %d", ErrBadCardID, c.Rank, c.Suit)
	}
	return json.Marshal(c.ID())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	parsed, err := ParseCard(id)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

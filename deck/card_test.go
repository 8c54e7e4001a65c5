package deck

import (
	"encoding/json"
	"testing"

	utils "github.com/minaorangina/durak/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard(t *testing.T) {
	cases := []struct {
		name     string
		card     Card
		expected string
	}{
		{"Lowest value card", NewCard(Six, Hearts), "6-hearts"},
		{"Ten has two characters", NewCard(Ten, Clubs), "10-clubs"},
		{"Highest value card", NewCard(Ace, Spades), "A-spades"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			utils.AssertEqual(t, c.card.ID(), c.expected)

			parsed, err := ParseCard(c.expected)
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, parsed, c.card)
		})
	}

	t.Run("Out of range (should panic)", func(t *testing.T) {
		assert.Panics(t, func() { NewCard(Ace+1, Hearts) })
		assert.Panics(t, func() { NewCard(Six, Spades+1) })
	})

	t.Run("rank values run from 6 to 14", func(t *testing.T) {
		utils.AssertEqual(t, Six.Value(), 6)
		utils.AssertEqual(t, Ten.Value(), 10)
		utils.AssertEqual(t, Jack.Value(), 11)
		utils.AssertEqual(t, Ace.Value(), 14)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		for _, id := range []string{"", "hearts", "7-", "-hearts", "5-hearts", "7-stars", "7hearts"} {
			_, err := ParseCard(id)
			utils.AssertErrored(t, err)
		}
	})

	t.Run("parsing is lenient about case", func(t *testing.T) {
		c, err := ParseCard("q-Diamonds")
		require.NoError(t, err)
		utils.AssertEqual(t, c, NewCard(Queen, Diamonds))
	})
}

func TestCardJSON(t *testing.T) {
	t.Run("cards are encoded by their id", func(t *testing.T) {
		data, err := json.Marshal([]Card{NewCard(Seven, Hearts), NewCard(Ace, Clubs)})
		require.NoError(t, err)
		assert.JSONEq(t, `["7-hearts","A-clubs"]`, string(data))

		var got []Card
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, []Card{NewCard(Seven, Hearts), NewCard(Ace, Clubs)}, got)
	})

	t.Run("suits are encoded by name", func(t *testing.T) {
		data, err := json.Marshal(Spades)
		require.NoError(t, err)
		assert.Equal(t, `"spades"`, string(data))

		var s Suit
		require.NoError(t, json.Unmarshal([]byte(`"diamonds"`), &s))
		assert.Equal(t, Diamonds, s)
	})

	t.Run("unknown cards fail to decode", func(t *testing.T) {
		var c Card
		assert.Error(t, json.Unmarshal([]byte(`"3-hearts"`), &c))
		assert.Error(t, json.Unmarshal([]byte(`7`), &c))
	})
}

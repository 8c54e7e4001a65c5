package game

import (
	"testing"

	"github.com/minaorangina/durak/deck"
	utils "github.com/minaorangina/durak/internal"
	"github.com/minaorangina/durak/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endgame(t *testing.T, players []protocol.Player, hands map[string][]deck.Card, opts Opts) *Durak {
	t.Helper()
	g, err := Load(players, spadesSnapshot("p1", hands, []deck.Card{}), opts)
	require.NoError(t, err)
	return g
}

func TestGameOver(t *testing.T) {
	t.Run("last player holding cards is the durak", func(t *testing.T) {
		g := endgame(t, twoPlayers(), map[string][]deck.Card{
			"p1": cards("7-hearts"),
			"p2": cards("10-hearts", "6-clubs", "6-diamonds", "9-diamonds"),
		}, Opts{})

		_, err := g.Attack("p1", []int{0})
		require.NoError(t, err)
		_, err = g.Defend("p2", 0, 0)
		require.NoError(t, err)
		utils.AssertEqual(t, g.Status(), Playing)

		res, err := g.PassOrBito("p1")
		require.NoError(t, err)

		require.NotNil(t, res.Outcome)
		assert.Equal(t, protocol.Outcome{GameOver: true, Loser: "p2", Winner: "p1"}, *res.Outcome)
		utils.AssertEqual(t, res.Action, ActionBito)
		utils.AssertEqual(t, res.Message, "game over, Sally is the durak")
		utils.AssertEqual(t, g.Status(), Finished)
	})

	t.Run("everyone out at once is a draw", func(t *testing.T) {
		g := endgame(t, twoPlayers(), map[string][]deck.Card{
			"p1": cards("7-hearts"),
			"p2": cards("10-hearts"),
		}, Opts{})

		_, err := g.Attack("p1", []int{0})
		require.NoError(t, err)
		_, err = g.Defend("p2", 0, 0)
		require.NoError(t, err)

		res, err := g.PassOrBito("p2")
		require.NoError(t, err)
		assert.Equal(t, protocol.Outcome{GameOver: true, IsDraw: true}, *res.Outcome)
		utils.AssertEqual(t, res.Message, "game over, it's a draw")
	})

	t.Run("a take can end the game", func(t *testing.T) {
		g := endgame(t, twoPlayers(), map[string][]deck.Card{
			"p1": cards("7-hearts"),
			"p2": cards("6-clubs", "6-diamonds"),
		}, Opts{})

		_, err := g.Attack("p1", []int{0})
		require.NoError(t, err)

		res, err := g.Take("p2")
		require.NoError(t, err)
		utils.AssertEqual(t, res.Action, ActionTake)
		assert.Equal(t, protocol.Outcome{GameOver: true, Loser: "p2", Winner: "p1"}, *res.Outcome)
		utils.AssertEqual(t, g.Attacker().PlayerID, "p1")
	})

	t.Run("three players: the winner comes from the room", func(t *testing.T) {
		hands := func() map[string][]deck.Card {
			return map[string][]deck.Card{
				"p1": cards("7-hearts"),
				"p2": cards("10-hearts", "6-clubs"),
				"p3": {},
			}
		}
		play := func(t *testing.T, g *Durak) *protocol.Outcome {
			_, err := g.Attack("p1", []int{0})
			require.NoError(t, err)
			_, err = g.Defend("p2", 0, 0)
			require.NoError(t, err)
			res, err := g.PassOrBito("p1")
			require.NoError(t, err)
			require.NotNil(t, res.Outcome)
			return res.Outcome
		}

		outcome := play(t, endgame(t, threePlayers(), hands(), Opts{RecordedWinner: "p3"}))
		assert.Equal(t, protocol.Outcome{GameOver: true, Loser: "p2", Winner: "p3"}, *outcome)

		outcome = play(t, endgame(t, threePlayers(), hands(), Opts{}))
		assert.Equal(t, protocol.Outcome{GameOver: true, Loser: "p2"}, *outcome)

		t.Log("The loser is never also the winner")
		outcome = play(t, endgame(t, threePlayers(), hands(), Opts{RecordedWinner: "p2"}))
		assert.Equal(t, protocol.Outcome{GameOver: true, Loser: "p2"}, *outcome)
	})

	t.Run("an empty hand is not the end while the deck has cards", func(t *testing.T) {
		g := loadGame(t, twoPlayers(), spadesSnapshot("p1",
			map[string][]deck.Card{
				"p1": cards("7-hearts", "9-clubs"),
				"p2": cards("10-hearts"),
			},
			cards("6-clubs", "8-clubs", "A-clubs", "J-diamonds", "Q-diamonds", "K-diamonds", "A-diamonds"),
		))

		_, err := g.Attack("p1", []int{0})
		require.NoError(t, err)
		_, err = g.Defend("p2", 0, 0)
		require.NoError(t, err)

		res, err := g.PassOrBito("p1")
		require.NoError(t, err)
		assert.Nil(t, res.Outcome)
		utils.AssertEqual(t, g.Status(), Playing)
		utils.AssertEqual(t, g.DeckCount(), 2)
		assert.Equal(t, []string{"p2"}, g.EmptyHanded())
		utils.AssertEqual(t, g.Attacker().PlayerID, "p2")
	})

	t.Run("a finished game rejects every action", func(t *testing.T) {
		g := endgame(t, twoPlayers(), map[string][]deck.Card{
			"p1": cards("7-hearts"),
			"p2": cards("6-clubs", "6-diamonds"),
		}, Opts{})
		_, err := g.Attack("p1", []int{0})
		require.NoError(t, err)
		_, err = g.Take("p2")
		require.NoError(t, err)

		assertRejected(t, g, ErrIllegalAction, func() (Result, error) { return g.Attack("p1", []int{0}) })
		assertRejected(t, g, ErrIllegalAction, func() (Result, error) { return g.Defend("p2", 0, 0) })
		assertRejected(t, g, ErrIllegalAction, func() (Result, error) { return g.Take("p2") })
		assertRejected(t, g, ErrIllegalAction, func() (Result, error) { return g.PassOrBito("p1") })
	})
}

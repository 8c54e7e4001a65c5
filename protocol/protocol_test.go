package protocol

import (
	"encoding/json"
	"testing"

	utils "github.com/minaorangina/durak/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmd(t *testing.T) {
	t.Run("moves", func(t *testing.T) {
		for _, cmd := range []Cmd{Attack, Defend, Take, PassOrBito} {
			assert.True(t, cmd.IsMove(), cmd.String())
		}
		for _, cmd := range []Cmd{Null, Start, State, GameOver, Error} {
			assert.False(t, cmd.IsMove(), cmd.String())
		}
	})

	t.Run("encodes as a name", func(t *testing.T) {
		data, err := json.Marshal(OutboundMessage{Command: GameOver})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"command":"GameOver"`)
	})

	t.Run("decodes names in any case", func(t *testing.T) {
		tt := map[string]Cmd{
			`"Attack"`:     Attack,
			`"defend"`:     Defend,
			`"TAKE"`:       Take,
			`"pass_bito"`:  PassOrBito,
			`"PassOrBito"`: PassOrBito,
		}
		for raw, want := range tt {
			var msg InboundMessage
			err := json.Unmarshal([]byte(`{"playerID":"p1","command":`+raw+`,"decision":[0]}`), &msg)
			require.NoError(t, err, raw)
			utils.AssertEqual(t, msg.Command, want)
		}

		var msg InboundMessage
		assert.Error(t, json.Unmarshal([]byte(`{"command":"shuffle"}`), &msg))
	})
}

package game

import (
	"github.com/minaorangina/durak/protocol"
)

// BuildResultMessage turns the result of a move into the reply for the
// player who made it
func BuildResultMessage(playerID string, cmd protocol.Cmd, res Result, err error) protocol.OutboundMessage {
	if err != nil {
		return BuildErrorMessage(playerID, err)
	}

	msg := protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  cmd,
		Success:  true,
		Message:  res.Message,
		Action:   string(res.Action),
	}

	if res.Outcome != nil && res.Outcome.GameOver {
		msg.Command = protocol.GameOver
		msg.GameOver = true
		msg.IsDraw = res.Outcome.IsDraw
		msg.Winner = res.Outcome.Winner
		msg.Loser = res.Outcome.Loser
	}

	return msg
}

// BuildErrorMessage reports a rejected move
func BuildErrorMessage(playerID string, err error) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.Error,
		Success:  false,
		Message:  err.Error(),
		Error:    KindName(err),
	}
}

// BuildStateMessage carries a player's view of the game
func BuildStateMessage(playerID string, view protocol.GameView) protocol.OutboundMessage {
	msg := protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.State,
		Success:  true,
		State:    &view,
	}
	if view.Outcome != nil {
		msg.GameOver = view.Outcome.GameOver
		msg.IsDraw = view.Outcome.IsDraw
		msg.Winner = view.Outcome.Winner
		msg.Loser = view.Outcome.Loser
	}
	return msg
}

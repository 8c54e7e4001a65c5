package game

import (
	"encoding/json"
	"fmt"
)

// Status represents where a started game is in its lifecycle.
// A room that has not started yet has no game at all.
type Status int

const (
	Playing Status = iota
	Finished
)

var statusNames = []string{"playing", "finished"}

func (s Status) String() string {
	if s < Playing || s > Finished {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "", "playing":
		*s = Playing
	case "finished":
		*s = Finished
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSnapshot, name)
	}
	return nil
}

// Action names what an accepted action did
type Action string

const (
	ActionAttack         Action = "attack"
	ActionDefend         Action = "defend"
	ActionTake           Action = "take"
	ActionBito           Action = "bito"
	ActionAttackerPassed Action = "attacker_passed"
)

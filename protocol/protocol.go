package protocol

import (
	"fmt"
	"strings"
)

// Cmd represents a command
type Cmd int

const (
	Null Cmd = iota
	NewJoiner
	PlayerLeft
	Start
	HasStarted
	Error
	Attack
	Defend
	Take
	PassOrBito
	State
	GameOver
)

var CmdNames = map[Cmd]string{
	Null:       "Null",
	NewJoiner:  "NewJoiner",
	PlayerLeft: "PlayerLeft",
	Start:      "Start",
	HasStarted: "HasStarted",
	Error:      "Error",
	Attack:     "Attack",
	Defend:     "Defend",
	Take:       "Take",
	PassOrBito: "PassOrBito",
	State:      "State",
	GameOver:   "GameOver",
}

var NameToCmd = map[string]Cmd{}

func init() {
	for cmd, name := range CmdNames {
		NameToCmd[name] = cmd
	}
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// IsMove reports whether the command is one of the four game actions
func (c Cmd) IsMove() bool {
	switch c {
	case Attack, Defend, Take, PassOrBito:
		return true
	}
	return false
}

func (c Cmd) MarshalText() ([]byte, error) {
	name, ok := CmdNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown command %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText accepts command names in any case, plus "pass_bito"
func (c *Cmd) UnmarshalText(text []byte) error {
	name := string(text)
	if strings.EqualFold(name, "pass_bito") || strings.EqualFold(name, "bito") {
		*c = PassOrBito
		return nil
	}
	for cmd, n := range CmdNames {
		if strings.EqualFold(n, name) {
			*c = cmd
			return nil
		}
	}
	return fmt.Errorf("unknown command %q", name)
}

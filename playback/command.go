package playback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matt-g-everett/animtx/scene"
)

// ErrInvalidState is returned when a transport command is not allowed in the
// current mode.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidArgument is returned for a tempo that is not positive.
var ErrInvalidArgument = scene.ErrInvalidArgument

// ErrClosed is returned once the controller loop has exited.
var ErrClosed = errors.New("controller closed")

// Mode of the playback state machine.
type Mode int

// Playback modes.
const (
	Stopped Mode = iota
	Running
	Paused
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Command names a transport action. Keyboard, HTTP and MQTT front ends all
// map onto these.
type Command string

// Transport commands.
const (
	CommandStart   Command = "start"
	CommandPause   Command = "pause"
	CommandResume  Command = "resume"
	CommandRestart Command = "restart"
	CommandLoop    Command = "loop"
	CommandUnloop  Command = "stop-loop"
	CommandFaster  Command = "faster"
	CommandSlower  Command = "slower"
	CommandTempo   Command = "tempo"
	CommandStop    Command = "stop"
)

var commandAliases = map[string]Command{
	"start":          CommandStart,
	"play":           CommandStart,
	"pause":          CommandPause,
	"resume":         CommandResume,
	"restart":        CommandRestart,
	"loop":           CommandLoop,
	"stop-loop":      CommandUnloop,
	"stoploop":       CommandUnloop,
	"unloop":         CommandUnloop,
	"faster":         CommandFaster,
	"increase-speed": CommandFaster,
	"increasespeed":  CommandFaster,
	"slower":         CommandSlower,
	"decrease-speed": CommandSlower,
	"decreasespeed":  CommandSlower,
	"tempo":          CommandTempo,
	"set-tempo":      CommandTempo,
	"settempo":       CommandTempo,
	"stop":           CommandStop,
}

// ParseCommand maps a command name, case-insensitively, onto a Command.
func ParseCommand(s string) (Command, error) {
	c, ok := commandAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, s)
	}
	return c, nil
}

// TakesTempo reports whether the command reads its numeric argument.
func (c Command) TakesTempo() bool {
	return c == CommandStart || c == CommandTempo
}

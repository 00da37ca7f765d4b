// Package uicommand tokenizes free-form external operator input into
// spec §6's fixed UI command set. The distilled spec only names the four
// commands; original_source/src/messages/ui_messages.rs does the same
// and leaves parsing to its caller, so this package supplies the minimal
// concrete surface needed to drive the game loop from a process
// boundary — tokenizing with shlex the way the teacher's cmd/user
// entrypoint tokenizes its own command lines.
package uicommand

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Command is one of spec §6's UI command names.
type Command string

const (
	StartGame Command = "StartGame"
	StopGame  Command = "StopGame"
	ResetGame Command = "ResetGame"
	EndGame   Command = "EndGame"
)

func (c Command) String() string { return string(c) }

// Parse tokenizes a raw operator line and resolves its first token to a
// known Command name, case-insensitively. Trailing tokens are accepted
// but currently ignored — the command set carries no arguments.
func Parse(line string) (Command, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return "", fmt.Errorf("uicommand: tokenizing %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return "", fmt.Errorf("uicommand: empty command")
	}
	switch strings.ToLower(tokens[0]) {
	case "startgame":
		return StartGame, nil
	case "stopgame":
		return StopGame, nil
	case "resetgame":
		return ResetGame, nil
	case "endgame":
		return EndGame, nil
	default:
		return "", fmt.Errorf("uicommand: unknown command %q", tokens[0])
	}
}

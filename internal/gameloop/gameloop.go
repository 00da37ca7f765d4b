// Package gameloop implements spec §4.6 (C6): priority selection between
// an external UI command and the internal tick, with the command table
// driving transitions of the game's own coarse state.
package gameloop

import (
	"context"
	"fmt"
	"time"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/orchestrator"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/settings"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/uicommand"
)

// GameState is the loop's own coarse state, distinct from any single
// actor's status.
type GameState int

const (
	WaitingStart GameState = iota
	Running
	Paused
)

func (s GameState) String() string {
	switch s {
	case WaitingStart:
		return "WaitingStart"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Loop drives the orchestrator per spec §4.6's priority table.
type Loop struct {
	orch     *orchestrator.Orchestrator
	settings *settings.Settings
	state    GameState
	reinit   func() (*orchestrator.Orchestrator, error)
}

// New constructs a Loop. reinit re-parses the configured topology source
// and returns a fresh Orchestrator, used to implement ResetGame (spec §9:
// "kill all, then re-initialize from the same source file").
func New(orch *orchestrator.Orchestrator, s *settings.Settings, reinit func() (*orchestrator.Orchestrator, error)) *Loop {
	return &Loop{orch: orch, settings: s, state: WaitingStart, reinit: reinit}
}

// State returns the loop's current coarse state.
func (l *Loop) State() GameState { return l.state }

// Run drives the priority-selection loop until a UI command yields
// EndGame, or ctx is cancelled. commands is the external UI command
// source (spec §6's UI command set, tokenized by internal/uicommand).
func (l *Loop) Run(ctx context.Context, commands <-chan string) error {
	ticker := time.NewTicker(l.settings.TickPeriod)
	defer ticker.Stop()
	for {
		// Priority 1: service a ready UI command without waiting on the
		// tick, per spec §4.6 ("external UI command" outranks the tick).
		select {
		case raw := <-commands:
			if err := l.handleCommand(raw); err != nil {
				return err
			}
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw := <-commands:
			if err := l.handleCommand(raw); err != nil {
				return err
			}
		case <-ticker.C:
			if l.state == Running {
				l.orch.Tick()
			}
			l.orch.DrainAll()
		}
	}
}

func (l *Loop) handleCommand(raw string) error {
	cmd, err := uicommand.Parse(raw)
	if err != nil {
		galaxylog.Warn("gameloop", "invalid UI command", "input", raw, "error", err.Error())
		return nil
	}
	return l.dispatch(cmd)
}

// dispatch implements spec §4.6's command table.
func (l *Loop) dispatch(cmd uicommand.Command) error {
	switch {
	case cmd == uicommand.EndGame:
		l.orch.KillAll()
		return fmt.Errorf("terminated")
	case l.state == WaitingStart && cmd == uicommand.StartGame:
		if err := l.orch.StartAll(); err != nil {
			return err
		}
		l.state = Running
	case l.state == Paused && cmd == uicommand.StartGame:
		l.state = Running
	case l.state == Running && cmd == uicommand.StopGame:
		l.orch.StopAll()
		l.state = Paused
	case cmd == uicommand.ResetGame:
		return l.reset()
	default:
		galaxylog.Warn("gameloop", fmt.Sprintf("invalid command %s in state %s", cmd, l.state))
	}
	return nil
}

// reset implements spec §9's resolution of the ResetGame open question:
// kill all, then re-initialize from the same configured source.
func (l *Loop) reset() error {
	l.orch.KillAll()
	fresh, err := l.reinit()
	if err != nil {
		return err
	}
	l.orch = fresh
	l.state = WaitingStart
	return nil
}

// Package planet defines the Planet actor's contract (spec §4.2): the
// orchestrator only depends on this interface plus the channel pairs it
// is constructed with, never on a concrete planet implementation — the
// concrete variants live in internal/planetregistry.
package planet

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// Status mirrors spec §3's PlanetStatus variants and transitions:
// Paused -> Running on StartPlanetAIResult, Running -> Dead on
// KillPlanetResult, Dead is terminal.
type Status int

const (
	Paused Status = iota
	Running
	Dead
)

func (s Status) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Info is the orchestrator's lazily-populated view of a planet (spec
// §3's PlanetInfo). EnergyCells, ChargedCount and HasRocket are filled in
// as InternalStateResponse replies arrive; the orchestrator never fills
// SupportedBasic or SupportedComplex.
type Info struct {
	Status          Status
	EnergyCells     []bool
	ChargedCount    int
	HasRocket       bool
	SupportedBasic  map[resource.Basic]struct{}
	SupportedComplex map[resource.Complex]struct{}
	TypeTag         int
}

// Planet is the actor contract every concrete variant must satisfy: a
// goroutine-backed worker consuming from its two receive-ends. Run
// blocks until the planet processes KillPlanet or one of its receive
// channels closes; a planet marked Dead by an asteroid keeps running
// until that KillPlanet arrives. Callers invoke it with `go p.Run()`.
type Planet interface {
	// ID returns this planet's address.
	ID() topology.ID
	// Run drives the planet's message loop until termination.
	Run()
}

// Factory is the signature of a constructor wiring a Planet actor to its
// channel endpoints. planetregistry.Registry.Spawn does not use this
// type; it builds planets directly from its variant table.
type Factory func(id topology.ID, fromOrch <-chan protocol.OPMsg, toOrch chan<- protocol.POMsg,
	fromExplorer <-chan protocol.EPMsg) Planet

// Package explorer implements the Explorer actor of spec §4.3: the state
// machine with its message-buffering discipline, the bag-backed and
// relocation handlers, survey composition, and the utility-driven AI.
//
// Per the §9 design note ("message-to-state coupling"), state is modeled
// as a tagged variant (Phase, below) and acceptance is a pure function
// (AcceptsOrch / AcceptsPlanet) kept entirely separate from effect (the handlers in
// handlers.go) — a buffered message replayed later is checked against
// exactly the same predicate it was checked against on arrival.
package explorer

import "github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"

// Phase enumerates the explorer's state-machine states (spec §4.3).
type Phase int

const (
	WaitingToStart Phase = iota
	Idle
	WaitingForNeighbours
	Traveling
	GeneratingResource
	CombiningResources
	Surveying
	Killed
)

func (p Phase) String() string {
	switch p {
	case WaitingToStart:
		return "WaitingToStart"
	case Idle:
		return "Idle"
	case WaitingForNeighbours:
		return "WaitingForNeighbours"
	case Traveling:
		return "Traveling"
	case GeneratingResource:
		return "GeneratingResource"
	case CombiningResources:
		return "CombiningResources"
	case Surveying:
		return "Surveying"
	case Killed:
		return "Killed"
	default:
		return "Unknown"
	}
}

// State is the explorer's full tagged state, carrying the per-phase data
// spec §4.3 describes (the boolean flags of GeneratingResource,
// CombiningResources and the five-flag Surveying state).
type State struct {
	Phase Phase

	// GeneratingResource / CombiningResources flag: does completion owe
	// the orchestrator a reply, or was this AI-initiated?
	ExpectOrchReply bool

	// Surveying sub-state: which replies are still outstanding, and
	// which of the completed results must additionally be forwarded to
	// the orchestrator.
	SurveyResourcesPending    bool
	SurveyCombinationsPending bool
	SurveyEnergyPending       bool
	ForwardResourcesToOrch    bool
	ForwardCombinationsToOrch bool
}

// IdleState returns the canonical Idle state value.
func IdleState() State { return State{Phase: Idle} }

// SurveyingDone reports whether every sub-flag of a Surveying state has
// cleared, meaning the state should return to Idle.
func (s State) SurveyingDone() bool {
	return !s.SurveyResourcesPending && !s.SurveyCombinationsPending && !s.SurveyEnergyPending
}

// Status mirrors spec §3's ExplorerStatus, the orchestrator's coarse view
// of an explorer distinct from its internal Phase.
type Status int

const (
	StatusPaused Status = iota
	StatusRunning
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "Paused"
	case StatusRunning:
		return "Running"
	case StatusDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// PendingDestination tracks an in-flight relocation, mirrored by the
// orchestrator's ExplorerInfo.
type PendingDestination struct {
	PlanetID topology.ID
	Set      bool
}

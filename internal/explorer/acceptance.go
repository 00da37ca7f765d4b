package explorer

import "github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"

// AcceptsOrch is the pure acceptance predicate for orchestrator-sourced
// messages (spec §4.3's acceptance table). It never mutates state and
// never produces an effect — only handlers in handlers.go do that — so a
// buffered message replayed later is checked against exactly the
// predicate it failed against on arrival.
func AcceptsOrch(s State, msg protocol.OEMsg) bool {
	if _, ok := msg.(protocol.KillExplorer); ok {
		return true // preemptive in every state
	}
	switch s.Phase {
	case Idle:
		return true
	case WaitingToStart:
		_, ok := msg.(protocol.StartExplorerAI)
		return ok
	case WaitingForNeighbours:
		_, ok := msg.(protocol.NeighborsResponse)
		return ok
	case Traveling:
		_, ok := msg.(protocol.MoveToPlanet)
		return ok
	case Surveying:
		// The orchestrator never injects survey replies; only the
		// planet does (see AcceptsPlanet). Orchestrator-sourced control
		// messages besides KillExplorer are buffered while surveying.
		return false
	case GeneratingResource, CombiningResources:
		return false
	case Killed:
		return false
	default:
		return false
	}
}

// AcceptsPlanet is the pure acceptance predicate for planet-sourced
// messages.
func AcceptsPlanet(s State, msg protocol.PEMsg) bool {
	switch s.Phase {
	case Idle:
		return true
	case GeneratingResource:
		_, ok := msg.(protocol.PEGenerateResourceResponse)
		return ok
	case CombiningResources:
		_, ok := msg.(protocol.PECombineResourceResponse)
		return ok
	case Surveying:
		switch msg.(type) {
		case protocol.PESupportedResourceResponse:
			return s.SurveyResourcesPending
		case protocol.PESupportedCombinationResponse:
			return s.SurveyCombinationsPending
		case protocol.PEAvailableEnergyCellResponse:
			return s.SurveyEnergyPending
		default:
			return false
		}
	default:
		return false
	}
}

package explorer

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
)

// dispatchOrch performs the effect for an accepted orchestrator-sourced
// message. Acceptance (acceptance.go) has already been checked — this
// function never re-checks it, keeping acceptance and effect separate
// per the §9 design note.
func (e *Explorer) dispatchOrch(msg protocol.OEMsg) {
	switch m := msg.(type) {
	case protocol.StartExplorerAI:
		e.status = StatusRunning
		e.state = IdleState()
		e.toOrch <- protocol.StartExplorerAIResult{ID: e.id}
	case protocol.StopExplorerAI:
		e.status = StatusPaused
		e.toOrch <- protocol.StopExplorerAIResult{ID: e.id}
	case protocol.ResetExplorerAI:
		e.cache.Reset()
		e.bufOrch = buffer[protocol.OEMsg]{}
		e.bufPlanet = buffer[protocol.PEMsg]{}
		e.state = IdleState()
		e.toOrch <- protocol.ResetExplorerAIResult{ID: e.id}
	case protocol.MoveToPlanet:
		e.handleMoveToPlanet(m)
	case protocol.CurrentPlanetRequest:
		e.toOrch <- protocol.CurrentPlanetResult{ID: e.id, PlanetID: e.currentPlanet}
	case protocol.SupportedResourceRequest:
		e.handleSupportedResourceRequest(true)
	case protocol.SupportedCombinationRequest:
		e.handleSupportedCombinationRequest(true)
	case protocol.GenerateResourceRequest:
		e.beginGenerate(m.Basic, true)
	case protocol.CombineResourceRequest:
		e.beginCombine(m.Complex, true)
	case protocol.BagContentRequest:
		e.toOrch <- protocol.BagContentResponse{ID: e.id, Snapshot: e.bag.Snapshot()}
	case protocol.NeighborsResponse:
		entry := e.cache.Entry(e.currentPlanet)
		entry.Neighbors = m.IDs
		entry.HasNeighbors = true
		entry.TimestampNeighbors = e.now
		e.state = IdleState()
	}
}

// dispatchPlanet performs the effect for an accepted planet-sourced
// message.
func (e *Explorer) dispatchPlanet(msg protocol.PEMsg) {
	switch m := msg.(type) {
	case protocol.PESupportedResourceResponse:
		entry := e.cache.Entry(e.currentPlanet)
		entry.Basic = m.Set
		entry.HasBasic = true
		if e.state.ForwardResourcesToOrch {
			e.toOrch <- protocol.SupportedResourceResult{ID: e.id, Set: m.Set}
		}
		e.state.SurveyResourcesPending = false
		e.settleSurveyIfDone()
	case protocol.PESupportedCombinationResponse:
		entry := e.cache.Entry(e.currentPlanet)
		entry.Complex = m.Set
		entry.HasComplex = true
		if e.state.ForwardCombinationsToOrch {
			e.toOrch <- protocol.SupportedCombinationResult{ID: e.id, Set: m.Set}
		}
		e.state.SurveyCombinationsPending = false
		e.settleSurveyIfDone()
	case protocol.PEAvailableEnergyCellResponse:
		entry := e.cache.Entry(e.currentPlanet)
		prevCharged := entry.EnergyCells
		prevTimestamp := entry.TimestampEnergy
		if entry.HasEnergy && e.now > prevTimestamp {
			entry.ChargeRate = float64(m.Count-prevCharged) / float64(e.now-prevTimestamp)
		}
		entry.EnergyCells = m.Count
		entry.TimestampEnergy = e.now
		entry.HasEnergy = true
		e.state.SurveyEnergyPending = false
		e.settleSurveyIfDone()
	case protocol.PEGenerateResourceResponse:
		expectReply := e.state.ExpectOrchReply
		if m.Result != nil {
			e.bag.Insert(m.Result.AsType())
		}
		e.state = IdleState()
		if expectReply {
			e.toOrch <- protocol.GenResult{ID: e.id, Result: m.Result}
		}
	case protocol.PECombineResourceResponse:
		expectReply := e.state.ExpectOrchReply
		o := m.Outcome
		if o.Ok {
			e.bag.Insert(o.Complex.AsType())
		} else {
			resource.RestoreIngredients(e.bag, o.A, o.B)
		}
		e.state = IdleState()
		if expectReply {
			var result *resource.Complex
			if o.Ok {
				c := o.Complex
				result = &c
			}
			e.toOrch <- protocol.CombResult{ID: e.id, Result: result}
		}
	}
}

func (e *Explorer) settleSurveyIfDone() {
	if e.state.SurveyingDone() {
		e.state = IdleState()
	}
}

// handleMoveToPlanet implements spec §4.3's relocation handler.
func (e *Explorer) handleMoveToPlanet(m protocol.MoveToPlanet) {
	if m.Send != nil {
		e.planetSend = m.Send
		e.currentPlanet = m.PlanetID
	}
	e.pendingDest = PendingDestination{}
	e.state = IdleState()
}

// handleSupportedResourceRequest serves the cache if populated
// (idempotent per spec §8), else surveys the current planet for just
// the resource set, forwarding the eventual reply to the orchestrator.
func (e *Explorer) handleSupportedResourceRequest(forward bool) {
	entry := e.cache.Entry(e.currentPlanet)
	if entry.HasBasic {
		if forward {
			e.toOrch <- protocol.SupportedResourceResult{ID: e.id, Set: entry.Basic}
		}
		return
	}
	e.state = State{Phase: Surveying, SurveyResourcesPending: true, ForwardResourcesToOrch: forward}
	e.planetSend <- protocol.EPSupportedResourceRequest{ExplorerID: e.id}
}

func (e *Explorer) handleSupportedCombinationRequest(forward bool) {
	entry := e.cache.Entry(e.currentPlanet)
	if entry.HasComplex {
		if forward {
			e.toOrch <- protocol.SupportedCombinationResult{ID: e.id, Set: entry.Complex}
		}
		return
	}
	e.state = State{Phase: Surveying, SurveyCombinationsPending: true, ForwardCombinationsToOrch: forward}
	e.planetSend <- protocol.EPSupportedCombinationRequest{ExplorerID: e.id}
}

// beginSurveyAll enters the conjunctive Surveying state and dispatches
// all three planet requests in spec §4.3's order: supported-resources,
// supported-combinations, available-energy-cells. Used only by the AI,
// which needs all three to score candidate actions; orchestrator-
// initiated surveys ask for one thing at a time (handleSupported*).
func (e *Explorer) beginSurveyAll() {
	e.state = State{Phase: Surveying, SurveyResourcesPending: true, SurveyCombinationsPending: true, SurveyEnergyPending: true}
	e.planetSend <- protocol.EPSupportedResourceRequest{ExplorerID: e.id}
	e.planetSend <- protocol.EPSupportedCombinationRequest{ExplorerID: e.id}
	e.planetSend <- protocol.EPAvailableEnergyCellRequest{ExplorerID: e.id}
}

// beginGenerate forwards a GenerateResourceRequest to the current
// planet, transitioning to GeneratingResource.
func (e *Explorer) beginGenerate(b resource.Basic, expectOrchReply bool) {
	e.state = State{Phase: GeneratingResource, ExpectOrchReply: expectOrchReply}
	e.planetSend <- protocol.EPGenerateResourceRequest{ExplorerID: e.id, Basic: b}
}

// beginCombine synchronously withdraws the recipe's two ingredients from
// the bag; on failure it never contacts the planet and returns to Idle
// immediately (spec scenario D). On success it forwards the withdrawn
// ingredients to the planet so the planet can validate them without
// trusting the explorer, and transitions to CombiningResources.
func (e *Explorer) beginCombine(c resource.Complex, expectOrchReply bool) {
	a, b, ok := resource.WithdrawIngredients(e.bag, c)
	if !ok {
		if expectOrchReply {
			e.toOrch <- protocol.CombResult{ID: e.id, Result: nil}
		}
		e.state = IdleState()
		return
	}
	e.state = State{Phase: CombiningResources, ExpectOrchReply: expectOrchReply}
	e.planetSend <- protocol.EPCombineResourceRequest{
		ExplorerID: e.id,
		Request:    protocol.ComplexRequest{Complex: c, A: a, B: b},
	}
}

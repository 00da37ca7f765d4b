package planetregistry

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// actor is the single concrete Planet implementation; every registry tag
// produces one of these configured with a different Variant. Grounded on
// the teacher's cmd/user/user.go main loop shape: one goroutine, a
// blocking multi-way select, no operation blocks while holding state.
type actor struct {
	id      topology.ID
	variant Variant
	status  planet.Status

	cells     []bool // true == charged
	hasRocket bool

	explorers map[topology.ID]chan<- protocol.PEMsg

	fromOrch     <-chan protocol.OPMsg
	toOrch       chan<- protocol.POMsg
	fromExplorer <-chan protocol.EPMsg
}

func newActor(id topology.ID, v Variant, fromOrch <-chan protocol.OPMsg, toOrch chan<- protocol.POMsg,
	fromExplorer <-chan protocol.EPMsg) *actor {
	cells := make([]bool, v.Cells)
	return &actor{
		id:           id,
		variant:      v,
		status:       planet.Paused,
		cells:        cells,
		hasRocket:    v.HasRocket,
		explorers:    make(map[topology.ID]chan<- protocol.PEMsg),
		fromOrch:     fromOrch,
		toOrch:       toOrch,
		fromExplorer: fromExplorer,
	}
}

func (a *actor) ID() topology.ID { return a.id }

// Run drives the planet's loop until KillPlanet or channel disconnection.
// It never blocks while holding a mutable reference to shared state —
// the planet's own fields are owned exclusively by this goroutine.
func (a *actor) Run() {
	for {
		select {
		case msg, ok := <-a.fromOrch:
			if !ok {
				galaxylog.Log(galaxylog.Dropped(a.name(), "orchestrator", "O->P", "channel", "closed"))
				return
			}
			if a.handleOrch(msg) {
				galaxylog.Log(galaxylog.Sent(a.name(), "orchestrator", "P->O", "Stopped"))
				a.toOrch <- protocol.Stopped{ID: a.id}
				return
			}
		case msg, ok := <-a.fromExplorer:
			if !ok {
				return
			}
			a.handleExplorer(msg)
		}
	}
}

func (a *actor) name() string { return "planet" }

// handleOrch processes one orchestrator-originated message and reports
// whether the actor's loop must terminate (KillPlanet processed).
func (a *actor) handleOrch(msg protocol.OPMsg) bool {
	switch m := msg.(type) {
	case protocol.StartPlanetAI:
		a.status = planet.Running
		a.toOrch <- protocol.StartPlanetAIResult{ID: a.id}
	case protocol.StopPlanetAI:
		if a.status != planet.Dead {
			a.status = planet.Paused
		}
		a.toOrch <- protocol.StopPlanetAIResult{ID: a.id}
	case protocol.KillPlanet:
		a.status = planet.Dead
		a.toOrch <- protocol.KillPlanetResult{ID: a.id}
		return true
	case protocol.Sunray:
		a.handleSunray()
	case protocol.Asteroid:
		a.handleAsteroid()
	case protocol.InternalStateRequest:
		a.toOrch <- protocol.InternalStateResponse{ID: a.id, Snapshot: a.snapshot()}
	case protocol.IncomingExplorerRequest:
		a.handleIncomingExplorer(m)
	case protocol.OutgoingExplorerRequest:
		delete(a.explorers, m.ExplorerID)
		a.toOrch <- protocol.OutgoingExplorerResponse{ID: a.id, ExplorerID: m.ExplorerID, Ok: true}
	default:
		galaxylog.Log(galaxylog.Dropped(a.name(), "orchestrator", "O->P", "unknown", "protocol violation"))
	}
	return false
}

func (a *actor) handleSunray() {
	if a.status != planet.Running {
		return
	}
	for i, charged := range a.cells {
		if !charged {
			a.cells[i] = true
			break
		}
	}
	a.toOrch <- protocol.SunrayAck{ID: a.id}
}

func (a *actor) handleAsteroid() {
	if a.status != planet.Running {
		return
	}
	if a.hasRocket {
		deflected := "deflected"
		a.toOrch <- protocol.AsteroidAck{ID: a.id, Rocket: &deflected}
		return
	}
	a.status = planet.Dead
	a.toOrch <- protocol.AsteroidAck{ID: a.id, Rocket: nil}
}

func (a *actor) snapshot() protocol.InternalStateSnapshot {
	charged := 0
	cellsCopy := make([]bool, len(a.cells))
	copy(cellsCopy, a.cells)
	for _, c := range a.cells {
		if c {
			charged++
		}
	}
	return protocol.InternalStateSnapshot{EnergyCells: cellsCopy, ChargedCount: charged, HasRocket: a.hasRocket}
}

func (a *actor) handleIncomingExplorer(m protocol.IncomingExplorerRequest) {
	if len(a.explorers) >= a.variant.ExplorerCapacity {
		a.toOrch <- protocol.IncomingExplorerResponse{ID: a.id, ExplorerID: m.ExplorerID, Ok: false}
		return
	}
	a.explorers[m.ExplorerID] = m.ExplorerSend
	a.toOrch <- protocol.IncomingExplorerResponse{ID: a.id, ExplorerID: m.ExplorerID, Ok: true}
}

func (a *actor) handleExplorer(msg protocol.EPMsg) {
	switch m := msg.(type) {
	case protocol.EPSupportedResourceRequest:
		a.reply(m.ExplorerID, protocol.PESupportedResourceResponse{Set: a.variant.Basic})
	case protocol.EPSupportedCombinationRequest:
		a.reply(m.ExplorerID, protocol.PESupportedCombinationResponse{Set: a.variant.Complex})
	case protocol.EPGenerateResourceRequest:
		a.handleGenerate(m)
	case protocol.EPCombineResourceRequest:
		a.handleCombine(m)
	case protocol.EPAvailableEnergyCellRequest:
		a.reply(m.ExplorerID, protocol.PEAvailableEnergyCellResponse{Count: a.chargedCount()})
	}
}

func (a *actor) reply(explorerID topology.ID, msg protocol.PEMsg) {
	send, ok := a.explorers[explorerID]
	if !ok {
		galaxylog.Log(galaxylog.Dropped(a.name(), "explorer", "P->E", "reply", "unregistered explorer"))
		return
	}
	send <- msg
}

func (a *actor) chargedCount() int {
	n := 0
	for _, c := range a.cells {
		if c {
			n++
		}
	}
	return n
}

func (a *actor) handleGenerate(m protocol.EPGenerateResourceRequest) {
	if a.status != planet.Running {
		a.reply(m.ExplorerID, protocol.PEGenerateResourceResponse{Result: nil})
		return
	}
	if _, supported := a.variant.Basic[m.Basic]; !supported {
		a.reply(m.ExplorerID, protocol.PEGenerateResourceResponse{Result: nil})
		return
	}
	for i, charged := range a.cells {
		if charged {
			a.cells[i] = false
			b := m.Basic
			a.reply(m.ExplorerID, protocol.PEGenerateResourceResponse{Result: &b})
			return
		}
	}
	a.reply(m.ExplorerID, protocol.PEGenerateResourceResponse{Result: nil})
}

func (a *actor) handleCombine(m protocol.EPCombineResourceRequest) {
	req := m.Request
	if a.status != planet.Running {
		a.reply(m.ExplorerID, protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
			Ok: false, Reason: "planet not running", A: req.A, B: req.B,
		}})
		return
	}
	if _, supported := a.variant.Complex[req.Complex]; !supported {
		a.reply(m.ExplorerID, protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
			Ok: false, Reason: "unsupported complex type", A: req.A, B: req.B,
		}})
		return
	}
	recipe, ok := resource.Recipes[req.Complex]
	if !ok || !ingredientsMatch(recipe, req.A, req.B) {
		a.reply(m.ExplorerID, protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
			Ok: false, Reason: "ingredients do not match recipe", A: req.A, B: req.B,
		}})
		return
	}
	for i, charged := range a.cells {
		if charged {
			a.cells[i] = false
			a.reply(m.ExplorerID, protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
				Ok: true, Complex: req.Complex,
			}})
			return
		}
	}
	a.reply(m.ExplorerID, protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
		Ok: false, Reason: "no charged energy cell", A: req.A, B: req.B,
	}})
}

func ingredientsMatch(recipe resource.Recipe, a, b resource.Ingredient) bool {
	return (recipe.A.Type() == a.Type() && recipe.B.Type() == b.Type()) ||
		(recipe.A.Type() == b.Type() && recipe.B.Type() == a.Type())
}

package explorer

import (
	"math/rand"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// Explorer is the C3 actor: state machine, message buffering, bag,
// topology cache and utility-driven AI. Manual is true while an external
// driver (e.g. a test, or a future interactive mode) steps the AI
// explicitly instead of letting the default branch invoke it.
type Explorer struct {
	id      topology.ID
	state   State
	status  Status
	manual  bool

	bag           *resource.Bag
	cache         *Cache
	currentPlanet topology.ID
	pendingDest   PendingDestination

	bufOrch   buffer[protocol.OEMsg]
	bufPlanet buffer[protocol.PEMsg]

	fromOrch   <-chan protocol.OEMsg
	toOrch     chan<- protocol.EOMsg
	planetSend chan<- protocol.EPMsg
	fromPlanet <-chan protocol.PEMsg

	rng *rand.Rand
	now int64 // logical tick clock, advanced only by Explorer.Tick

	wants map[resource.Type]float64 // declared demand, set by SetDemand
}

// New constructs an Explorer docked at startPlanet, wired to its
// channel endpoints. fromPlanet is the fixed receive end the explorer
// owns for its whole lifetime; its send half is what the orchestrator
// clones into IncomingExplorerRequest messages so planets can reply.
// planetSend is the send end to the current planet and is replaced on
// every accepted MoveToPlanet.
func New(id topology.ID, startPlanet topology.ID, seed int64,
	fromOrch <-chan protocol.OEMsg, toOrch chan<- protocol.EOMsg,
	planetSend chan<- protocol.EPMsg, fromPlanet <-chan protocol.PEMsg) *Explorer {
	return &Explorer{
		id:            id,
		state:         State{Phase: WaitingToStart},
		status:        StatusPaused,
		bag:           resource.NewBag(),
		cache:         NewCache(),
		currentPlanet: startPlanet,
		fromOrch:      fromOrch,
		toOrch:        toOrch,
		planetSend:    planetSend,
		fromPlanet:    fromPlanet,
		rng:           rand.New(rand.NewSource(seed)),
		wants:         make(map[resource.Type]float64),
	}
}

// ID returns this explorer's address.
func (e *Explorer) ID() topology.ID { return e.id }

// SetManual toggles whether the default branch invokes the AI step.
func (e *Explorer) SetManual(m bool) { e.manual = m }

// SetDemand declares a baseline demand weight for a resource type, used
// by the AI's need() derivation.
func (e *Explorer) SetDemand(t resource.Type, weight float64) { e.wants[t] = weight }

// Tick advances the explorer's logical clock, used by reliability decay.
// Nothing in this module calls it (the orchestrator's tick does not reach
// explorers), so the clock stays at 0 and cached observations do not
// decay.
func (e *Explorer) Tick() { e.now++ }

// Run drives the explorer's main loop (spec §4.3): a non-deterministic
// pick across (orch-receive, planet-receive), with a default branch
// that fires when neither is ready. KillExplorer is preemptive and
// short-circuits to Killed from any state. Run returns once Killed.
func (e *Explorer) Run() {
	for e.state.Phase != Killed {
		select {
		case msg, ok := <-e.fromOrch:
			if !ok {
				return
			}
			e.onOrch(msg)
		case msg, ok := <-e.fromPlanet:
			if !ok {
				return
			}
			e.onPlanet(msg)
		default:
			e.onDefault()
		}
	}
}

func (e *Explorer) onOrch(msg protocol.OEMsg) {
	if _, ok := msg.(protocol.KillExplorer); ok {
		e.kill()
		return
	}
	if AcceptsOrch(e.state, msg) {
		galaxylog.Log(galaxylog.Accepted("orchestrator", "explorer", "O->E", typeName(msg), e.state.Phase.String()))
		e.dispatchOrch(msg)
		return
	}
	galaxylog.Log(galaxylog.Buffered("orchestrator", "explorer", "O->E", typeName(msg), e.state.Phase.String()))
	e.bufOrch.push(msg)
}

func (e *Explorer) onPlanet(msg protocol.PEMsg) {
	if AcceptsPlanet(e.state, msg) {
		galaxylog.Log(galaxylog.Accepted("planet", "explorer", "P->E", typeName(msg), e.state.Phase.String()))
		e.dispatchPlanet(msg)
		return
	}
	galaxylog.Log(galaxylog.Buffered("planet", "explorer", "P->E", typeName(msg), e.state.Phase.String()))
	e.bufPlanet.push(msg)
}

// onDefault implements step 2 of the main loop: flush buffers (stopping
// at the first non-matching head), else run the AI if not manual and the
// phase is Idle.
func (e *Explorer) onDefault() {
	if e.flushOrch(&e.bufOrch) {
		return
	}
	if e.flushPlanet(&e.bufPlanet) {
		return
	}
	if !e.manual && e.state.Phase == Idle {
		e.aiStep()
	}
}

func (e *Explorer) flushOrch(b *buffer[protocol.OEMsg]) bool {
	msg, ok := b.peek()
	if !ok {
		return false
	}
	if !AcceptsOrch(e.state, msg) {
		return false
	}
	b.pop()
	e.dispatchOrch(msg)
	return true
}

func (e *Explorer) flushPlanet(b *buffer[protocol.PEMsg]) bool {
	msg, ok := b.peek()
	if !ok {
		return false
	}
	if !AcceptsPlanet(e.state, msg) {
		return false
	}
	b.pop()
	e.dispatchPlanet(msg)
	return true
}

func (e *Explorer) kill() {
	e.state = State{Phase: Killed}
	e.status = StatusDead
	e.toOrch <- protocol.KillExplorerResult{ID: e.id}
}

func typeName(v any) string {
	switch v.(type) {
	case protocol.StartExplorerAI:
		return "StartExplorerAI"
	case protocol.StopExplorerAI:
		return "StopExplorerAI"
	case protocol.ResetExplorerAI:
		return "ResetExplorerAI"
	case protocol.MoveToPlanet:
		return "MoveToPlanet"
	case protocol.CurrentPlanetRequest:
		return "CurrentPlanetRequest"
	case protocol.SupportedResourceRequest:
		return "SupportedResourceRequest"
	case protocol.SupportedCombinationRequest:
		return "SupportedCombinationRequest"
	case protocol.GenerateResourceRequest:
		return "GenerateResourceRequest"
	case protocol.CombineResourceRequest:
		return "CombineResourceRequest"
	case protocol.BagContentRequest:
		return "BagContentRequest"
	case protocol.NeighborsResponse:
		return "NeighborsResponse"
	case protocol.PESupportedResourceResponse:
		return "SupportedResourceResponse"
	case protocol.PESupportedCombinationResponse:
		return "SupportedCombinationResponse"
	case protocol.PEGenerateResourceResponse:
		return "GenerateResourceResponse"
	case protocol.PECombineResourceResponse:
		return "CombineResourceResponse"
	case protocol.PEAvailableEnergyCellResponse:
		return "AvailableEnergyCellResponse"
	default:
		return "unknown"
	}
}

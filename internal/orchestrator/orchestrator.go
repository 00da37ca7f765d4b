package orchestrator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/explorer"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxyerr"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planetregistry"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/settings"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// Orchestrator is the C4 actor: the single owner of the topology, the two
// directories, and the lifecycle/tick/relocation protocols of spec §4.4.
type Orchestrator struct {
	dir      *Directory
	registry *planetregistry.Registry
	settings *settings.Settings
	rng      *rand.Rand

	planetInbox   chan protocol.POMsg
	explorerInbox chan protocol.EOMsg

	pending map[topology.ID]relocation
}

// relocation tracks one in-flight TravelToPlanetRequest across its
// multi-step hand-off (spec §4.4's relocation protocol).
type relocation struct {
	explorerID topology.ID
	from       topology.ID
	to         topology.ID
}

// New constructs an empty Orchestrator over an already-parsed topology
// graph; Spawn* calls populate the directory.
func New(g *topology.Graph, s *settings.Settings) *Orchestrator {
	return &Orchestrator{
		dir:           newDirectory(g),
		registry:      planetregistry.New(),
		settings:      s,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		planetInbox:   make(chan protocol.POMsg, 256),
		explorerInbox: make(chan protocol.EOMsg, 256),
		pending:       make(map[topology.ID]relocation),
	}
}

// SpawnPlanet constructs and starts one planet actor of the given
// type-tag at id, registers it in the directory, and launches its Run
// loop. Called once per vertex at initialization (spec §4.5).
func (o *Orchestrator) SpawnPlanet(id topology.ID, tag int) error {
	toPlanet := make(chan protocol.OPMsg, 64)
	fromExplorer := make(chan protocol.EPMsg, 64)
	p, err := o.registry.Spawn(tag, id, toPlanet, o.planetInbox, fromExplorer)
	if err != nil {
		return galaxyerr.Init(fmt.Sprintf("spawning planet %d: %v", id, err))
	}
	o.dir.addPlanet(id, tag, toPlanet, fromExplorer)
	go p.Run()
	return nil
}

// SpawnExplorer constructs and starts one explorer actor docked at
// startPlanet, registers it, and launches its Run loop.
func (o *Orchestrator) SpawnExplorer(id topology.ID, startPlanet topology.ID, seed int64) error {
	planetSend, ok := o.dir.planetSendEnd(startPlanet)
	if !ok {
		return galaxyerr.Init(fmt.Sprintf("spawning explorer %d: unknown start planet %d", id, startPlanet))
	}
	toExplorer := make(chan protocol.OEMsg, 64)
	fromPlanet := make(chan protocol.PEMsg, 64)
	e := explorer.New(id, startPlanet, seed, toExplorer, o.explorerInbox, planetSend, fromPlanet)
	o.dir.addExplorer(id, startPlanet, toExplorer, fromPlanet)
	go e.Run()
	return nil
}

// StartAll broadcasts StartPlanetAI to every known planet and blocks
// until one StartPlanetAIResult per planet has arrived, or the bounded
// timeout elapses (spec §4.4 "Start-all": the orchestrator's only
// blocking operation).
func (o *Orchestrator) StartAll() error {
	ids := o.dir.planetIDs()
	for _, id := range ids {
		if ch, ok := o.dir.planetToChan(id); ok {
			ch <- protocol.StartPlanetAI{}
		}
	}
	deadline := time.After(o.settings.StartBarrierTimeout)
	remaining := make(map[topology.ID]struct{}, len(ids))
	for _, id := range ids {
		remaining[id] = struct{}{}
	}
	for len(remaining) > 0 {
		select {
		case msg := <-o.planetInbox:
			if r, ok := msg.(protocol.StartPlanetAIResult); ok {
				delete(remaining, r.ID)
				o.dir.setPlanetStatus(r.ID, planet.Running)
			} else {
				o.handlePlanetMsg(msg)
			}
		case <-deadline:
			return galaxyerr.Timeout("orchestrator.StartAll", o.settings.StartBarrierTimeout)
		}
	}
	for _, id := range o.dir.explorerIDs() {
		if ch, ok := o.dir.explorerToChan(id); ok {
			ch <- protocol.StartExplorerAI{}
		}
	}
	return nil
}

// StopAll sends StopPlanetAI to every Running planet and StopExplorerAI
// to every known explorer, fire-and-forget (no barrier — spec §4.4 names only start-all as
// blocking).
func (o *Orchestrator) StopAll() {
	for _, id := range o.dir.planetIDs() {
		if s, ok := o.dir.planetStatus(id); ok && s == planet.Running {
			if ch, ok := o.dir.planetToChan(id); ok {
				ch <- protocol.StopPlanetAI{}
			}
		}
	}
	for _, id := range o.dir.explorerIDs() {
		if ch, ok := o.dir.explorerToChan(id); ok {
			ch <- protocol.StopExplorerAI{}
		}
	}
}

// KillAll broadcasts KillPlanet/KillExplorer to every known actor.
func (o *Orchestrator) KillAll() {
	for _, id := range o.dir.planetIDs() {
		if ch, ok := o.dir.planetToChan(id); ok {
			ch <- protocol.KillPlanet{}
		}
	}
	for _, id := range o.dir.explorerIDs() {
		if ch, ok := o.dir.explorerToChan(id); ok {
			ch <- protocol.KillExplorer{}
		}
	}
}

// Snapshot exposes the read-only status view (spec §4.4).
func (o *Orchestrator) Snapshot() Snapshot { return o.dir.Snapshot() }

// DrainOnce services exactly one pending message from either inbox,
// returning immediately if neither has one. The game loop calls this
// between ticks so planet/explorer replies are processed promptly
// without a dedicated orchestrator goroutine.
func (o *Orchestrator) DrainOnce() bool {
	select {
	case msg := <-o.planetInbox:
		o.handlePlanetMsg(msg)
		return true
	case msg := <-o.explorerInbox:
		o.handleExplorerMsg(msg)
		return true
	default:
		return false
	}
}

// DrainAll services every currently queued inbox message without
// blocking.
func (o *Orchestrator) DrainAll() {
	for o.DrainOnce() {
	}
}

// Tick implements spec §4.4's environmental tick: consume the next
// scripted event, or sample a Bernoulli draw against a uniformly random
// target planet. Planet states are requested after this tick's event has
// been sent, so the refreshed PlanetInfo reflects it.
func (o *Orchestrator) Tick() {
	defer o.requestPlanetStates()
	if r, ok := o.settings.PopScriptedEvent(); ok {
		switch r {
		case 'S':
			o.broadcastSunray()
			return
		case 'A':
			o.broadcastAsteroid()
			return
		case '$':
			return
		}
	}
	ids := o.dir.planetIDs()
	if len(ids) == 0 {
		return
	}
	target := ids[o.rng.Intn(len(ids))]
	if o.rng.Float64() < float64(o.settings.SunrayProbability)/100.0 {
		o.sendSunray(target)
	} else {
		o.sendAsteroid(target)
	}
}

// requestPlanetStates refreshes the directory's PlanetInfo (spec §3:
// "populated lazily from planet-state responses") by asking every
// Running planet for its internal state once per tick.
func (o *Orchestrator) requestPlanetStates() {
	for _, id := range o.dir.planetIDs() {
		if s, ok := o.dir.planetStatus(id); !ok || s != planet.Running {
			continue
		}
		if ch, ok := o.dir.planetToChan(id); ok {
			ch <- protocol.InternalStateRequest{}
		}
	}
}

func (o *Orchestrator) broadcastSunray() {
	for _, id := range o.dir.planetIDs() {
		o.sendSunray(id)
	}
}

func (o *Orchestrator) broadcastAsteroid() {
	for _, id := range o.dir.planetIDs() {
		o.sendAsteroid(id)
	}
}

func (o *Orchestrator) sendSunray(id topology.ID) {
	if s, ok := o.dir.planetStatus(id); !ok || s != planet.Running {
		return
	}
	if ch, ok := o.dir.planetToChan(id); ok {
		ch <- protocol.Sunray{Payload: "sunray"}
		galaxylog.Log(galaxylog.Sent("orchestrator", fmt.Sprintf("planet-%d", id), "O->P", "Sunray"))
	}
}

func (o *Orchestrator) sendAsteroid(id topology.ID) {
	if s, ok := o.dir.planetStatus(id); !ok || s != planet.Running {
		return
	}
	if ch, ok := o.dir.planetToChan(id); ok {
		ch <- protocol.Asteroid{Payload: "asteroid"}
		galaxylog.Log(galaxylog.Sent("orchestrator", fmt.Sprintf("planet-%d", id), "O->P", "Asteroid"))
	}
}

// handlePlanetMsg processes one message arriving on the shared
// planet-to-orchestrator inbox.
func (o *Orchestrator) handlePlanetMsg(msg protocol.POMsg) {
	switch m := msg.(type) {
	case protocol.StartPlanetAIResult:
		o.dir.setPlanetStatus(m.ID, planet.Running)
	case protocol.StopPlanetAIResult:
		// no status field distinguishes "stopped" from "paused" in spec §3;
		// treated as returning to Paused.
		o.dir.setPlanetStatus(m.ID, planet.Paused)
	case protocol.KillPlanetResult:
		o.dir.setPlanetStatus(m.ID, planet.Dead)
	case protocol.Stopped:
		o.dir.setPlanetStatus(m.ID, planet.Dead)
	case protocol.SunrayAck:
		// no orchestrator-visible state change beyond logging.
	case protocol.AsteroidAck:
		o.handleAsteroidAck(m)
	case protocol.InternalStateResponse:
		o.dir.updatePlanetState(m.ID, m.Snapshot)
	case protocol.IncomingExplorerResponse:
		o.handleIncomingExplorerResponse(m)
	case protocol.OutgoingExplorerResponse:
		o.handleOutgoingExplorerResponse(m)
	}
}

// handleAsteroidAck implements spec §4.4's asteroid semantics: if the
// planet had no rocket, immediately send KillPlanet and mark the status
// Dead optimistically; the orchestrator tolerates KillPlanetResult
// arriving either before or after this update.
func (o *Orchestrator) handleAsteroidAck(m protocol.AsteroidAck) {
	if m.Rocket != nil {
		return
	}
	o.dir.setPlanetStatus(m.ID, planet.Dead)
	if ch, ok := o.dir.planetToChan(m.ID); ok {
		ch <- protocol.KillPlanet{}
	}
}

// handleExplorerMsg processes one message arriving on the shared
// explorer-to-orchestrator inbox.
func (o *Orchestrator) handleExplorerMsg(msg protocol.EOMsg) {
	switch m := msg.(type) {
	case protocol.StartExplorerAIResult:
		o.dir.setExplorerStatus(m.ID, explorer.StatusRunning)
	case protocol.StopExplorerAIResult:
		o.dir.setExplorerStatus(m.ID, explorer.StatusPaused)
	case protocol.KillExplorerResult:
		o.dir.setExplorerStatus(m.ID, explorer.StatusDead)
	case protocol.ResetExplorerAIResult:
		// no directory-level state to reconcile: the explorer's own
		// cache reset is internal.
	case protocol.TravelToPlanetRequest:
		o.handleTravelRequest(m)
	case protocol.CurrentPlanetResult, protocol.SupportedResourceResult,
		protocol.SupportedCombinationResult, protocol.GenResult, protocol.CombResult,
		protocol.BagContentResponse, protocol.NeighborsRequest:
		o.handleExplorerQuery(m)
	}
}

// handleExplorerQuery answers the one explorer-initiated request this
// directory alone can serve without touching a planet: NeighborsRequest.
// Everything else in this group is accepted and discarded; neither the
// directory nor the snapshot records these replies.
func (o *Orchestrator) handleExplorerQuery(msg protocol.EOMsg) {
	if m, ok := msg.(protocol.NeighborsRequest); ok {
		ids := o.dir.neighbors(m.Current)
		if ch, ok := o.dir.explorerToChan(m.ID); ok {
			ch <- protocol.NeighborsResponse{IDs: ids}
		}
	}
}

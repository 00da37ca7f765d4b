package orchestrator

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// handleTravelRequest is step 1 of spec §4.4's relocation protocol:
// reject immediately if (u,v) is not an edge or v is not Running,
// otherwise record the pending destination and ask v to admit the
// explorer.
func (o *Orchestrator) handleTravelRequest(m protocol.TravelToPlanetRequest) {
	if !o.dir.hasEdge(m.Current, m.Destination) {
		o.refuseMove(m.ID, m.Destination)
		return
	}
	if s, ok := o.dir.planetStatus(m.Destination); !ok || s != planet.Running {
		o.refuseMove(m.ID, m.Destination)
		return
	}
	dest := m.Destination
	o.pending[m.ID] = relocation{explorerID: m.ID, from: m.Current, to: m.Destination}
	o.dir.setPending(m.ID, &dest)

	explorerReplySend, ok := o.dir.explorerPlanetSendEnd(m.ID)
	if !ok {
		o.refuseMove(m.ID, m.Destination)
		return
	}
	if ch, ok := o.dir.planetToChan(m.Destination); ok {
		ch <- protocol.IncomingExplorerRequest{ExplorerID: m.ID, ExplorerSend: explorerReplySend}
	} else {
		o.refuseMove(m.ID, m.Destination)
	}
}

// handleIncomingExplorerResponse is step 2: on Ok, deregister the
// explorer from its current planet; on Err, fail the move.
func (o *Orchestrator) handleIncomingExplorerResponse(m protocol.IncomingExplorerResponse) {
	r, ok := o.pending[m.ExplorerID]
	if !ok || r.to != m.ID {
		return
	}
	if !m.Ok {
		delete(o.pending, m.ExplorerID)
		o.dir.setPending(m.ExplorerID, nil)
		o.refuseMove(m.ExplorerID, m.ID)
		return
	}
	if ch, ok := o.dir.planetToChan(r.from); ok {
		ch <- protocol.OutgoingExplorerRequest{ExplorerID: m.ExplorerID}
	}
}

// handleOutgoingExplorerResponse is step 3: on Ok, complete the hand-off
// by cloning the destination planet's explorer-facing send-end into
// MoveToPlanet. On Err, compensate by leaving the explorer in a stable
// state (spec §4.4 note: "at minimum leave the explorer in a stable
// state by replying MoveToPlanet{None, v}").
func (o *Orchestrator) handleOutgoingExplorerResponse(m protocol.OutgoingExplorerResponse) {
	r, ok := o.pending[m.ExplorerID]
	if !ok || r.from != m.ID {
		return
	}
	delete(o.pending, m.ExplorerID)
	if !m.Ok {
		o.dir.setPending(m.ExplorerID, nil)
		o.refuseMove(m.ExplorerID, r.to)
		return
	}
	destSend, ok := o.dir.planetSendEnd(r.to)
	if !ok {
		o.refuseMove(m.ExplorerID, r.to)
		return
	}
	o.dir.setCurrentPlanet(m.ExplorerID, r.to)
	if ch, ok := o.dir.explorerToChan(m.ExplorerID); ok {
		ch <- protocol.MoveToPlanet{Send: destSend, PlanetID: r.to}
	}
}

// refuseMove replies MoveToPlanet{Send: nil, PlanetID: dest} so the
// explorer observes the refusal (spec §7, "User-visible failures").
func (o *Orchestrator) refuseMove(explorerID, dest topology.ID) {
	delete(o.pending, explorerID)
	o.dir.setPending(explorerID, nil)
	if ch, ok := o.dir.explorerToChan(explorerID); ok {
		ch <- protocol.MoveToPlanet{Send: nil, PlanetID: dest}
	}
}

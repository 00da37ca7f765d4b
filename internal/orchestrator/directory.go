// Package orchestrator implements the C4 component of spec §4.4: the
// topology store, the planet/explorer directories, lifecycle broadcasts,
// the environmental tick, and the relocation mediation protocol. It is
// the single owner of every send-end in the system (spec §9, "Cyclic
// references").
package orchestrator

import (
	"sync"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/explorer"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// planetEntry is the orchestrator's bookkeeping for one planet actor: its
// lazily-populated Info, the send-ends reaching it, and the send-end the
// orchestrator clones into MoveToPlanet when an explorer docks here.
type planetEntry struct {
	info       planet.Info
	toPlanet   chan<- protocol.OPMsg
	fromExplorerSend chan<- protocol.EPMsg // cloned into MoveToPlanet.Send for explorers docked here
}

// explorerEntry is the orchestrator's bookkeeping for one explorer actor.
type explorerEntry struct {
	info       explorer.Status
	current    topology.ID
	pending    *topology.ID
	toExplorer chan<- protocol.OEMsg
	fromPlanetSend chan<- protocol.PEMsg // fixed for the explorer's whole lifetime; cloned into IncomingExplorerRequest
}

// Directory is the orchestrator's shared mutable state (spec §5): the
// galaxy topology plus the two directory maps, protected by a single
// reader-writer lock. Concurrent readers are allowed; writers
// (destroy-link, status update, info update) are exclusive.
type Directory struct {
	mu sync.RWMutex

	graph    *topology.Graph
	planets  map[topology.ID]*planetEntry
	explorers map[topology.ID]*explorerEntry
}

func newDirectory(g *topology.Graph) *Directory {
	return &Directory{
		graph:     g,
		planets:   make(map[topology.ID]*planetEntry),
		explorers: make(map[topology.ID]*explorerEntry),
	}
}

func (d *Directory) addPlanet(id topology.ID, tag int, toPlanet chan<- protocol.OPMsg, fromExplorerSend chan<- protocol.EPMsg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.planets[id] = &planetEntry{
		info:             planet.Info{Status: planet.Paused, TypeTag: tag},
		toPlanet:         toPlanet,
		fromExplorerSend: fromExplorerSend,
	}
}

func (d *Directory) addExplorer(id topology.ID, start topology.ID, toExplorer chan<- protocol.OEMsg, fromPlanetSend chan<- protocol.PEMsg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.explorers[id] = &explorerEntry{
		info:           explorer.StatusPaused,
		current:        start,
		toExplorer:     toExplorer,
		fromPlanetSend: fromPlanetSend,
	}
}

// planetSendEnd returns the send-end reaching planet id's fromExplorer
// channel, for cloning into a MoveToPlanet message. Safe to call under a
// read lock per spec §5 ("readers may clone a send-end under a read
// lock").
func (d *Directory) planetSendEnd(id topology.ID) (chan<- protocol.EPMsg, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.planets[id]
	if !ok {
		return nil, false
	}
	return p.fromExplorerSend, true
}

func (d *Directory) explorerPlanetSendEnd(id topology.ID) (chan<- protocol.PEMsg, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.explorers[id]
	if !ok {
		return nil, false
	}
	return e.fromPlanetSend, true
}

func (d *Directory) planetToChan(id topology.ID) (chan<- protocol.OPMsg, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.planets[id]
	if !ok {
		return nil, false
	}
	return p.toPlanet, true
}

func (d *Directory) explorerToChan(id topology.ID) (chan<- protocol.OEMsg, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.explorers[id]
	if !ok {
		return nil, false
	}
	return e.toExplorer, true
}

func (d *Directory) planetIDs() []topology.ID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]topology.ID, 0, len(d.planets))
	for id := range d.planets {
		out = append(out, id)
	}
	return out
}

func (d *Directory) explorerIDs() []topology.ID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]topology.ID, 0, len(d.explorers))
	for id := range d.explorers {
		out = append(out, id)
	}
	return out
}

func (d *Directory) setPlanetStatus(id topology.ID, s planet.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.planets[id]; ok {
		p.info.Status = s
	}
}

func (d *Directory) setExplorerStatus(id topology.ID, s explorer.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.explorers[id]; ok {
		e.info = s
	}
}

func (d *Directory) updatePlanetState(id topology.ID, snap protocol.InternalStateSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.planets[id]
	if !ok {
		return
	}
	p.info.EnergyCells = snap.EnergyCells
	p.info.ChargedCount = snap.ChargedCount
	p.info.HasRocket = snap.HasRocket
}

func (d *Directory) setPending(id topology.ID, dest *topology.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.explorers[id]; ok {
		e.pending = dest
	}
}

func (d *Directory) setCurrentPlanet(id topology.ID, current topology.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.explorers[id]; ok {
		e.current = current
		e.pending = nil
	}
}

func (d *Directory) currentPlanetOf(id topology.ID) (topology.ID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.explorers[id]
	if !ok {
		return 0, false
	}
	return e.current, true
}

func (d *Directory) hasEdge(u, v topology.ID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.graph.HasEdge(u, v)
}

func (d *Directory) destroyEdge(u, v topology.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.graph.DestroyEdge(u, v)
}

func (d *Directory) neighbors(v topology.ID) []topology.ID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.graph.Neighbors(v)
}

func (d *Directory) planetStatus(id topology.ID) (planet.Status, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.planets[id]
	if !ok {
		return 0, false
	}
	return p.info.Status, true
}

// Snapshot is the O(V+E) read-only view of spec §4.4's "Exposed view":
// (topology_edges, planet_info_map, explorer_info_map) under a single
// read-lock acquisition.
type Snapshot struct {
	Edges     [][2]topology.ID
	Planets   map[topology.ID]planet.Info
	Explorers map[topology.ID]ExplorerView
}

// ExplorerView mirrors spec §3's ExplorerInfo.
type ExplorerView struct {
	Status         explorer.Status
	Current        topology.ID
	PendingDestination *topology.ID
}

// Snapshot builds the external status view under a single read lock;
// callers must not hold it across a channel operation (spec §4.4).
func (d *Directory) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s := Snapshot{
		Edges:     d.graph.Edges(),
		Planets:   make(map[topology.ID]planet.Info, len(d.planets)),
		Explorers: make(map[topology.ID]ExplorerView, len(d.explorers)),
	}
	for id, p := range d.planets {
		s.Planets[id] = p.info
	}
	for id, e := range d.explorers {
		var pend *topology.ID
		if e.pending != nil {
			v := *e.pending
			pend = &v
		}
		s.Explorers[id] = ExplorerView{Status: e.info, Current: e.current, PendingDestination: pend}
	}
	return s
}

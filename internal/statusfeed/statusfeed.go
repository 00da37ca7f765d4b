// Package statusfeed pushes the orchestrator's read-only status
// snapshot (spec §4.4) to connected external interfaces over a
// websocket — the one network-facing boundary the spec leaves open,
// distinct from the in-process actor channels the Non-goals keep off
// the network. The listener's bandwidth is capped with bwlimit, the
// same way the teacher's rsync server limits its listener in
// src/runtime/cmd/rsync/rsync.go, so a slow consumer cannot back up the
// orchestrator's snapshot goroutine.
package statusfeed

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conduitio/bwlimit"
	"github.com/gorilla/websocket"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/orchestrator"
)

// wireSnapshot is the JSON-over-the-wire shape of an orchestrator.Snapshot.
type wireSnapshot struct {
	Edges     [][2]uint64              `json:"edges"`
	Planets   map[string]wirePlanet    `json:"planets"`
	Explorers map[string]wireExplorer  `json:"explorers"`
}

type wirePlanet struct {
	Status       string `json:"status"`
	ChargedCount int    `json:"charged_count"`
	HasRocket    bool   `json:"has_rocket"`
	TypeTag      int    `json:"type_tag"`
}

type wireExplorer struct {
	Status             string  `json:"status"`
	Current            uint64  `json:"current"`
	PendingDestination *uint64 `json:"pending_destination,omitempty"`
}

func toWire(s orchestrator.Snapshot) wireSnapshot {
	w := wireSnapshot{
		Planets:   make(map[string]wirePlanet, len(s.Planets)),
		Explorers: make(map[string]wireExplorer, len(s.Explorers)),
	}
	for _, e := range s.Edges {
		w.Edges = append(w.Edges, [2]uint64{uint64(e[0]), uint64(e[1])})
	}
	for id, p := range s.Planets {
		w.Planets[fmt.Sprint(id)] = wirePlanet{
			Status:       p.Status.String(),
			ChargedCount: p.ChargedCount,
			HasRocket:    p.HasRocket,
			TypeTag:      p.TypeTag,
		}
	}
	for id, e := range s.Explorers {
		var pend *uint64
		if e.PendingDestination != nil {
			v := uint64(*e.PendingDestination)
			pend = &v
		}
		w.Explorers[fmt.Sprint(id)] = wireExplorer{
			Status:             e.Status.String(),
			Current:            uint64(e.Current),
			PendingDestination: pend,
		}
	}
	return w
}

// Feed broadcasts status snapshots to every connected websocket client at
// a fixed interval.
type Feed struct {
	orch     *orchestrator.Orchestrator
	upgrader websocket.Upgrader
	period   time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New builds a Feed polling orch at period.
func New(orch *orchestrator.Orchestrator, period time.Duration) *Feed {
	return &Feed{
		orch:     orch,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		period:   period,
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// ListenAndServe wraps the listener at addr in a bandwidth-limited
// listener (writeLimit/readLimit bytes/sec) and serves the feed's
// websocket handler on it until the process exits or Serve returns.
func (f *Feed) ListenAndServe(addr string, writeLimit, readLimit bwlimit.Byte) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("statusfeed: listening on %q: %w", addr, err)
	}
	limited := bwlimit.NewListener(ln, writeLimit, readLimit)
	mux := http.NewServeMux()
	mux.Handle("/status", f)
	return http.Serve(limited, mux)
}

// ServeHTTP upgrades an inbound HTTP connection to a websocket and
// registers it as a broadcast target. The connection is read-only from
// the client's perspective; any inbound frame is discarded.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		galaxylog.Warn("statusfeed", "upgrade failed", "error", err.Error())
		return
	}
	f.mu.Lock()
	f.clients[conn] = struct{}{}
	f.mu.Unlock()

	go f.drainReads(conn)
}

// drainReads discards inbound frames until the client disconnects, then
// deregisters it.
func (f *Feed) drainReads(conn *websocket.Conn) {
	defer f.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

// Run broadcasts a snapshot to every connected client every period,
// until stop closes.
func (f *Feed) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(f.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			f.broadcast()
		}
	}
}

func (f *Feed) broadcast() {
	payload, err := json.Marshal(toWire(f.orch.Snapshot()))
	if err != nil {
		galaxylog.Error("statusfeed", "marshal failed", "error", err.Error())
		return
	}
	f.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(f.clients))
	for c := range f.clients {
		targets = append(targets, c)
	}
	f.mu.Unlock()
	for _, c := range targets {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			galaxylog.Warn("statusfeed", "client write failed", "error", err.Error())
			f.remove(c)
		}
	}
}

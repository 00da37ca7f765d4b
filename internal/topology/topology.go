// Package topology implements the galaxy's undirected planet-adjacency
// graph: neighbor listing, edge testing and destruction, and the
// line-oriented input-file parser described in spec §6.
package topology

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// ID is a dense unsigned integer identifying a planet or an explorer. 0
// is reserved for the orchestrator.
type ID uint64

// OrchestratorID is the reserved address of the orchestrator itself.
const OrchestratorID ID = 0

// Graph is an undirected simple graph over planet IDs. Edges are
// symmetric by construction; once destroyed an edge never reappears.
type Graph struct {
	adj map[ID]map[ID]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[ID]map[ID]struct{})}
}

// AddVertex ensures v is present, even with no edges yet.
func (g *Graph) AddVertex(v ID) {
	if g.adj[v] == nil {
		g.adj[v] = make(map[ID]struct{})
	}
}

// AddEdge records the symmetric edge (u,v).
func (g *Graph) AddEdge(u, v ID) {
	g.AddVertex(u)
	g.AddVertex(v)
	if u == v {
		return
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
}

// HasEdge tests whether (u,v) is currently an edge.
func (g *Graph) HasEdge(u, v ID) bool {
	nbrs, ok := g.adj[u]
	if !ok {
		return false
	}
	_, ok = nbrs[v]
	return ok
}

// DestroyEdge removes (u,v) from the graph. Destroyed edges never
// reappear within a run (the caller must not call AddEdge(u,v) again).
func (g *Graph) DestroyEdge(u, v ID) {
	if nbrs, ok := g.adj[u]; ok {
		delete(nbrs, v)
	}
	if nbrs, ok := g.adj[v]; ok {
		delete(nbrs, u)
	}
}

// Neighbors lists v's current neighbors in ascending ID order.
func (g *Graph) Neighbors(v ID) []ID {
	nbrs, ok := g.adj[v]
	if !ok {
		return nil
	}
	out := make([]ID, 0, len(nbrs))
	for n := range nbrs {
		out = append(out, n)
	}
	sortIDs(out)
	return out
}

// Vertices lists every known vertex in ascending ID order.
func (g *Graph) Vertices() []ID {
	out := make([]ID, 0, len(g.adj))
	for v := range g.adj {
		out = append(out, v)
	}
	sortIDs(out)
	return out
}

// Edges lists every edge exactly once, as (min,max) pairs in ascending
// order — used by the orchestrator's O(V+E) status snapshot.
func (g *Graph) Edges() [][2]ID {
	var out [][2]ID
	for u, nbrs := range g.adj {
		for v := range nbrs {
			if u < v {
				out = append(out, [2]ID{u, v})
			}
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && (out[j-1][0] > out[j][0] ||
			(out[j-1][0] == out[j][0] && out[j-1][1] > out[j][1])); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sortIDs(ids []ID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// PlanetType tags the planet variant assigned to a line of the input
// file; values outside [0,6] select a random variant for that line.
type PlanetType int

const NumPlanetTypes = 7

// ParsedPlanet is one line of the topology file: a planet ID, its type
// tag, and the neighbor IDs mentioned on that line (edges are
// symmetrized by the caller).
type ParsedPlanet struct {
	ID        ID
	Type      PlanetType
	Neighbors []ID
}

// ParseFile reads a topology file per spec §6: UTF-8, line-oriented,
// blank lines ignored, each line "id,type,neighbor_id,neighbor_id,...".
// A type outside {0..6} selects a random variant deterministically for
// that line, seeded from the line's planet ID so re-parsing the same
// file is reproducible.
func ParseFile(path string) ([]ParsedPlanet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topology: opening %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads topology lines from r; see ParseFile for the format.
func Parse(r io.Reader) ([]ParsedPlanet, error) {
	scanner := bufio.NewScanner(r)
	var out []ParsedPlanet
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("topology: line %d: expected at least id,type", lineNo)
		}
		idVal, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("topology: line %d: invalid id %q: %w", lineNo, fields[0], err)
		}
		typeVal, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("topology: line %d: invalid type %q: %w", lineNo, fields[1], err)
		}
		pt := PlanetType(typeVal)
		if typeVal < 0 || typeVal >= NumPlanetTypes {
			pt = randomTypeForLine(ID(idVal))
		}
		var neighbors []ID
		for _, nf := range fields[2:] {
			if nf == "" {
				continue
			}
			nVal, err := strconv.ParseUint(nf, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("topology: line %d: invalid neighbor %q: %w", lineNo, nf, err)
			}
			neighbors = append(neighbors, ID(nVal))
		}
		out = append(out, ParsedPlanet{ID: ID(idVal), Type: pt, Neighbors: neighbors})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("topology: reading input: %w", err)
	}
	return out, nil
}

// randomTypeForLine deterministically picks a variant for a line whose
// declared type fell outside [0,6], seeded on the planet's own ID so
// repeated parses of the same file are stable.
func randomTypeForLine(id ID) PlanetType {
	r := rand.New(rand.NewSource(int64(id) + 1))
	return PlanetType(r.Intn(NumPlanetTypes))
}

// BuildGraph symmetrizes every parsed line into a Graph.
func BuildGraph(parsed []ParsedPlanet) *Graph {
	g := NewGraph()
	for _, p := range parsed {
		g.AddVertex(p.ID)
		for _, n := range p.Neighbors {
			g.AddEdge(p.ID, n)
		}
	}
	return g
}

package explorer

import (
	"math"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// reliabilityLambda is λ in reliability(t) = exp(-λ·(now-t)), in tick
// units (spec §4.3).
const reliabilityLambda = 0.005

// PlanetInfo is the explorer-owned cache entry for one planet ID (spec
// §3's "Topology cache"): created the first time an ID is observed (as
// self, neighbor, or destination), filled in incrementally, never
// evicted except on explicit reset.
type PlanetInfo struct {
	Basic   map[resource.Basic]struct{}
	Complex map[resource.Complex]struct{}

	HasBasic   bool
	HasComplex bool

	Neighbors    []topology.ID
	HasNeighbors bool

	// EnergyCells is the last observed count of currently-available
	// (charged) cells, per AvailableEnergyCellResponse.
	EnergyCells        int
	ChargeRate         float64
	TimestampEnergy    int64
	HasEnergy          bool
	TimestampNeighbors int64

	SafetyScore float64
}

// Cache is the explorer's topology cache: Map ID -> PlanetInfo.
type Cache struct {
	entries map[topology.ID]*PlanetInfo
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[topology.ID]*PlanetInfo)}
}

// Entry returns (creating if necessary) the cache entry for id.
func (c *Cache) Entry(id topology.ID) *PlanetInfo {
	e, ok := c.entries[id]
	if !ok {
		e = &PlanetInfo{}
		c.entries[id] = e
	}
	return e
}

// Lookup returns the entry for id without creating one.
func (c *Cache) Lookup(id topology.ID) (*PlanetInfo, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Reset clears every cache entry; only explicit reset evicts.
func (c *Cache) Reset() {
	c.entries = make(map[topology.ID]*PlanetInfo)
}

// Reliability is an exponentially decaying confidence in a cached
// observation: exp(-λ·(now-t)), or 0 if never observed (timestamp==0 and
// has==false).
func Reliability(now int64, timestamp int64, has bool) float64 {
	if !has {
		return 0
	}
	delta := now - timestamp
	if delta < 0 {
		delta = 0
	}
	return math.Exp(-reliabilityLambda * float64(delta))
}

// escapeDegree maps a neighbor count to the escape-degree factor of spec
// §4.3's safety_score: 0 / 0.4 / 0.8 / 1.0 for 0 / 1 / 2 / >=3 neighbors.
func escapeDegree(numNeighbors int) float64 {
	switch {
	case numNeighbors <= 0:
		return 0
	case numNeighbors == 1:
		return 0.4
	case numNeighbors == 2:
		return 0.8
	default:
		return 1.0
	}
}

// rocketScore heuristically derives a [0,1] score from the cardinalities
// of a planet's two resource-support sets — planets that support more
// resource types are assumed likelier to carry the infrastructure (and
// thus the rocket) to survive an asteroid. This is explicitly a
// heuristic per spec §4.3, not a ground truth the explorer has observed.
func rocketScore(numBasic, numComplex int) float64 {
	total := numBasic + numComplex
	const maxPlausible = 10.0
	score := float64(total) / maxPlausible
	if score > 1 {
		score = 1
	}
	return score
}

// SafetyScore computes spec §4.3's safety_score for the cache entry of
// planet v, given the current tick `now` (before noise is applied by the
// caller).
func SafetyScore(now int64, e *PlanetInfo) float64 {
	sustainability := 0.5
	if e.ChargeRate > 0 {
		sustainability = 1.0
	}
	physicalSafety := 1 - 1/math.Max(1, float64(e.EnergyCells))
	numNeighbors := 0
	if e.HasNeighbors {
		numNeighbors = len(e.Neighbors)
	}
	neighborReliability := Reliability(now, e.TimestampNeighbors, e.HasNeighbors)
	adjustedEscape := escapeDegree(numNeighbors)*neighborReliability + 0.2*(1-neighborReliability)
	numBasic, numComplex := 0, 0
	if e.HasBasic {
		numBasic = len(e.Basic)
	}
	if e.HasComplex {
		numComplex = len(e.Complex)
	}
	rs := rocketScore(numBasic, numComplex)
	return sustainability * physicalSafety * adjustedEscape * rs
}

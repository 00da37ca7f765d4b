// Package planetregistry implements spec §4.5: an immutable map from
// planet-type tag to Variant, a dispatch function that builds the single
// concrete planet actor from the looked-up Variant, plus a random()
// selector over the finite variant set. The set of tags is checked at
// run time by the map lookup, not at compile time.
package planetregistry

import (
	"fmt"
	"math/rand"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// Registry is the orchestrator's immutable planet-type dispatch table.
type Registry struct {
	variants map[int]Variant
}

// New builds the registry over the built-in seven variants (tags 0..6).
func New() *Registry {
	return &Registry{variants: Variants}
}

// Spawn is the dispatch function of spec §4.5: (tag, channels, id) ->
// Planet. It looks the tag up in the variant table; an unknown tag is an
// initialization failure (spec §7.5), reported to the
// caller rather than silently defaulting.
func (r *Registry) Spawn(tag int, id topology.ID, fromOrch <-chan protocol.OPMsg,
	toOrch chan<- protocol.POMsg, fromExplorer <-chan protocol.EPMsg) (planet.Planet, error) {
	v, ok := r.variants[tag]
	if !ok {
		return nil, fmt.Errorf("planetregistry: unknown planet type tag %d", tag)
	}
	return newActor(id, v, fromOrch, toOrch, fromExplorer), nil
}

// Random selects a planet-type tag uniformly from the finite variant set.
// The topology parser does not call it: lines with a type outside [0,6]
// are resolved by the parser's own per-line seeded draw.
func (r *Registry) Random(rng *rand.Rand) int {
	n := len(r.variants)
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return rng.Intn(n)
}

// NumTypes reports how many planet-type tags the registry knows.
func (r *Registry) NumTypes() int { return len(r.variants) }

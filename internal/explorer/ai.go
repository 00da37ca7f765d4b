package explorer

import (
	"sort"
	"strconv"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

// runAwayThreshold is τ in spec §4.3's move-vs-flight gate.
const runAwayThreshold = 0.4

// category orders candidate actions for tie-breaking: spec §4.3 says
// ties are broken first by category order (run-away, move,
// survey-neighbors, survey-energy, produce, combine, wait), then by
// ID/variant.
type category int

const (
	catRunAway category = iota
	catMove
	catSurveyNeighbors
	catSurveyEnergy
	catProduce
	catCombine
	catWait
)

// candidate is one scoreable action the AI can take this step.
type candidate struct {
	category category
	variant  string // tie-break key within a category (basic/complex name, planet ID string)
	score    float64
	run      func(e *Explorer)
}

// aiStep implements spec §4.3's utility-driven AI step.
func (e *Explorer) aiStep() {
	entry := e.cache.Entry(e.currentPlanet)
	if !entry.HasNeighbors {
		e.state = State{Phase: WaitingForNeighbours}
		e.toOrch <- protocol.NeighborsRequest{ID: e.id, Current: e.currentPlanet}
		return
	}
	if !entry.HasBasic || !entry.HasComplex {
		e.beginSurveyAll()
		return
	}

	candidates := e.buildCandidates(entry)
	best := pickBest(candidates)
	if best != nil {
		best.run(e)
	}
}

func (e *Explorer) buildCandidates(entry *PlanetInfo) []candidate {
	var cs []candidate

	safety := SafetyScore(e.now, entry)

	runAwayScore := clamp01(noise(e.rng, (1-safety)*(1-safety), 0.95, 1.05))
	cs = append(cs, candidate{category: catRunAway, variant: "runaway", score: runAwayScore, run: (*Explorer).doRunAway})

	surveyNeighborsScore := clamp01(noise(e.rng, 0.9*(1-safety), 0.95, 1.05))
	cs = append(cs, candidate{category: catSurveyNeighbors, variant: "neighbors", score: surveyNeighborsScore, run: func(ex *Explorer) { ex.beginSurveyAll() }})

	energyReliability := Reliability(e.now, entry.TimestampEnergy, entry.HasEnergy)
	surveyEnergyScore := clamp01(noise(e.rng, 0.15+0.5*(1-energyReliability), 0.95, 1.05))
	cs = append(cs, candidate{category: catSurveyEnergy, variant: "energy", score: surveyEnergyScore, run: func(ex *Explorer) { ex.beginSurveyAll() }})

	waitScore := 0.2
	if entry.ChargeRate > 0 {
		waitScore += 0.1
	}
	waitScore = clamp01(noise(e.rng, waitScore, 0.95, 1.05))
	cs = append(cs, candidate{category: catWait, variant: "wait", score: waitScore, run: func(*Explorer) {}})

	for _, b := range sortedBasics(entry.Basic) {
		cs = append(cs, e.produceCandidate(entry, b))
	}
	for _, c := range sortedComplex(entry.Complex) {
		cs = append(cs, e.combineCandidate(entry, c))
	}
	for _, n := range entry.Neighbors {
		cs = append(cs, e.moveCandidate(n, runAwayScore))
	}
	return cs
}

func (e *Explorer) produceCandidate(entry *PlanetInfo, b resource.Basic) candidate {
	t := b.AsType()
	n := e.need(t, make(map[resource.Type]bool))
	countFactor := 1.0 / (1.0 + float64(e.bag.Count(t)))
	cellFactor := 1 - 1/maxF(1, float64(entry.EnergyCells))
	chargeFactor := 0.8
	if entry.ChargeRate > 0 {
		chargeFactor = 1
	}
	reliability := Reliability(e.now, entry.TimestampEnergy, entry.HasEnergy)
	score := n * countFactor * cellFactor * chargeFactor * (0.8 + 0.2*reliability)
	score = clamp01(noise(e.rng, score, 0.95, 1.05))
	return candidate{category: catProduce, variant: string(b), score: score, run: func(ex *Explorer) {
		ex.beginGenerate(b, false)
	}}
}

// combineCandidate scores combining complex c with the same shape as
// produceCandidate, multiplied by a readiness factor reflecting how much
// of the recipe's ingredients are already in the bag.
func (e *Explorer) combineCandidate(entry *PlanetInfo, c resource.Complex) candidate {
	recipe := resource.Recipes[c]
	t := c.AsType()
	n := e.need(t, make(map[resource.Type]bool))
	countFactor := 1.0 / (1.0 + float64(e.bag.Count(t)))
	cellFactor := 1 - 1/maxF(1, float64(entry.EnergyCells))
	chargeFactor := 0.8
	if entry.ChargeRate > 0 {
		chargeFactor = 1
	}
	reliability := Reliability(e.now, entry.TimestampEnergy, entry.HasEnergy)

	readiness := 1.0 / 3.0
	haveA := e.bag.Contains(recipe.A.Type())
	haveB := e.bag.Contains(recipe.B.Type())
	switch {
	case haveA && haveB:
		readiness = 1.0
	case haveA || haveB:
		readiness = 2.0 / 3.0
	}

	score := n * countFactor * cellFactor * chargeFactor * (0.8 + 0.2*reliability) * readiness
	score = clamp01(noise(e.rng, score, 0.95, 1.05))
	return candidate{category: catCombine, variant: string(c), score: score, run: func(ex *Explorer) {
		ex.beginCombine(c, false)
	}}
}

func (e *Explorer) moveCandidate(v topology.ID, runAwayScore float64) candidate {
	target, _ := e.cache.Lookup(v)
	if target == nil {
		target = &PlanetInfo{}
	}
	var score float64
	if runAwayScore <= runAwayThreshold {
		score = 1 - e.neighborReliabilityFor(v, target)
	} else {
		score = SafetyScore(e.now, target)
	}
	score = clamp01(noise(e.rng, score, 0.98, 1.02))
	return candidate{category: catMove, variant: idKey(v), score: score, run: func(ex *Explorer) {
		ex.beginMove(v)
	}}
}

// neighborReliabilityFor is the exploration-value term for a candidate
// destination: how little we currently know about it (low reliability
// of its cached observations favors visiting it).
func (e *Explorer) neighborReliabilityFor(v topology.ID, target *PlanetInfo) float64 {
	basicRel := Reliability(e.now, target.TimestampEnergy, target.HasEnergy)
	neighborRel := Reliability(e.now, target.TimestampNeighbors, target.HasNeighbors)
	return (basicRel + neighborRel) / 2
}

func (e *Explorer) doRunAway() {
	entry, _ := e.cache.Lookup(e.currentPlanet)
	if entry == nil || len(entry.Neighbors) == 0 {
		return
	}
	best := entry.Neighbors[0]
	bestScore := -1.0
	for _, n := range entry.Neighbors {
		target, _ := e.cache.Lookup(n)
		if target == nil {
			target = &PlanetInfo{}
		}
		s := SafetyScore(e.now, target)
		if s > bestScore {
			bestScore = s
			best = n
		}
	}
	e.beginMove(best)
}

// beginMove issues a relocation request to the orchestrator; the actual
// send-end hand-off happens asynchronously via MoveToPlanet.
func (e *Explorer) beginMove(v topology.ID) {
	e.toOrch <- protocol.TravelToPlanetRequest{ID: e.id, Current: e.currentPlanet, Destination: v}
	e.state = State{Phase: Traveling}
}

// need computes spec §4.3's demand derivation, recursing over the
// recipe DAG (visited guards against any accidental cycle).
func (e *Explorer) need(t resource.Type, visited map[resource.Type]bool) float64 {
	if visited[t] {
		return 0
	}
	visited[t] = true
	total := e.wants[t]
	for _, c := range resource.ConsumersOf(t) {
		total += 0.8 * e.need(c.AsType(), visited)
	}
	if total > 1.0 {
		total = 1.0
	}
	return total
}

func pickBest(cs []candidate) *candidate {
	if len(cs) == 0 {
		return nil
	}
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].category != cs[j].category {
			return cs[i].category < cs[j].category
		}
		return cs[i].variant < cs[j].variant
	})
	bestIdx := 0
	for i := 1; i < len(cs); i++ {
		if cs[i].score > cs[bestIdx].score {
			bestIdx = i
		}
	}
	return &cs[bestIdx]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func noise(rng interface{ Float64() float64 }, v, lo, hi float64) float64 {
	factor := lo + rng.Float64()*(hi-lo)
	return v * factor
}

func sortedBasics(m map[resource.Basic]struct{}) []resource.Basic {
	out := make([]resource.Basic, 0, len(m))
	for b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedComplex(m map[resource.Complex]struct{}) []resource.Complex {
	out := make([]resource.Complex, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func idKey(id topology.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

package explorer

import (
	"math"
	"testing"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
)

func TestClamp01(t *testing.T) {
	cases := []struct {
		in, want float64
	}{{-0.5, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {1.5, 1}}
	for _, c := range cases {
		if got := clamp01(c.in); got != c.want {
			t.Errorf("clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

type fixedRNG struct{ v float64 }

func (r fixedRNG) Float64() float64 { return r.v }

func TestNoiseAppliesMultiplierWithinBounds(t *testing.T) {
	got := noise(fixedRNG{0}, 1.0, 0.95, 1.05)
	if got != 0.95 {
		t.Errorf("noise at rng=0 = %v, want 0.95 (the low end of the band)", got)
	}
	got = noise(fixedRNG{1}, 1.0, 0.95, 1.05)
	if math.Abs(got-1.05) > 1e-9 {
		t.Errorf("noise at rng=1 = %v, want 1.05 (the high end of the band)", got)
	}
}

func TestReliabilityNeverObservedIsZero(t *testing.T) {
	if got := Reliability(100, 0, false); got != 0 {
		t.Errorf("Reliability(never observed) = %v, want 0", got)
	}
}

func TestReliabilityDecaysWithAge(t *testing.T) {
	fresh := Reliability(10, 10, true)
	if fresh != 1 {
		t.Errorf("Reliability(now==timestamp) = %v, want 1", fresh)
	}
	older := Reliability(200, 10, true)
	if older <= 0 || older >= fresh {
		t.Errorf("Reliability(age=190) = %v, want strictly between 0 and %v", older, fresh)
	}
}

func TestSafetyScoreZeroNeighborsIsZero(t *testing.T) {
	e := &PlanetInfo{EnergyCells: 5, HasNeighbors: true, Neighbors: nil}
	if got := SafetyScore(0, e); got != 0 {
		t.Errorf("SafetyScore with zero neighbors = %v, want 0 (escape degree 0 zeroes the product)", got)
	}
}

func TestSafetyScoreNeverObservedNeighborsUsesFloor(t *testing.T) {
	// A known, non-empty resource set keeps rocketScore above zero, so the
	// neighbor term is the only factor under test.
	e := &PlanetInfo{EnergyCells: 5, ChargeRate: 1, HasNeighbors: false,
		HasBasic: true, Basic: map[resource.Basic]struct{}{resource.Oxygen: {}}}
	got := SafetyScore(0, e)
	if got <= 0 {
		t.Errorf("SafetyScore with unknown neighbors = %v, want > 0 (the 0.2 floor term keeps it non-zero)", got)
	}
}

func TestPickBestPicksHighestScore(t *testing.T) {
	cs := []candidate{
		{category: catWait, variant: "wait", score: 0.2},
		{category: catProduce, variant: "Oxygen", score: 0.9},
		{category: catMove, variant: "3", score: 0.5},
	}
	best := pickBest(cs)
	if best == nil || best.category != catProduce {
		t.Fatalf("pickBest = %+v, want the Produce candidate at score 0.9", best)
	}
}

// TestPickBestTieBreaksByCategoryThenVariant covers spec §4.3's
// tie-break order: equal scores resolve to the lower category first (run-
// away before move before survey-neighbors ... before wait), then by
// variant string within a category.
func TestPickBestTieBreaksByCategoryThenVariant(t *testing.T) {
	cs := []candidate{
		{category: catWait, variant: "wait", score: 0.5},
		{category: catMove, variant: "5", score: 0.5},
		{category: catMove, variant: "2", score: 0.5},
		{category: catRunAway, variant: "runaway", score: 0.5},
	}
	best := pickBest(cs)
	if best.category != catRunAway {
		t.Fatalf("pickBest tie-break = category %v, want catRunAway (lowest category wins ties)", best.category)
	}
}

func TestPickBestTieBreaksByVariantWithinCategory(t *testing.T) {
	cs := []candidate{
		{category: catMove, variant: "5", score: 0.5},
		{category: catMove, variant: "2", score: 0.5},
	}
	best := pickBest(cs)
	if best.variant != "2" {
		t.Fatalf("pickBest tie-break = variant %q, want \"2\" (lexicographically lowest variant wins ties)", best.variant)
	}
}

func TestPickBestEmpty(t *testing.T) {
	if got := pickBest(nil); got != nil {
		t.Errorf("pickBest(nil) = %v, want nil", got)
	}
}

func TestExplorerNeedPropagatesThroughRecipeDAG(t *testing.T) {
	e := New(1, 1, 1, nil, nil, nil, nil)
	e.SetDemand(resource.Water.AsType(), 1.0)
	// Oxygen feeds Water (spec's recipe table), so demand for Water must
	// propagate a non-zero need onto Oxygen even though Oxygen itself
	// carries no direct declared demand.
	got := e.need(resource.Oxygen.AsType(), make(map[resource.Type]bool))
	if got <= 0 {
		t.Errorf("need(Oxygen) = %v, want > 0 (demand for Water propagates to its ingredient)", got)
	}
}

func TestExplorerNeedClampsToOne(t *testing.T) {
	e := New(1, 1, 1, nil, nil, nil, nil)
	e.SetDemand(resource.Water.AsType(), 5.0)
	got := e.need(resource.Water.AsType(), make(map[resource.Type]bool))
	if got != 1.0 {
		t.Errorf("need() = %v, want clamped to 1.0", got)
	}
}

func TestSortedBasicsAndComplexAreDeterministic(t *testing.T) {
	m := map[resource.Basic]struct{}{resource.Silicon: {}, resource.Carbon: {}, resource.Oxygen: {}}
	got := sortedBasics(m)
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("sortedBasics(%v) not strictly ascending: %v", m, got)
		}
	}
}

func TestIdKey(t *testing.T) {
	if got := idKey(42); got != "42" {
		t.Errorf("idKey(42) = %q, want \"42\"", got)
	}
}

package explorer

import (
	"testing"
	"time"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
)

const testTimeout = time.Second

type harness struct {
	e          *Explorer
	toExplorer chan protocol.OEMsg
	toOrch     chan protocol.EOMsg
	planetSend chan protocol.EPMsg
	fromPlanet chan protocol.PEMsg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	toExplorer := make(chan protocol.OEMsg, 4)
	toOrch := make(chan protocol.EOMsg, 4)
	planetSend := make(chan protocol.EPMsg, 4)
	fromPlanet := make(chan protocol.PEMsg, 4)
	e := New(1, 100, 42, toExplorer, toOrch, planetSend, fromPlanet)
	e.SetManual(true) // keep the AI out of the way; tests drive the state machine directly
	go e.Run()
	return &harness{e: e, toExplorer: toExplorer, toOrch: toOrch, planetSend: planetSend, fromPlanet: fromPlanet}
}

// newStartedHarness is newHarness with the explorer already moved out of
// WaitingToStart (which accepts only StartExplorerAI) into Idle.
func newStartedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.toExplorer <- protocol.StartExplorerAI{}
	if _, ok := recvEO(t, h.toOrch).(protocol.StartExplorerAIResult); !ok {
		t.Fatal("expected StartExplorerAIResult")
	}
	return h
}

func recvEO(t *testing.T, ch chan protocol.EOMsg) protocol.EOMsg {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for an explorer-to-orchestrator message")
		return nil
	}
}

func recvEP(t *testing.T, ch chan protocol.EPMsg) protocol.EPMsg {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for an explorer-to-planet message")
		return nil
	}
}

func TestExplorerStartStopKillLifecycle(t *testing.T) {
	h := newHarness(t)

	h.toExplorer <- protocol.StartExplorerAI{}
	if _, ok := recvEO(t, h.toOrch).(protocol.StartExplorerAIResult); !ok {
		t.Fatal("expected StartExplorerAIResult")
	}

	h.toExplorer <- protocol.StopExplorerAI{}
	if _, ok := recvEO(t, h.toOrch).(protocol.StopExplorerAIResult); !ok {
		t.Fatal("expected StopExplorerAIResult")
	}

	h.toExplorer <- protocol.KillExplorer{}
	if _, ok := recvEO(t, h.toOrch).(protocol.KillExplorerResult); !ok {
		t.Fatal("expected KillExplorerResult")
	}
}

func TestExplorerMoveToPlanetRefusalLeavesCurrentUnchanged(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.MoveToPlanet{Send: nil, PlanetID: 200}
	// Refusal carries no observable orchestrator-bound reply; assert via a
	// follow-up CurrentPlanetRequest that currentPlanet did not change.
	h.toExplorer <- protocol.CurrentPlanetRequest{}
	resp := recvEO(t, h.toOrch).(protocol.CurrentPlanetResult)
	if resp.PlanetID != 100 {
		t.Errorf("CurrentPlanetResult.PlanetID = %d, want 100 (refused move must not relocate)", resp.PlanetID)
	}
}

func TestExplorerMoveToPlanetAcceptedRelocates(t *testing.T) {
	h := newStartedHarness(t)
	newSend := make(chan protocol.EPMsg, 1)
	h.toExplorer <- protocol.MoveToPlanet{Send: newSend, PlanetID: 200}
	h.toExplorer <- protocol.CurrentPlanetRequest{}
	resp := recvEO(t, h.toOrch).(protocol.CurrentPlanetResult)
	if resp.PlanetID != 200 {
		t.Errorf("CurrentPlanetResult.PlanetID = %d, want 200 after an accepted move", resp.PlanetID)
	}
}

func TestExplorerSupportedResourceRequestSurveysThenCaches(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.SupportedResourceRequest{}
	if _, ok := recvEP(t, h.planetSend).(protocol.EPSupportedResourceRequest); !ok {
		t.Fatal("expected the explorer to survey its current planet for supported resources")
	}
	set := map[resource.Basic]struct{}{resource.Oxygen: {}}
	h.fromPlanet <- protocol.PESupportedResourceResponse{Set: set}
	resp := recvEO(t, h.toOrch).(protocol.SupportedResourceResult)
	if len(resp.Set) != 1 {
		t.Fatalf("SupportedResourceResult.Set = %v, want %v", resp.Set, set)
	}

	// A second request against the same planet must be served from cache,
	// without surveying the planet again.
	h.toExplorer <- protocol.SupportedResourceRequest{}
	resp2 := recvEO(t, h.toOrch).(protocol.SupportedResourceResult)
	if len(resp2.Set) != 1 {
		t.Errorf("cached SupportedResourceResult.Set = %v, want %v", resp2.Set, set)
	}
	select {
	case m := <-h.planetSend:
		t.Fatalf("expected no second planet survey, got %+v", m)
	default:
	}
}

func TestExplorerBuffersOrchWhileSurveying(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.SupportedResourceRequest{}
	if _, ok := recvEP(t, h.planetSend).(protocol.EPSupportedResourceRequest); !ok {
		t.Fatal("expected a resource survey")
	}

	// A control message arriving while Surveying is buffered, not dropped.
	h.toExplorer <- protocol.StartExplorerAI{}

	// Settle the survey; the buffered StartExplorerAI must flush next.
	h.fromPlanet <- protocol.PESupportedResourceResponse{Set: map[resource.Basic]struct{}{}}
	recvEO(t, h.toOrch) // SupportedResourceResult

	if _, ok := recvEO(t, h.toOrch).(protocol.StartExplorerAIResult); !ok {
		t.Fatal("expected the buffered StartExplorerAI to flush once Idle")
	}
}

func TestExplorerGenerateResourceOrchestratorInitiated(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.GenerateResourceRequest{Basic: resource.Oxygen}
	req, ok := recvEP(t, h.planetSend).(protocol.EPGenerateResourceRequest)
	if !ok || req.Basic != resource.Oxygen {
		t.Fatalf("expected an EPGenerateResourceRequest for Oxygen, got %+v", req)
	}
	got := resource.Oxygen
	h.fromPlanet <- protocol.PEGenerateResourceResponse{Result: &got}
	resp := recvEO(t, h.toOrch).(protocol.GenResult)
	if resp.Result == nil || *resp.Result != resource.Oxygen {
		t.Errorf("GenResult.Result = %v, want Oxygen", resp.Result)
	}
}

func TestExplorerCombineResourceInsufficientIngredientsSkipsPlanet(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.CombineResourceRequest{Complex: resource.Water}
	resp := recvEO(t, h.toOrch).(protocol.CombResult)
	if resp.Result != nil {
		t.Errorf("CombResult.Result = %v, want nil (empty bag can't afford Water)", resp.Result)
	}
	select {
	case m := <-h.planetSend:
		t.Fatalf("expected no planet contact when the bag can't afford the recipe, got %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestExplorerCombineResourceSuccessInsertsIntoBag(t *testing.T) {
	h := newStartedHarness(t)
	h.e.bag.Insert(resource.Hydrogen.AsType())
	h.e.bag.Insert(resource.Oxygen.AsType())

	h.toExplorer <- protocol.CombineResourceRequest{Complex: resource.Water}
	req, ok := recvEP(t, h.planetSend).(protocol.EPCombineResourceRequest)
	if !ok || req.Request.Complex != resource.Water {
		t.Fatalf("expected an EPCombineResourceRequest for Water, got %+v", req)
	}

	h.fromPlanet <- protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{Ok: true, Complex: resource.Water}}
	resp := recvEO(t, h.toOrch).(protocol.CombResult)
	if resp.Result == nil || *resp.Result != resource.Water {
		t.Fatalf("CombResult.Result = %v, want Water", resp.Result)
	}
	if !h.e.bag.Contains(resource.Water.AsType()) {
		t.Error("bag must contain Water after a successful combine")
	}
}

func TestExplorerCombineResourceFailureRestoresIngredients(t *testing.T) {
	h := newStartedHarness(t)
	h.e.bag.Insert(resource.Hydrogen.AsType())
	h.e.bag.Insert(resource.Oxygen.AsType())

	h.toExplorer <- protocol.CombineResourceRequest{Complex: resource.Water}
	recvEP(t, h.planetSend)

	h.fromPlanet <- protocol.PECombineResourceResponse{Outcome: protocol.CombineOutcome{
		Ok: false, Reason: "planet not running",
		A: resource.Ingredient{Basic: resource.Hydrogen, IsBasic: true},
		B: resource.Ingredient{Basic: resource.Oxygen, IsBasic: true},
	}}
	resp := recvEO(t, h.toOrch).(protocol.CombResult)
	if resp.Result != nil {
		t.Errorf("CombResult.Result = %v, want nil on a failed combine", resp.Result)
	}
	if !h.e.bag.Contains(resource.Hydrogen.AsType()) || !h.e.bag.Contains(resource.Oxygen.AsType()) {
		t.Error("failed combine must restore both withdrawn ingredients")
	}
}

func TestExplorerKillIsPreemptiveDuringSurvey(t *testing.T) {
	h := newStartedHarness(t)
	h.toExplorer <- protocol.SupportedResourceRequest{}
	recvEP(t, h.planetSend)

	h.toExplorer <- protocol.KillExplorer{}
	if _, ok := recvEO(t, h.toOrch).(protocol.KillExplorerResult); !ok {
		t.Fatal("KillExplorer must preempt an in-flight survey immediately")
	}
}

func TestAcceptsOrchKillAlwaysAccepted(t *testing.T) {
	for _, ph := range []Phase{WaitingToStart, Idle, WaitingForNeighbours, Traveling, GeneratingResource, CombiningResources, Surveying} {
		if !AcceptsOrch(State{Phase: ph}, protocol.KillExplorer{}) {
			t.Errorf("AcceptsOrch(%s, KillExplorer) = false, want true", ph)
		}
	}
}

func TestAcceptsPlanetSurveyRespectsPendingFlags(t *testing.T) {
	s := State{Phase: Surveying, SurveyResourcesPending: true}
	if !AcceptsPlanet(s, protocol.PESupportedResourceResponse{}) {
		t.Error("AcceptsPlanet must accept a pending resource survey reply")
	}
	if AcceptsPlanet(s, protocol.PESupportedCombinationResponse{}) {
		t.Error("AcceptsPlanet must reject a reply for a survey leg that was never requested")
	}
}

package planetregistry

import (
	"testing"
	"time"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/planet"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/protocol"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
)

const testTimeout = time.Second

func newTestPlanet(t *testing.T, tag int, id uint64) (planet.Planet, chan protocol.OPMsg, chan protocol.POMsg, chan protocol.EPMsg) {
	t.Helper()
	toPlanet := make(chan protocol.OPMsg, 4)
	toOrch := make(chan protocol.POMsg, 4)
	fromExplorer := make(chan protocol.EPMsg, 4)
	r := New()
	p, err := r.Spawn(tag, protocol.ID(id), toPlanet, toOrch, fromExplorer)
	if err != nil {
		t.Fatalf("Spawn(%d) error = %v", tag, err)
	}
	go p.Run()
	return p, toPlanet, toOrch, fromExplorer
}

func recvPO(t *testing.T, ch chan protocol.POMsg) protocol.POMsg {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a planet-to-orchestrator message")
		return nil
	}
}

func TestSpawnUnknownTag(t *testing.T) {
	r := New()
	toPlanet := make(chan protocol.OPMsg)
	toOrch := make(chan protocol.POMsg)
	fromExplorer := make(chan protocol.EPMsg)
	if _, err := r.Spawn(99, 1, toPlanet, toOrch, fromExplorer); err == nil {
		t.Error("Spawn(99) = nil error, want an unknown-tag error")
	}
}

func TestActorStartStopKillLifecycle(t *testing.T) {
	_, toPlanet, toOrch, _ := newTestPlanet(t, 0, 1)

	toPlanet <- protocol.StartPlanetAI{}
	if _, ok := recvPO(t, toOrch).(protocol.StartPlanetAIResult); !ok {
		t.Fatal("expected StartPlanetAIResult")
	}

	toPlanet <- protocol.StopPlanetAI{}
	if _, ok := recvPO(t, toOrch).(protocol.StopPlanetAIResult); !ok {
		t.Fatal("expected StopPlanetAIResult")
	}

	toPlanet <- protocol.KillPlanet{}
	if _, ok := recvPO(t, toOrch).(protocol.KillPlanetResult); !ok {
		t.Fatal("expected KillPlanetResult")
	}
	if _, ok := recvPO(t, toOrch).(protocol.Stopped); !ok {
		t.Fatal("expected a trailing Stopped once the actor's loop exits")
	}
}

func TestActorSunrayChargesOneCell(t *testing.T) {
	_, toPlanet, toOrch, _ := newTestPlanet(t, 1, 1) // tag 1: 3 cells, no rocket
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)

	toPlanet <- protocol.InternalStateRequest{}
	before := recvPO(t, toOrch).(protocol.InternalStateResponse)
	if before.Snapshot.ChargedCount != 0 {
		t.Fatalf("initial ChargedCount = %d, want 0", before.Snapshot.ChargedCount)
	}

	toPlanet <- protocol.Sunray{Payload: "sunray"}
	if _, ok := recvPO(t, toOrch).(protocol.SunrayAck); !ok {
		t.Fatal("expected SunrayAck")
	}

	toPlanet <- protocol.InternalStateRequest{}
	after := recvPO(t, toOrch).(protocol.InternalStateResponse)
	if after.Snapshot.ChargedCount != 1 {
		t.Errorf("ChargedCount after one sunray = %d, want 1", after.Snapshot.ChargedCount)
	}
}

func TestActorAsteroidWithRocketDeflects(t *testing.T) {
	_, toPlanet, toOrch, _ := newTestPlanet(t, 0, 1) // tag 0: has rocket
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)

	toPlanet <- protocol.Asteroid{Payload: "asteroid"}
	ack, ok := recvPO(t, toOrch).(protocol.AsteroidAck)
	if !ok {
		t.Fatal("expected AsteroidAck")
	}
	if ack.Rocket == nil {
		t.Error("planet with a rocket must deflect (Rocket != nil)")
	}
}

func TestActorAsteroidWithoutRocketDies(t *testing.T) {
	_, toPlanet, toOrch, _ := newTestPlanet(t, 1, 1) // tag 1: no rocket
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)

	toPlanet <- protocol.Asteroid{Payload: "asteroid"}
	ack, ok := recvPO(t, toOrch).(protocol.AsteroidAck)
	if !ok {
		t.Fatal("expected AsteroidAck")
	}
	if ack.Rocket != nil {
		t.Error("planet without a rocket must self-destruct (Rocket == nil)")
	}
	// The actor marks itself Dead optimistically but keeps its loop alive
	// to answer the orchestrator's follow-up KillPlanet, mirroring the
	// real handleAsteroidAck hand-off.
	toPlanet <- protocol.KillPlanet{}
	if _, ok := recvPO(t, toOrch).(protocol.KillPlanetResult); !ok {
		t.Fatal("expected KillPlanetResult after KillPlanet following an asteroid death")
	}
	if _, ok := recvPO(t, toOrch).(protocol.Stopped); !ok {
		t.Fatal("expected a trailing Stopped after KillPlanetResult")
	}
}

func TestActorIncomingExplorerCapacity(t *testing.T) {
	_, toPlanet, toOrch, _ := newTestPlanet(t, 3, 1) // tag 3: ExplorerCapacity 1
	reply := make(chan protocol.PEMsg, 1)

	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 10, ExplorerSend: reply}
	resp := recvPO(t, toOrch).(protocol.IncomingExplorerResponse)
	if !resp.Ok {
		t.Fatal("first explorer admitted at capacity 1 should be Ok")
	}

	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 11, ExplorerSend: reply}
	resp2 := recvPO(t, toOrch).(protocol.IncomingExplorerResponse)
	if resp2.Ok {
		t.Error("second explorer beyond capacity 1 should be refused")
	}
}

func TestActorOutgoingExplorerDeregisters(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 0, 1)
	reply := make(chan protocol.PEMsg, 1)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 10, ExplorerSend: reply}
	recvPO(t, toOrch)

	toPlanet <- protocol.OutgoingExplorerRequest{ExplorerID: 10}
	resp := recvPO(t, toOrch).(protocol.OutgoingExplorerResponse)
	if !resp.Ok {
		t.Fatal("OutgoingExplorerResponse.Ok = false, want true")
	}

	// Once deregistered, a reply addressed to that explorer is dropped,
	// not delivered.
	fromExplorer <- protocol.EPAvailableEnergyCellRequest{ExplorerID: 10}
	select {
	case m := <-reply:
		t.Fatalf("unregistered explorer still received a reply: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestActorGenerateResourceSupportedAndUnsupported(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 0, 1) // supports Oxygen, Hydrogen
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)
	reply := make(chan protocol.PEMsg, 2)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 1, ExplorerSend: reply}
	recvPO(t, toOrch)

	// Generating spends one charged cell and cells start uncharged, so
	// charge one first.
	toPlanet <- protocol.Sunray{Payload: "sunray"}
	if _, ok := recvPO(t, toOrch).(protocol.SunrayAck); !ok {
		t.Fatal("expected SunrayAck")
	}

	fromExplorer <- protocol.EPGenerateResourceRequest{ExplorerID: 1, Basic: resource.Oxygen}
	resp := (<-reply).(protocol.PEGenerateResourceResponse)
	if resp.Result == nil || *resp.Result != resource.Oxygen {
		t.Fatalf("generate supported Oxygen = %v, want Oxygen", resp.Result)
	}

	fromExplorer <- protocol.EPGenerateResourceRequest{ExplorerID: 1, Basic: resource.Silicon}
	resp2 := (<-reply).(protocol.PEGenerateResourceResponse)
	if resp2.Result != nil {
		t.Errorf("generate unsupported Silicon = %v, want nil", resp2.Result)
	}
}

func TestActorGenerateResourceRequiresChargedCell(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 1, 1) // tag 1: Carbon supported, starts uncharged
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)
	reply := make(chan protocol.PEMsg, 1)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 1, ExplorerSend: reply}
	recvPO(t, toOrch)

	fromExplorer <- protocol.EPGenerateResourceRequest{ExplorerID: 1, Basic: resource.Carbon}
	resp := (<-reply).(protocol.PEGenerateResourceResponse)
	if resp.Result != nil {
		t.Error("generate with no charged cell must yield nil, not a resource")
	}
}

func TestActorCombineResourceRecipeMismatch(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 2, 1) // tag 2: supports Water, Life
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)
	reply := make(chan protocol.PEMsg, 1)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 1, ExplorerSend: reply}
	recvPO(t, toOrch)

	req := protocol.ComplexRequest{
		Complex: resource.Water,
		A:       resource.Ingredient{Basic: resource.Carbon, IsBasic: true},
		B:       resource.Ingredient{Basic: resource.Oxygen, IsBasic: true},
	}
	fromExplorer <- protocol.EPCombineResourceRequest{ExplorerID: 1, Request: req}
	resp := (<-reply).(protocol.PECombineResourceResponse)
	if resp.Outcome.Ok {
		t.Error("combining Water from Carbon+Oxygen should fail the recipe match")
	}
	if resp.Outcome.A.Type() != req.A.Type() || resp.Outcome.B.Type() != req.B.Type() {
		t.Error("a failed combine must echo back the offered ingredients for the explorer to restore")
	}
}

func TestActorCombineResourceSuccess(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 2, 1)
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)
	reply := make(chan protocol.PEMsg, 1)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 1, ExplorerSend: reply}
	recvPO(t, toOrch)

	// A successful combine spends exactly one charged cell (spec §4.2
	// Scenario C), so charge one first.
	toPlanet <- protocol.Sunray{Payload: "sunray"}
	if _, ok := recvPO(t, toOrch).(protocol.SunrayAck); !ok {
		t.Fatal("expected SunrayAck")
	}

	req := protocol.ComplexRequest{
		Complex: resource.Water,
		A:       resource.Ingredient{Basic: resource.Hydrogen, IsBasic: true},
		B:       resource.Ingredient{Basic: resource.Oxygen, IsBasic: true},
	}
	fromExplorer <- protocol.EPCombineResourceRequest{ExplorerID: 1, Request: req}
	resp := (<-reply).(protocol.PECombineResourceResponse)
	if !resp.Outcome.Ok || resp.Outcome.Complex != resource.Water {
		t.Fatalf("combine Hydrogen+Oxygen into Water = %+v, want Ok with Complex=Water", resp.Outcome)
	}

	toPlanet <- protocol.InternalStateRequest{}
	after := recvPO(t, toOrch).(protocol.InternalStateResponse)
	if after.Snapshot.ChargedCount != 0 {
		t.Errorf("ChargedCount after a successful combine = %d, want 0 (exactly one cell spent)", after.Snapshot.ChargedCount)
	}
}

func TestActorCombineResourceFailsWithoutChargedCell(t *testing.T) {
	_, toPlanet, toOrch, fromExplorer := newTestPlanet(t, 2, 1)
	toPlanet <- protocol.StartPlanetAI{}
	recvPO(t, toOrch)
	reply := make(chan protocol.PEMsg, 1)
	toPlanet <- protocol.IncomingExplorerRequest{ExplorerID: 1, ExplorerSend: reply}
	recvPO(t, toOrch)

	req := protocol.ComplexRequest{
		Complex: resource.Water,
		A:       resource.Ingredient{Basic: resource.Hydrogen, IsBasic: true},
		B:       resource.Ingredient{Basic: resource.Oxygen, IsBasic: true},
	}
	fromExplorer <- protocol.EPCombineResourceRequest{ExplorerID: 1, Request: req}
	resp := (<-reply).(protocol.PECombineResourceResponse)
	if resp.Outcome.Ok {
		t.Error("combine with no charged cell available must fail")
	}
}

// Package protocol defines the four typed message sets of spec §4.1 as
// plain Go types: Orchestrator↔Planet, Orchestrator↔Explorer, and
// Explorer↔Planet. Per the §9 design note ("message-to-state coupling"),
// each message is its own concrete struct implementing a small sealed
// marker interface per channel direction; acceptance and effect are kept
// separate — this package only describes shape, never behavior.
//
// Channels are plain Go "chan" values: reliable, FIFO per sender, and
// buffered with a fixed capacity chosen where they are made (the
// orchestrator uses 64 per actor channel and 256 for its inboxes), so a
// send blocks once the buffer is full; they are not unbounded. Because a Go
// channel value is itself a transferable handle, the "send-end transfer"
// of spec §9 falls out of passing a chan value inside a message, with no
// extra ownership machinery required.
package protocol

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

type ID = topology.ID

// ---------------------------------------------------------------------
// Orchestrator -> Planet
// ---------------------------------------------------------------------

// OPMsg is any message the orchestrator may send to a planet.
type OPMsg interface{ isOPMsg() }

type StartPlanetAI struct{}
type StopPlanetAI struct{}
type KillPlanet struct{}
type Sunray struct{ Payload string }
type Asteroid struct{ Payload string }
type InternalStateRequest struct{}

// IncomingExplorerRequest asks the planet to admit an arriving explorer,
// handing over the send-end the planet should use to reply to that
// explorer from now on.
type IncomingExplorerRequest struct {
	ExplorerID   ID
	ExplorerSend chan<- PEMsg
}

// OutgoingExplorerRequest deregisters a departing explorer.
type OutgoingExplorerRequest struct{ ExplorerID ID }

func (StartPlanetAI) isOPMsg()           {}
func (StopPlanetAI) isOPMsg()            {}
func (KillPlanet) isOPMsg()              {}
func (Sunray) isOPMsg()                  {}
func (Asteroid) isOPMsg()                {}
func (InternalStateRequest) isOPMsg()    {}
func (IncomingExplorerRequest) isOPMsg() {}
func (OutgoingExplorerRequest) isOPMsg() {}

// ---------------------------------------------------------------------
// Planet -> Orchestrator
// ---------------------------------------------------------------------

// POMsg is any message a planet may send to the orchestrator.
type POMsg interface{ isPOMsg() }

type StartPlanetAIResult struct{ ID ID }
type StopPlanetAIResult struct{ ID ID }
type Stopped struct{ ID ID }
type KillPlanetResult struct{ ID ID }
type SunrayAck struct{ ID ID }

// AsteroidAck reports the planet's deflection outcome. Rocket is nil iff
// the planet had no rocket and self-destructed.
type AsteroidAck struct {
	ID     ID
	Rocket *string
}

// InternalStateSnapshot is the consistent {energy_cells, charged_count,
// has_rocket} triple of spec §4.2.
type InternalStateSnapshot struct {
	EnergyCells  []bool
	ChargedCount int
	HasRocket    bool
}

type InternalStateResponse struct {
	ID       ID
	Snapshot InternalStateSnapshot
}

type IncomingExplorerResponse struct {
	ID         ID
	ExplorerID ID
	Ok         bool
}

type OutgoingExplorerResponse struct {
	ID         ID
	ExplorerID ID
	Ok         bool
}

func (StartPlanetAIResult) isPOMsg()      {}
func (StopPlanetAIResult) isPOMsg()       {}
func (Stopped) isPOMsg()                  {}
func (KillPlanetResult) isPOMsg()         {}
func (SunrayAck) isPOMsg()                {}
func (AsteroidAck) isPOMsg()              {}
func (InternalStateResponse) isPOMsg()    {}
func (IncomingExplorerResponse) isPOMsg() {}
func (OutgoingExplorerResponse) isPOMsg() {}

// ---------------------------------------------------------------------
// Orchestrator -> Explorer
// ---------------------------------------------------------------------

// OEMsg is any message the orchestrator may send to an explorer.
type OEMsg interface{ isOEMsg() }

type StartExplorerAI struct{}
type StopExplorerAI struct{}
type ResetExplorerAI struct{}
type KillExplorer struct{}

// MoveToPlanet completes (Send != nil) or refuses (Send == nil) a
// relocation; see spec §4.4's relocation protocol.
type MoveToPlanet struct {
	Send     chan<- EPMsg
	PlanetID ID
}

type CurrentPlanetRequest struct{}
type SupportedResourceRequest struct{}
type SupportedCombinationRequest struct{}
type GenerateResourceRequest struct{ Basic resource.Basic }
type CombineResourceRequest struct{ Complex resource.Complex }
type BagContentRequest struct{}
type NeighborsResponse struct{ IDs []ID }

func (StartExplorerAI) isOEMsg()              {}
func (StopExplorerAI) isOEMsg()               {}
func (ResetExplorerAI) isOEMsg()               {}
func (KillExplorer) isOEMsg()                 {}
func (MoveToPlanet) isOEMsg()                 {}
func (CurrentPlanetRequest) isOEMsg()         {}
func (SupportedResourceRequest) isOEMsg()     {}
func (SupportedCombinationRequest) isOEMsg()  {}
func (GenerateResourceRequest) isOEMsg()      {}
func (CombineResourceRequest) isOEMsg()       {}
func (BagContentRequest) isOEMsg()            {}
func (NeighborsResponse) isOEMsg()            {}

// ---------------------------------------------------------------------
// Explorer -> Orchestrator
// ---------------------------------------------------------------------

// EOMsg is any message an explorer may send to the orchestrator.
type EOMsg interface{ isEOMsg() }

type StartExplorerAIResult struct{ ID ID }
type StopExplorerAIResult struct{ ID ID }
type KillExplorerResult struct{ ID ID }
type ResetExplorerAIResult struct{ ID ID }
type CurrentPlanetResult struct {
	ID       ID
	PlanetID ID
}
type SupportedResourceResult struct {
	ID  ID
	Set map[resource.Basic]struct{}
}
type SupportedCombinationResult struct {
	ID  ID
	Set map[resource.Complex]struct{}
}

// GenResult/CombResult carry the planet's answer back up for requests the
// orchestrator itself initiated (expect_orch_reply = true).
type GenResult struct {
	ID     ID
	Result *resource.Basic
}
type CombResult struct {
	ID     ID
	Result *resource.Complex
}
type BagContentResponse struct {
	ID       ID
	Snapshot []resource.Type
}

// NeighborsRequest asks the orchestrator for current's neighbor list.
type NeighborsRequest struct {
	ID      ID
	Current ID
}

// TravelToPlanetRequest begins the relocation protocol of spec §4.4.
type TravelToPlanetRequest struct {
	ID          ID
	Current     ID
	Destination ID
}

func (StartExplorerAIResult) isEOMsg()     {}
func (StopExplorerAIResult) isEOMsg()      {}
func (KillExplorerResult) isEOMsg()        {}
func (ResetExplorerAIResult) isEOMsg()     {}
func (CurrentPlanetResult) isEOMsg()       {}
func (SupportedResourceResult) isEOMsg()   {}
func (SupportedCombinationResult) isEOMsg() {}
func (GenResult) isEOMsg()                 {}
func (CombResult) isEOMsg()                {}
func (BagContentResponse) isEOMsg()        {}
func (NeighborsRequest) isEOMsg()          {}
func (TravelToPlanetRequest) isEOMsg()     {}

// ---------------------------------------------------------------------
// Explorer -> Planet
// ---------------------------------------------------------------------

// EPMsg is any message an explorer may send to its current planet.
type EPMsg interface{ isEPMsg() }

type EPSupportedResourceRequest struct{ ExplorerID ID }
type EPSupportedCombinationRequest struct{ ExplorerID ID }
type EPGenerateResourceRequest struct {
	ExplorerID ID
	Basic      resource.Basic
}

// ComplexRequest names the ingredients the explorer is offering, so the
// planet can validate them against the recipe table without trusting
// the explorer's bag.
type ComplexRequest struct {
	Complex resource.Complex
	A, B    resource.Ingredient
}

type EPCombineResourceRequest struct {
	ExplorerID ID
	Request    ComplexRequest
}
type EPAvailableEnergyCellRequest struct{ ExplorerID ID }

func (EPSupportedResourceRequest) isEPMsg()    {}
func (EPSupportedCombinationRequest) isEPMsg() {}
func (EPGenerateResourceRequest) isEPMsg()     {}
func (EPCombineResourceRequest) isEPMsg()      {}
func (EPAvailableEnergyCellRequest) isEPMsg()  {}

// ---------------------------------------------------------------------
// Planet -> Explorer
// ---------------------------------------------------------------------

// PEMsg is any message a planet may send to an explorer currently docked
// with it.
type PEMsg interface{ isPEMsg() }

type PESupportedResourceResponse struct{ Set map[resource.Basic]struct{} }
type PESupportedCombinationResponse struct{ Set map[resource.Complex]struct{} }
type PEGenerateResourceResponse struct{ Result *resource.Basic }

// CombineOutcome is the ok(complex) | err(reason, a, b) result of spec
// §4.1: on failure the two ingredients are carried back unchanged so the
// explorer can restore its bag atomically.
type CombineOutcome struct {
	Ok      bool
	Complex resource.Complex
	Reason  string
	A, B    resource.Ingredient
}

type PECombineResourceResponse struct{ Outcome CombineOutcome }
type PEAvailableEnergyCellResponse struct{ Count int }
type PEStopped struct{}

func (PESupportedResourceResponse) isPEMsg()    {}
func (PESupportedCombinationResponse) isPEMsg() {}
func (PEGenerateResourceResponse) isPEMsg()     {}
func (PECombineResourceResponse) isPEMsg()      {}
func (PEAvailableEnergyCellResponse) isPEMsg()  {}
func (PEStopped) isPEMsg()                      {}

package planetregistry

import (
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/resource"
)

// Variant describes the behavioral profile a planet-type tag selects:
// how many energy cells it starts with, whether it carries a rocket, and
// which resources it supports. The spec treats individual planet
// behaviors and their internal energy mechanics as a black box (out of
// scope, spec §1); this gives the registry's seven tags (spec §6: type
// ∈ {0..6}) just enough behavioral spread to exercise every protocol
// invariant without inventing undisclosed mechanics.
type Variant struct {
	Tag             int
	Cells           int
	HasRocket       bool
	ExplorerCapacity int
	Basic           map[resource.Basic]struct{}
	Complex         map[resource.Complex]struct{}
}

func basicSet(bs ...resource.Basic) map[resource.Basic]struct{} {
	m := make(map[resource.Basic]struct{}, len(bs))
	for _, b := range bs {
		m[b] = struct{}{}
	}
	return m
}

func complexSet(cs ...resource.Complex) map[resource.Complex]struct{} {
	m := make(map[resource.Complex]struct{}, len(cs))
	for _, c := range cs {
		m[c] = struct{}{}
	}
	return m
}

// Variants is the immutable table of the seven built-in planet types.
var Variants = map[int]Variant{
	0: {Tag: 0, Cells: 4, HasRocket: true, ExplorerCapacity: 2,
		Basic: basicSet(resource.Oxygen, resource.Hydrogen), Complex: complexSet(resource.Water)},
	1: {Tag: 1, Cells: 3, HasRocket: false, ExplorerCapacity: 2,
		Basic: basicSet(resource.Carbon), Complex: complexSet(resource.Diamond)},
	2: {Tag: 2, Cells: 6, HasRocket: true, ExplorerCapacity: 3,
		Basic: basicSet(resource.Oxygen, resource.Hydrogen, resource.Carbon),
		Complex: complexSet(resource.Water, resource.Life)},
	3: {Tag: 3, Cells: 2, HasRocket: false, ExplorerCapacity: 1,
		Basic: basicSet(resource.Silicon), Complex: complexSet()},
	4: {Tag: 4, Cells: 5, HasRocket: false, ExplorerCapacity: 2,
		Basic: basicSet(resource.Oxygen, resource.Hydrogen, resource.Carbon, resource.Silicon),
		Complex: complexSet(resource.Water, resource.Diamond, resource.Life, resource.Robot)},
	5: {Tag: 5, Cells: 8, HasRocket: true, ExplorerCapacity: 4,
		Basic: basicSet(resource.Oxygen, resource.Hydrogen, resource.Carbon, resource.Silicon),
		Complex: complexSet(resource.Water, resource.Life, resource.Dolphin, resource.AIPartner)},
	6: {Tag: 6, Cells: 1, HasRocket: false, ExplorerCapacity: 1,
		Basic: basicSet(), Complex: complexSet()},
}

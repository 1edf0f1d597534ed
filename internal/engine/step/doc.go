// Package step defines the contracts the history core uses to talk to a
// document model without depending on one: a Step that can be applied,
// inverted and remapped, a position Mapping built out of per-step StepMaps,
// and a Selection that travels through both.
//
// The history log never inspects document content. It only ever calls
// Step.Invert, Step.Map, Step.Merge, Step.GetMap, Transform.MaybeStep and
// the Mapping it gets back from a Transform. This package also carries one concrete, deliberately
// small implementation of those contracts — a flat-text document and a
// single replace-range step — so the rest of the module has something real
// to run against in tests.
package step

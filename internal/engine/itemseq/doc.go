// Package itemseq provides a persistent, append-biased sequence used to
// back the history branches.
//
// It is a small B-tree: leaf nodes hold a bounded run of elements, internal
// nodes hold child references plus per-child counts. Operations never
// mutate a node in place; Append, Slice and the two persistent constructors
// all return a new Seq sharing structure with the original.
//
// Elements are opaque (Seq is generic over T); chunks are sized in element
// counts rather than bytes — a branch rarely holds more than a few hundred
// items, so the tree stays shallow without needing byte- or line-aware
// rebalancing.
package itemseq

// Package puzzle holds the level data model and the layered graph generator.
//
// A level is an arena of nodes: every Node is owned by its Level and refers
// to other nodes only by id through its Connections list. Graph indexes that
// arena for lookups and reachability checks without introducing pointer
// cycles.
//
// Generation is deterministic for a given *rand.Rand: coordinates, node
// types, values and node ids are all drawn from the injected source in a
// fixed order, so a seed reproduces the exact same level.
package puzzle

package graph

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// subscribe records that observer read source during its current run. The
// two relations are always updated together so that
// source ∈ sources(observer) ⇔ observer ∈ subscribers(source).
func (rt *Runtime) subscribe(observer, source NodeID) {
	subs, ok := rt.subscribers[source]
	if !ok {
		subs = mapset.NewThreadUnsafeSet[NodeID]()
		rt.subscribers[source] = subs
	}
	subs.Add(observer)

	srcs, ok := rt.sources[observer]
	if !ok {
		srcs = mapset.NewThreadUnsafeSet[NodeID]()
		rt.sources[observer] = srcs
	}
	srcs.Add(source)
}

// cleanupSourcesFor drops every edge id recorded during its previous run.
func (rt *Runtime) cleanupSourcesFor(id NodeID) {
	srcs, ok := rt.sources[id]
	if !ok {
		return
	}
	for _, src := range srcs.ToSlice() {
		if subs, ok := rt.subscribers[src]; ok {
			subs.Remove(id)
			if subs.Cardinality() == 0 {
				delete(rt.subscribers, src)
			}
		}
	}
	delete(rt.sources, id)
}

func (rt *Runtime) sourceList(id NodeID) []NodeID {
	return sortedIDs(rt.sources[id])
}

func (rt *Runtime) subscriberList(id NodeID) []NodeID {
	return sortedIDs(rt.subscribers[id])
}

func (rt *Runtime) subscriberCount(id NodeID) int {
	subs, ok := rt.subscribers[id]
	if !ok {
		return 0
	}
	return subs.Cardinality()
}

// sortedIDs orders a set by creation so traversals are deterministic.
func sortedIDs(set mapset.Set[NodeID]) []NodeID {
	if set == nil {
		return nil
	}
	ids := set.ToSlice()
	sortNodeIDs(ids)
	return ids
}

func sortNodeIDs(ids []NodeID) {
	slices.Sort(ids)
}

package graph

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/multierr"
)

// Pending returns the number of queued effect entries, duplicates included.
func (rt *Runtime) Pending() int {
	return len(rt.pending)
}

// RunEffects flushes the pending queue in enqueue order. An effect queued
// several times runs at most once per pass. Effects queued by effects that
// ran in this flush are drained in further passes until the queue is empty.
//
// A failing effect does not stop the flush. Its error goes to the handler
// set with WithErrorHandler, or is returned combined with the others.
func (rt *Runtime) RunEffects() error {
	var errs error
	rt.stats.Flushes++

	for pass := 0; len(rt.pending) > 0; pass++ {
		if pass >= rt.maxFlushPasses {
			rt.log.WithField("pending", len(rt.pending)).WithField("passes", pass).Warn("effects did not settle")
			rt.pending = rt.pending[:0]
			return multierr.Append(errs, fmt.Errorf("%w after %d passes", ErrFlushLimit, pass))
		}

		queue := rt.pending
		rt.pending = nil

		seen := mapset.NewThreadUnsafeSet[NodeID]()
		for _, id := range queue {
			if !seen.Add(id) {
				continue
			}
			n, ok := rt.nodes[id]
			if !ok {
				continue
			}
			if err := rt.updateIfNecessary(id); err != nil {
				rt.log.WithError(err).WithField("node", id).WithField("tag", n.tag).Warn("effect failed")
				if rt.onError != nil {
					rt.onError(id, err)
					continue
				}
				errs = multierr.Append(errs, err)
			}
		}

		rt.log.WithField("effects", seen.Cardinality()).WithField("pass", pass).Debug("flushed effects")
	}

	return errs
}

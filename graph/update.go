package graph

import "fmt"

// updateIfNecessary brings id up to date. A CHECK node resolves its sources
// first and stops as soon as one of them proves it dirty. A dirty node is
// recomputed. Either way the node ends up clean.
func (rt *Runtime) updateIfNecessary(id NodeID) error {
	n, ok := rt.nodes[id]
	if !ok {
		return nil
	}
	if n.running {
		return nodeErr("update", id, ErrCycle)
	}

	if n.state == StateCheck {
		for _, src := range rt.sourceList(id) {
			if err := rt.updateIfNecessary(src); err != nil {
				n.mark(StateClean)
				return err
			}
			if n.state >= StateDirty {
				break
			}
		}
	}

	var err error
	if n.state >= StateDirty {
		err = rt.update(n)
	}
	n.mark(StateClean)

	return err
}

// update recomputes n and, when its value changed, marks its current
// subscribers dirty. Those are recomputed only once something demands them.
func (rt *Runtime) update(n *node) error {
	changed, err := rt.recompute(n)
	if changed {
		for _, sub := range rt.subscriberList(n.id) {
			if s, ok := rt.nodes[sub]; ok && s.state < StateDirty {
				s.mark(StateDirty)
			}
		}
	}
	return err
}

// recompute dispatches on the node kind. Signals and triggers have nothing to
// run: reaching this point means they were written or notified.
func (rt *Runtime) recompute(n *node) (bool, error) {
	switch n.kind {
	case KindTrigger, KindSignal:
		return true, nil
	case KindMemo, KindEffect:
		return rt.run(n)
	default:
		return false, fmt.Errorf("graph: unknown node kind %s", n.kind)
	}
}

// run executes a memo or effect body under tracking. The previous run's
// cleanups, owned nodes and source edges are dropped first, so the source set
// afterwards is exactly what this run read.
func (rt *Runtime) run(n *node) (changed bool, err error) {
	n.running = true
	defer func() { n.running = false }()

	rt.runCleanups(n)
	rt.disposeOwned(n, false)
	rt.cleanupSourcesFor(n.id)

	rt.stats.Recomputes++
	if n.kind == KindEffect {
		rt.stats.EffectRuns++
	}

	var next any
	err = rt.withObserver(n.id, func(sc *Scope) error {
		for _, dep := range n.deps {
			if _, err := rt.read(sc, dep, true); err != nil {
				return err
			}
		}

		var err error
		next, changed, err = n.compute(sc, n.value)
		return err
	})
	// the error includes reads that failed inside the body, whose result
	// was computed from zero values
	if err != nil {
		rt.stats.Errors++
		return false, nodeErr("compute", n.id, err)
	}
	n.value = next

	if n.kind == KindEffect {
		// effects are not read for their value, a run always counts
		changed = true
	}
	return changed, nil
}

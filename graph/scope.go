package graph

import "go.uber.org/multierr"

// Scope is the tracking context handed to a memo or effect body. Reads that
// go through it subscribe the running node to what it reads. A scope is only
// valid while its body runs.
type Scope struct {
	rt   *Runtime
	id   NodeID
	done bool
	err  error
}

// Observer is the node whose body owns this scope.
func (sc *Scope) Observer() NodeID {
	return sc.id
}

func (sc *Scope) Runtime() *Runtime {
	return sc.rt
}

// Err returns the failures recorded by Read calls so far.
func (sc *Scope) Err() error {
	return sc.err
}

// Track subscribes the running node to src without using its value. src is
// brought up to date first, like any other read.
func (sc *Scope) Track(src Source) error {
	if !sc.active() {
		return nodeErr("track", src.ID(), ErrTrackingMisuse)
	}
	_, err := sc.rt.read(sc, src.ID(), true)
	return err
}

// OnCleanup registers fn to run before the node's next execution and when the
// node is disposed.
func (sc *Scope) OnCleanup(fn func()) {
	if !sc.active() {
		return
	}
	if n, ok := sc.rt.nodes[sc.id]; ok {
		n.cleanups = append(n.cleanups, fn)
	}
}

func (sc *Scope) active() bool {
	return sc != nil && !sc.done
}

func (sc *Scope) track(id NodeID) error {
	if _, err := sc.rt.lookup("track", id); err != nil {
		return err
	}
	if _, ok := sc.rt.nodes[sc.id]; !ok {
		return nodeErr("track", sc.id, ErrInvalidReference)
	}
	if id == sc.id {
		return nil
	}
	sc.rt.subscribe(sc.id, id)
	return nil
}

func (sc *Scope) fail(err error) {
	sc.err = multierr.Append(sc.err, err)
}

func (sc *Scope) combine(err error) error {
	return multierr.Append(err, sc.err)
}

// read resolves id and, when sc is not nil, subscribes the running node to it.
// Resolution happens first so that a source's recomputation never marks the
// node that is reading it.
func (rt *Runtime) read(sc *Scope, id NodeID, tracked bool) (any, error) {
	if tracked {
		if !sc.active() {
			return nil, nodeErr("read", id, ErrTrackingMisuse)
		}
		if sc.rt != rt {
			return nil, nodeErr("read", id, ErrTrackingMisuse)
		}
	}
	if _, err := rt.lookup("read", id); err != nil {
		return nil, err
	}

	err := rt.updateIfNecessary(id)

	n, ok := rt.nodes[id]
	if !ok {
		return nil, multierr.Append(err, nodeErr("read", id, ErrInvalidReference))
	}
	if tracked {
		if terr := sc.track(id); terr != nil {
			err = multierr.Append(err, terr)
		}
	}
	if err != nil {
		return nil, err
	}
	return n.value, nil
}

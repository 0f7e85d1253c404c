package graph

import (
	"fmt"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

type node struct {
	id      NodeID
	kind    Kind
	value   any
	state   State
	compute Computation

	tag      string
	equal    func(a, b any) bool
	deps     []NodeID
	external bool

	owner    NodeID
	owned    mapset.Set[NodeID]
	cleanups []func()

	// set while compute runs, a second entry is a cycle
	running bool
}

func (n *node) mark(state State) {
	n.state = state
}

// create adds a node owned by the current owner and returns its id.
func (rt *Runtime) create(kind Kind, value any, state State, opts nodeOptions) NodeID {
	rt.lastID++
	id := rt.lastID

	n := &node{
		id:    id,
		kind:  kind,
		value: value,
		state: state,
		tag:   opts.tag,
		equal: opts.equal,
		owner: rt.owner,
	}
	for _, dep := range opts.deps {
		n.deps = append(n.deps, dep.ID())
	}
	rt.nodes[id] = n

	if kind == KindSignal {
		rt.roots.Add(id)
	}
	if parent, ok := rt.nodes[rt.owner]; ok && parent != n {
		if parent.owned == nil {
			parent.owned = mapset.NewThreadUnsafeSet[NodeID]()
		}
		parent.owned.Add(id)
	}

	return id
}

func (rt *Runtime) lookup(op string, id NodeID) (*node, error) {
	n, ok := rt.nodes[id]
	if !ok {
		return nil, nodeErr(op, id, ErrInvalidReference)
	}
	return n, nil
}

// Len returns the number of live nodes, including the root trigger.
func (rt *Runtime) Len() int {
	return len(rt.nodes)
}

// Node returns a copy of the node with its current edges.
func (rt *Runtime) Node(id NodeID) (NodeInfo, error) {
	n, err := rt.lookup("node", id)
	if err != nil {
		return NodeInfo{}, err
	}
	return rt.info(n), nil
}

func (rt *Runtime) info(n *node) NodeInfo {
	return NodeInfo{
		ID:          n.id,
		Kind:        n.kind,
		State:       n.state,
		Tag:         n.tag,
		Owner:       n.owner,
		Value:       n.value,
		Sources:     sortedIDs(rt.sources[n.id]),
		Subscribers: sortedIDs(rt.subscribers[n.id]),
	}
}

// SetValue writes a type-erased value into a signal. The new value must have
// the same dynamic type as the current one, if any. Equal writes are dropped,
// otherwise the signal's subscribers are marked.
func (rt *Runtime) SetValue(id NodeID, value any) error {
	n, err := rt.lookup("set", id)
	if err != nil {
		return err
	}
	if n.kind != KindSignal {
		return nodeErr("set", id, fmt.Errorf("%w: %s is not writable", ErrTypeMismatch, n.kind))
	}
	if n.value != nil && value != nil && reflect.TypeOf(n.value) != reflect.TypeOf(value) {
		return nodeErr("set", id, fmt.Errorf("%w: have %T, got %T", ErrTypeMismatch, n.value, value))
	}

	if n.external {
		return nodeErr("set", id, fmt.Errorf("%w: value lives in an external store", ErrTypeMismatch))
	}

	rt.write(n, value)
	return nil
}

func (rt *Runtime) equalFor(n *node) func(a, b any) bool {
	if n.equal != nil {
		return n.equal
	}
	return rt.equal
}

// Dispose removes a node, everything it owns, and all of their edges.
// Disposing an unknown or already disposed id does nothing.
func (rt *Runtime) Dispose(id NodeID) error {
	n, ok := rt.nodes[id]
	if !ok {
		return nil
	}

	rt.disposeOwned(n, true)
	rt.runCleanups(n)

	rt.cleanupSourcesFor(id)
	if subs, ok := rt.subscribers[id]; ok {
		for _, sub := range subs.ToSlice() {
			if srcs, ok := rt.sources[sub]; ok {
				srcs.Remove(id)
			}
		}
		delete(rt.subscribers, id)
	}

	if parent, ok := rt.nodes[n.owner]; ok && parent.owned != nil {
		parent.owned.Remove(id)
	}
	rt.roots.Remove(id)
	delete(rt.nodes, id)
	rt.stats.Disposals++

	rt.log.WithField("node", id).WithField("kind", n.kind).WithField("tag", n.tag).Debug("disposed node")

	return nil
}

// disposeOwned disposes the nodes n created. Signals are roots and survive a
// re-run of their owner; only an explicit disposal of the owner removes them.
func (rt *Runtime) disposeOwned(n *node, includeSignals bool) {
	if n.owned == nil || n.owned.Cardinality() == 0 {
		return
	}
	for _, child := range sortedIDs(n.owned) {
		c, ok := rt.nodes[child]
		if !ok {
			n.owned.Remove(child)
			continue
		}
		if c.kind == KindSignal && !includeSignals {
			continue
		}
		rt.Dispose(child)
	}
}

func (rt *Runtime) runCleanups(n *node) {
	cleanups := n.cleanups
	n.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}
}

// defaultEqual compares comparable dynamic types with == and falls back to a
// deep comparison for slices, maps and funcs.
func defaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

package graph

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

const defaultMaxFlushPasses = 100

type OnErrorFunc func(id NodeID, err error)

// Runtime owns one reactive graph. It is not safe for concurrent use: a
// single goroutine creates, writes, reads and flushes it. Writes coming from
// other goroutines have to be handed over to that goroutine first.
type Runtime struct {
	lastID NodeID
	nodes  map[NodeID]*node
	roots  mapset.Set[NodeID]

	sources     map[NodeID]mapset.Set[NodeID]
	subscribers map[NodeID]mapset.Set[NodeID]

	pending []NodeID

	root     NodeID
	owner    NodeID
	observer *Scope

	log            logrus.FieldLogger
	equal          func(a, b any) bool
	onError        OnErrorFunc
	maxFlushPasses int

	stats Stats
}

type RuntimeOption func(*Runtime)

func WithLogger(log logrus.FieldLogger) RuntimeOption {
	return func(rt *Runtime) {
		rt.log = log
	}
}

// WithEqual replaces the default equality used to decide whether a write or
// a recomputation changed a value. Nodes created with Equal override it.
func WithEqual(equal func(a, b any) bool) RuntimeOption {
	return func(rt *Runtime) {
		rt.equal = equal
	}
}

// WithErrorHandler routes effect failures to fn during RunEffects instead of
// returning them.
func WithErrorHandler(fn OnErrorFunc) RuntimeOption {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

// WithMaxFlushPasses bounds how many times RunEffects drains effects that
// were scheduled by other effects.
func WithMaxFlushPasses(n int) RuntimeOption {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxFlushPasses = n
		}
	}
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		nodes:          map[NodeID]*node{},
		roots:          mapset.NewThreadUnsafeSet[NodeID](),
		sources:        map[NodeID]mapset.Set[NodeID]{},
		subscribers:    map[NodeID]mapset.Set[NodeID]{},
		log:            logrus.StandardLogger(),
		equal:          defaultEqual,
		maxFlushPasses: defaultMaxFlushPasses,
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.root = rt.create(KindTrigger, nil, StateClean, nodeOptions{tag: "root"})
	rt.owner = rt.root

	return rt
}

// Root is the trigger that owns every node created outside of a computation
// or an explicit Trigger.Run.
func (rt *Runtime) Root() NodeID {
	return rt.root
}

// Owner returns the node that currently owns newly created nodes.
func (rt *Runtime) Owner() NodeID {
	return rt.owner
}

func (rt *Runtime) isObserver(id NodeID) bool {
	return rt.observer != nil && rt.observer.id == id
}

// withOwner runs fn with id installed as owner, restoring the previous owner
// even if fn panics.
func (rt *Runtime) withOwner(id NodeID, fn func() error) error {
	prev := rt.owner
	rt.owner = id
	defer func() { rt.owner = prev }()

	return fn()
}

// withObserver runs fn under a fresh tracking scope for id. The previous
// observer and owner are restored and the scope is closed on every exit path.
func (rt *Runtime) withObserver(id NodeID, fn func(sc *Scope) error) error {
	sc := &Scope{rt: rt, id: id}

	prevObserver, prevOwner := rt.observer, rt.owner
	rt.observer, rt.owner = sc, id
	defer func() {
		sc.done = true
		rt.observer, rt.owner = prevObserver, prevOwner
	}()

	return sc.combine(fn(sc))
}

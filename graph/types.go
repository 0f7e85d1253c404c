package graph

import "fmt"

// NodeID identifies a node within one Runtime. Ids are assigned in increasing
// order and never reused after disposal. The zero value is never a valid id.
type NodeID uint64

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

type Kind uint8

const (
	KindTrigger Kind = iota // no value, marked dirty and fans out
	KindSignal              // externally written root cell
	KindMemo                // cached derivation, recomputed on demand
	KindEffect              // side effecting derivation, scheduled on flush
)

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// State is ordered: the mark phase only ever raises a node's state.
type State uint8

const (
	StateClean       State = iota // value is valid
	StateCheck                    // an ancestor might have changed, resolve sources to find out
	StateDirty                    // value is known stale
	StateDirtyMarked              // dirty and already accounted for in the current mark pass
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateCheck:
		return "check"
	case StateDirty:
		return "dirty"
	case StateDirtyMarked:
		return "dirty_marked"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Computation is the type-erased body of a memo or effect. It receives the
// node's previous value and returns the next one and whether it changed.
type Computation func(sc *Scope, prev any) (next any, changed bool, err error)

// Source is anything a computation can depend on.
type Source interface {
	ID() NodeID
}

// NodeInfo is a read-only copy of a node and its edges.
type NodeInfo struct {
	ID          NodeID
	Kind        Kind
	State       State
	Tag         string
	Owner       NodeID
	Value       any
	Sources     []NodeID
	Subscribers []NodeID
}

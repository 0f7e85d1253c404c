package graph

// Option configures a node at creation.
type Option func(*nodeOptions)

type nodeOptions struct {
	tag   string
	equal func(a, b any) bool
	deps  []Source
}

// WithTag names a node for logs, snapshots and metrics. Untagged nodes are
// shown by id.
func WithTag(tag string) Option {
	return func(o *nodeOptions) {
		o.tag = tag
	}
}

// Equal sets the equality used to decide whether a write or recomputation
// changed the node's value.
func Equal[T any](fn func(a, b T) bool) Option {
	return func(o *nodeOptions) {
		o.equal = func(a, b any) bool {
			ta, okA := a.(T)
			tb, okB := b.(T)
			if !okA || !okB {
				return defaultEqual(a, b)
			}
			return fn(ta, tb)
		}
	}
}

// DependsOn subscribes an effect or memo to srcs on every run, in addition to
// whatever its body reads.
func DependsOn(srcs ...Source) Option {
	return func(o *nodeOptions) {
		o.deps = append(o.deps, srcs...)
	}
}

func applyOptions(opts []Option) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

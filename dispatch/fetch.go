package dispatch

import (
	"context"

	"github.com/delaneyj/signalgraph/graph"
)

// Result is the state of a value loaded off the runtime's goroutine. Until
// the load finishes Loaded is false.
type Result[T any] struct {
	Value  T
	Err    error
	Loaded bool
}

// Fetch creates a signal holding an unloaded Result and runs fn on its own
// goroutine. The outcome is posted to q and written into the signal when the
// queue is drained. Call Fetch on the goroutine that owns rt.
//
// If ctx is done before the result is applied, or the signal was disposed in
// the meantime, the result is dropped.
func Fetch[T any](ctx context.Context, rt *graph.Runtime, q *Queue, fn func(context.Context) (T, error), opts ...graph.Option) *graph.Signal[Result[T]] {
	sig := graph.CreateSignal(rt, Result[T]{}, opts...)

	go func() {
		v, err := fn(ctx)
		q.Post(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := sig.Set(Result[T]{Value: v, Err: err, Loaded: true}); err != nil && !graph.IsInvalidReference(err) {
				return err
			}
			return nil
		})
	}()

	return sig
}

package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/signalgraph/graph"
)

func TestQueue(t *testing.T) {
	t.Run("drains in order", func(t *testing.T) {
		q := NewQueue()
		var got []int
		for i := 0; i < 3; i++ {
			q.Post(func() error {
				got = append(got, i)
				return nil
			})
		}
		assert.Equal(t, 3, q.Len())
		require.NoError(t, q.Drain())
		assert.Equal(t, []int{0, 1, 2}, got)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("combines errors", func(t *testing.T) {
		q := NewQueue()
		errA, errB := errors.New("a"), errors.New("b")
		ran := false
		q.Post(func() error { return errA })
		q.Post(func() error { ran = true; return nil })
		q.Post(func() error { return errB })

		err := q.Drain()
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.True(t, ran)
	})

	t.Run("posts from many goroutines", func(t *testing.T) {
		q := NewQueue()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				q.Post(func() error { return nil })
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, q.Len())

		select {
		case <-q.Ready():
		default:
			t.Fatal("expected a wake up")
		}
	})

	t.Run("post while draining waits", func(t *testing.T) {
		q := NewQueue()
		q.Post(func() error {
			q.Post(func() error { return nil })
			return nil
		})
		require.NoError(t, q.Drain())
		assert.Equal(t, 1, q.Len())
	})
}

func TestLoop(t *testing.T) {
	t.Run("tick applies writes then flushes", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		count := graph.CreateSignal(rt, 0)
		var seen []int
		graph.CreateEffect(rt, func(sc *graph.Scope) error {
			seen = append(seen, count.Read(sc))
			return nil
		})
		loop := &Loop{Runtime: rt, Queue: q}
		require.NoError(t, loop.Tick())

		q.Post(func() error { return count.Set(1) })
		q.Post(func() error { return count.Set(2) })
		require.NoError(t, loop.Tick())

		assert.Equal(t, []int{0, 2}, seen)
	})

	t.Run("run until cancelled", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		count := graph.CreateSignal(rt, 0)
		seen := make(chan int, 10)
		graph.CreateEffect(rt, func(sc *graph.Scope) error {
			seen <- count.Read(sc)
			return nil
		})

		logger, hook := test.NewNullLogger()
		errBoom := errors.New("boom")
		ctx, cancel := context.WithCancel(context.Background())
		loop := &Loop{Runtime: rt, Queue: q, Interval: time.Hour, Logger: logger}
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		q.Post(func() error { return nil })
		assert.Equal(t, 0, <-seen)

		q.Post(func() error { return count.Set(5) })
		assert.Equal(t, 5, <-seen)

		q.Post(func() error { return errBoom })
		require.Eventually(t, func() bool {
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel && e.Message == "tick failed" {
					return true
				}
			}
			return false
		}, time.Second, 5*time.Millisecond)

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestFetch(t *testing.T) {
	t.Run("value arrives through the queue", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		release := make(chan struct{})
		res := Fetch(context.Background(), rt, q, func(ctx context.Context) (string, error) {
			<-release
			return "loaded", nil
		}, graph.WithTag("user"))

		var seen []Result[string]
		graph.CreateEffect(rt, func(sc *graph.Scope) error {
			seen = append(seen, res.Read(sc))
			return nil
		})
		loop := &Loop{Runtime: rt, Queue: q}
		require.NoError(t, loop.Tick())

		close(release)
		<-q.Ready()
		require.NoError(t, loop.Tick())

		require.Len(t, seen, 2)
		assert.False(t, seen[0].Loaded)
		assert.Equal(t, Result[string]{Value: "loaded", Loaded: true}, seen[1])
		assert.Equal(t, "user", res.Tag())
	})

	t.Run("error is part of the result", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		errMissing := errors.New("missing")
		res := Fetch(context.Background(), rt, q, func(ctx context.Context) (int, error) {
			return 0, errMissing
		})

		<-q.Ready()
		require.NoError(t, q.Drain())
		got, err := res.Peek()
		require.NoError(t, err)
		assert.True(t, got.Loaded)
		assert.ErrorIs(t, got.Err, errMissing)
	})

	t.Run("dropped after cancel", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		res := Fetch(ctx, rt, q, func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		cancel()
		close(release)

		<-q.Ready()
		require.NoError(t, q.Drain())
		got, err := res.Peek()
		require.NoError(t, err)
		assert.False(t, got.Loaded)
	})

	t.Run("dropped after dispose", func(t *testing.T) {
		rt := graph.NewRuntime()
		q := NewQueue()
		release := make(chan struct{})
		res := Fetch(context.Background(), rt, q, func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		require.NoError(t, res.Dispose())
		close(release)

		<-q.Ready()
		assert.NoError(t, q.Drain())
	})
}

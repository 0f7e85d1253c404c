package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type peeker[T any] interface {
	Peek() (T, error)
}

func peek[T any](t *testing.T, p peeker[T]) T {
	t.Helper()
	v, err := p.Peek()
	require.NoError(t, err)
	return v
}

func TestCore(t *testing.T) {
	/*
	   a  b
	   | /
	   c
	*/
	t.Run("two signals", func(t *testing.T) {
		rt := NewRuntime()

		a := CreateSignal(rt, 7)
		b := CreateSignal(rt, 1)
		callCount := 0

		c := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount++
			return a.Read(sc) * b.Read(sc), nil
		})

		assert.Equal(t, 7, peek[int](t, c))

		require.NoError(t, a.Set(2))
		assert.Equal(t, 2, peek[int](t, c))

		require.NoError(t, b.Set(3))
		assert.Equal(t, 6, peek[int](t, c))

		assert.Equal(t, 3, callCount)
		peek[int](t, c)
		assert.Equal(t, 3, callCount)
	})

	/*
	   a  b
	   | /
	   c
	   |
	   d
	*/
	t.Run("dependent computed", func(t *testing.T) {
		rt := NewRuntime()
		a := CreateSignal(rt, 7)
		b := CreateSignal(rt, 1)

		callCount1 := 0
		c := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount1++
			return a.Read(sc) * b.Read(sc), nil
		})

		callCount2 := 0
		d := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount2++
			return c.Read(sc) + 1, nil
		})

		assert.Equal(t, 8, peek[int](t, d))
		assert.Equal(t, 1, callCount1)
		assert.Equal(t, 1, callCount2)
		require.NoError(t, a.Set(3))
		assert.Equal(t, 4, peek[int](t, d))
		assert.Equal(t, 2, callCount1)
		assert.Equal(t, 2, callCount2)
	})

	/*
	   a
	   |
	   c
	*/
	t.Run("equality check", func(t *testing.T) {
		callCount := 0
		rt := NewRuntime()
		a := CreateSignal(rt, 7)
		c := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount++
			return a.Read(sc) + 10, nil
		})

		peek[int](t, c)
		peek[int](t, c)
		assert.Equal(t, 1, callCount)
		require.NoError(t, a.Set(7))
		peek[int](t, c)
		assert.Equal(t, 1, callCount)
	})

	/*
	   a     b
	   |     |
	   cA   cB
	   |   / (dynamically depends on cB)
	   cAB
	*/
	t.Run("dynamic computed", func(t *testing.T) {
		rt := NewRuntime()
		a := CreateSignal(rt, 1)
		b := CreateSignal(rt, 2)
		var callCountA, callCountB, callCountAB int

		cA := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCountA++
			return a.Read(sc), nil
		})

		cB := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCountB++
			return b.Read(sc), nil
		})

		cAB := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCountAB++
			if av := cA.Read(sc); av != 0 {
				return av, nil
			}
			return cB.Read(sc), nil
		})

		assert.Equal(t, 1, peek[int](t, cAB))
		require.NoError(t, a.Set(2))
		require.NoError(t, b.Set(3))
		assert.Equal(t, 2, peek[int](t, cAB))

		assert.Equal(t, 2, callCountA)
		assert.Equal(t, 2, callCountAB)
		assert.Equal(t, 0, callCountB)
		require.NoError(t, a.Set(0))
		assert.Equal(t, 3, peek[int](t, cAB))
		assert.Equal(t, 3, callCountA)
		assert.Equal(t, 3, callCountAB)
		assert.Equal(t, 1, callCountB)
		require.NoError(t, b.Set(4))
		assert.Equal(t, 4, peek[int](t, cAB))
		assert.Equal(t, 3, callCountA)
		assert.Equal(t, 4, callCountAB)
		assert.Equal(t, 2, callCountB)
	})

	/*
	   a
	   |
	   b (=)
	   |
	   c
	*/
	t.Run("boolean equality check", func(t *testing.T) {
		rt := NewRuntime()
		a := CreateSignal(rt, 0)
		b := CreateMemo(rt, func(sc *Scope, _ bool) (bool, error) {
			return a.Read(sc) > 0, nil
		})
		callCount := 0

		c := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount++
			if b.Read(sc) {
				return 1, nil
			}
			return 0, nil
		})

		assert.Equal(t, 0, peek[int](t, c))
		assert.Equal(t, 1, callCount)

		require.NoError(t, a.Set(1))
		assert.Equal(t, 1, peek[int](t, c))
		assert.Equal(t, 2, callCount)

		require.NoError(t, a.Set(2))
		assert.Equal(t, 1, peek[int](t, c))
		assert.Equal(t, 2, callCount) // b did not change, c must not run
	})

	/*
	   s
	   |
	   a
	   | \
	   b  c
	    \ |
	      d
	*/
	t.Run("diamond computeds", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 1)
		a := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return s.Read(sc), nil
		})
		b := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return a.Read(sc) * 2, nil
		})
		c := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return a.Read(sc) * 3, nil
		})
		callCount := 0
		d := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			callCount++
			return b.Read(sc) + c.Read(sc), nil
		})

		assert.Equal(t, 5, peek[int](t, d))
		assert.Equal(t, 1, callCount)
		require.NoError(t, s.Set(2))
		assert.Equal(t, 10, peek[int](t, d))
		assert.Equal(t, 2, callCount)
		require.NoError(t, s.Set(3))
		assert.Equal(t, 15, peek[int](t, d))
		assert.Equal(t, 3, callCount)
	})

	/*
	   s
	   |
	   l  a (sets s)
	*/
	t.Run("set inside reaction", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 1)
		a := CreateMemo(rt, func(sc *Scope, _ bool) (bool, error) {
			return true, s.Set(2)
		})
		l := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return s.Read(sc) + 100, nil
		})

		peek[bool](t, a)
		assert.Equal(t, 102, peek[int](t, l))
	})

	t.Run("memo receives previous value", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 1)
		var prevs []int
		total := CreateMemo(rt, func(sc *Scope, prev int) (int, error) {
			prevs = append(prevs, prev)
			return prev + s.Read(sc), nil
		})

		assert.Equal(t, 1, peek[int](t, total))
		require.NoError(t, s.Set(5))
		assert.Equal(t, 6, peek[int](t, total))
		assert.Equal(t, []int{0, 1}, prevs)
	})

	t.Run("custom equality", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 10, Equal(func(a, b int) bool { return a/10 == b/10 }))
		runs := 0
		m := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			runs++
			return s.Read(sc), nil
		})

		peek[int](t, m)
		require.NoError(t, s.Set(15))
		assert.Equal(t, 10, peek[int](t, m))
		assert.Equal(t, 1, runs)

		require.NoError(t, s.Set(25))
		assert.Equal(t, 25, peek[int](t, m))
		assert.Equal(t, 2, runs)
	})

	t.Run("slices compare deeply", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, []string{"a", "b"})
		runs := 0
		m := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			runs++
			return len(s.Read(sc)), nil
		})

		peek[int](t, m)
		require.NoError(t, s.Set([]string{"a", "b"}))
		assert.Equal(t, 0, rt.Pending())
		peek[int](t, m)
		assert.Equal(t, 1, runs)
	})
}

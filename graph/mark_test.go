package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateOf(t *testing.T, rt *Runtime, id NodeID) State {
	t.Helper()
	info, err := rt.Node(id)
	require.NoError(t, err)
	return info.State
}

func TestMark(t *testing.T) {
	/*
	   s
	   |
	   m1
	   |
	   m2
	   |
	   e
	*/
	t.Run("chain", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 0)
		m1 := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return s.Read(sc) + 1, nil
		})
		m2 := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return m1.Read(sc) + 1, nil
		})
		e := CreateEffect(rt, func(sc *Scope) error {
			m2.Read(sc)
			return nil
		})
		require.NoError(t, rt.RunEffects())

		require.NoError(t, s.Set(1))

		assert.Equal(t, StateDirtyMarked, stateOf(t, rt, s.ID()))
		assert.Equal(t, StateCheck, stateOf(t, rt, m1.ID()))
		assert.Equal(t, StateCheck, stateOf(t, rt, m2.ID()))
		assert.Equal(t, StateCheck, stateOf(t, rt, e.ID()))
		assert.Equal(t, 1, rt.Pending())

		require.NoError(t, rt.RunEffects())
		for _, id := range []NodeID{s.ID(), m1.ID(), m2.ID(), e.ID()} {
			assert.Equal(t, StateClean, stateOf(t, rt, id), id.String())
		}
	})

	/*
	     s
	    / \
	   a   b
	    \ /
	     d
	*/
	t.Run("shared descendant is visited once", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 1)
		a := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return s.Read(sc) + 1, nil
		})
		b := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			return s.Read(sc) + 2, nil
		})
		runs := 0
		CreateEffect(rt, func(sc *Scope) error {
			runs++
			a.Read(sc)
			b.Read(sc)
			return nil
		})
		require.NoError(t, rt.RunEffects())

		before := rt.Stats().Marks
		require.NoError(t, s.Set(2))
		assert.Equal(t, uint64(4), rt.Stats().Marks-before)
		assert.Equal(t, 1, rt.Pending())

		before = rt.Stats().Marks
		require.NoError(t, s.Set(3))
		assert.Equal(t, uint64(1), rt.Stats().Marks-before, "second write stops at the marked root")
		assert.Equal(t, 1, rt.Pending())

		require.NoError(t, rt.RunEffects())
		assert.Equal(t, 2, runs)
		assert.Equal(t, 4, peek[int](t, a))
		assert.Equal(t, 5, peek[int](t, b))
	})

	/*
	   s
	   |  \   \
	   m1  m2  m3
	*/
	t.Run("fan out", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 0)
		var memos []*Memo[int]
		for i := 0; i < 3; i++ {
			m := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
				return s.Read(sc) + i, nil
			})
			peek[int](t, m)
			memos = append(memos, m)
		}

		require.NoError(t, s.Set(10))
		for _, m := range memos {
			assert.Equal(t, StateCheck, stateOf(t, rt, m.ID()))
		}
		assert.Equal(t, 0, rt.Pending())
		for i, m := range memos {
			assert.Equal(t, 10+i, peek[int](t, m))
		}
	})

	t.Run("long chain", func(t *testing.T) {
		rt := NewRuntime()
		s := CreateSignal(rt, 0)
		var prev interface {
			Source
			Read(*Scope) int
		} = s
		var last *Memo[int]
		for i := 0; i < 10_000; i++ {
			p := prev
			last = CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
				return p.Read(sc) + 1, nil
			})
			prev = last
		}
		assert.Equal(t, 10_000, peek[int](t, last))

		require.NoError(t, s.Set(1))
		assert.Equal(t, StateCheck, stateOf(t, rt, last.ID()))
		assert.Equal(t, 10_001, peek[int](t, last))
	})

	t.Run("mark an unknown node", func(t *testing.T) {
		rt := NewRuntime()
		err := rt.MarkDirty(NodeID(42))
		assert.True(t, IsInvalidReference(err))
	})

	t.Run("mark a memo directly", func(t *testing.T) {
		rt := NewRuntime()
		runs := 0
		m := CreateMemo(rt, func(sc *Scope, _ int) (int, error) {
			runs++
			return runs, nil
		})
		assert.Equal(t, 1, peek[int](t, m))

		require.NoError(t, rt.MarkDirty(m.ID()))
		assert.Equal(t, 2, peek[int](t, m))
	})
}

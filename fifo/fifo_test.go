package fifo_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/laenzlinger/go-midi2/fifo"
)

func TestEmptyFullBasics(t *testing.T) {
	f := fifo.New[int](4)
	require.True(t, f.Empty())
	require.False(t, f.Full())
	require.Equal(t, 0, f.Size())
	require.Equal(t, 4, f.MaxSize())

	require.True(t, f.PushBack(1))
	require.True(t, f.PushBack(2))
	require.True(t, f.PushBack(3))
	require.True(t, f.PushBack(4))
	require.True(t, f.Full())
	require.False(t, f.PushBack(5))
	require.Equal(t, 4, f.Size())

	require.Equal(t, 1, f.PopFront())
	require.False(t, f.Full())
	require.True(t, f.PushBack(5))
	require.Equal(t, 2, f.PopFront())
	require.Equal(t, 3, f.PopFront())
	require.Equal(t, 4, f.PopFront())
	require.Equal(t, 5, f.PopFront())
	require.True(t, f.Empty())
}

func TestPopFromEmptyPanics(t *testing.T) {
	f := fifo.New[int](2)
	require.Panics(t, func() { f.PopFront() })
}

func TestNewRejectsBadCapacity(t *testing.T) {
	require.Panics(t, func() { fifo.New[int](0) })
	require.Panics(t, func() { fifo.New[int](1) })
	require.Panics(t, func() { fifo.New[int](3) })
}

// TestFIFOOrderProperty checks property 6 from spec.md §8: push_back
// when full leaves size unchanged and returns false; pop_front returns
// elements in FIFO order.
func TestFIFOOrderProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := 1 << rapid.IntRange(1, 6).Draw(rt, "log2cap")
		f := fifo.New[int](capacity)
		var model []int

		ops := rapid.SliceOfN(rapid.IntRange(0, 1), 0, 200).Draw(rt, "ops")
		next := 0
		for _, op := range ops {
			if op == 0 {
				v := next
				next++
				ok := f.PushBack(v)
				wasFull := len(model) == capacity
				require.Equal(t, !wasFull, ok)
				if ok {
					model = append(model, v)
				}
				require.Equal(t, len(model), f.Size())
			} else if len(model) > 0 {
				v := f.PopFront()
				require.Equal(t, model[0], v)
				model = model[1:]
			}
		}
	})
}

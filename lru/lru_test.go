package lru_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laenzlinger/go-midi2/lru"
)

func TestAddFillsBeforeEvicting(t *testing.T) {
	var evicted []int
	l := lru.New[int](3)
	n1 := l.Add(1, func(v int) { evicted = append(evicted, v) })
	l.Add(2, func(v int) { evicted = append(evicted, v) })
	l.Add(3, func(v int) { evicted = append(evicted, v) })
	require.Equal(t, 3, l.Len())
	require.Empty(t, evicted)
	require.Equal(t, 1, *n1.Value())
}

func TestAddEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []int
	evict := func(v int) { evicted = append(evicted, v) }
	l := lru.New[int](2)
	n1 := l.Add(1, evict)
	l.Add(2, evict)
	// Touch n1 so that 2 becomes the least recently used.
	l.Touch(n1)
	l.Add(3, evict)
	require.Equal(t, []int{2}, evicted)
	require.Equal(t, 2, l.Len())
}

func TestTouchMovesToFront(t *testing.T) {
	var evicted []int
	evict := func(v int) { evicted = append(evicted, v) }
	l := lru.New[int](2)
	n1 := l.Add(1, evict)
	n2 := l.Add(2, evict)
	l.Touch(n1)
	// Now 2 is LRU; adding a third should evict it, not 1.
	l.Add(3, evict)
	require.Equal(t, []int{2}, evicted)
	require.NotNil(t, n2)
}

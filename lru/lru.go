// Package lru implements a fixed-capacity doubly-linked list that
// recycles its tail node when full, invoking a caller-supplied eviction
// callback on the payload being displaced.
//
// Unlike plru (the tree-PLRU cache used by protocol.ToMIDI1), this list
// has true LRU ordering: Touch always moves a node to the front, and
// Add always evicts the exact least-recently-used entry once full.
package lru

// Node is an element of a List. Its payload is accessed with Value.
type Node[T any] struct {
	value T
	prev  *Node[T]
	next  *Node[T]
	used  bool
}

// Value returns the payload stored in n.
func (n *Node[T]) Value() *T { return &n.value }

// List is a fixed-capacity doubly linked list of Size nodes, backed by
// an array so that no allocation occurs after construction.
type List[T any] struct {
	nodes []Node[T]
	first *Node[T]
	last  *Node[T]
	size  int
}

// New constructs a List able to hold up to size elements. size must be
// greater than 1.
func New[T any](size int) *List[T] {
	if size <= 1 {
		panic("lru: size must be > 1")
	}
	return &List[T]{nodes: make([]Node[T], size)}
}

// Len returns the number of elements currently held.
func (l *List[T]) Len() int { return l.size }

// Touch moves n to the front of the list, marking it most recently
// used.
func (l *List[T]) Touch(n *Node[T]) {
	if l.first == n {
		return
	}
	if l.last == n {
		l.last = n.prev
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	n.prev = nil
	n.next = l.first
	if l.first != nil {
		l.first.prev = n
	}
	l.first = n
	if l.last == nil {
		l.last = n
	}
}

// Add inserts payload at the front of the list as the most recently
// used element. If the list is already at capacity, the current
// least-recently-used node is recycled: evict is called with its old
// payload before it is overwritten. Add returns the node holding
// payload.
func (l *List[T]) Add(payload T, evict func(T)) *Node[T] {
	var result *Node[T]
	if l.size < len(l.nodes) {
		result = &l.nodes[l.size]
		result.value = payload
		result.used = true
		l.size++
		if l.last == nil {
			l.last = result
		}
	} else {
		evict(l.last.value)
		l.last.value = payload
		result = l.last
		l.last = l.last.prev
		if l.last != nil {
			l.last.next = nil
		}
	}

	result.prev = nil
	result.next = l.first
	if l.first != nil {
		l.first.prev = result
	}
	l.first = result
	l.checkInvariants()
	return result
}

// checkInvariants walks the chain from first to validate the pointer
// structure; it is a no-op unless built with the lru_debug build tag,
// matching the original's debug-only check_invariants routine.
func (l *List[T]) checkInvariants() {
	checkInvariantsDebug(l)
}

// Package plru implements a tree pseudo-LRU (PLRU) unordered associative
// cache. It is intended for values that are cheap to store but expensive
// to (re)create: protocol.ToMIDI1 uses it to cache the MIDI 2.0 RPN/NRPN
// parameter state folded down for each source channel.
//
// The cache holds Sets*Ways entries. A key is split into a set index
// (its low log2(Sets) bits) and a tag (the remaining bits); within a set,
// up to Ways distinct tags can be held concurrently, with the tree-PLRU
// scheme approximating which of the Ways members was least recently
// touched.
package plru

import "fmt"

// Unsigned lists the key types a Cache may be keyed by.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// tree holds the Ways-1 direction bits of a binary access tree used to
// approximate which of Ways members was least recently used.
type tree struct {
	bits []bool
}

func newTree(ways int) *tree {
	return &tree{bits: make([]bool, ways-1)}
}

// touch flips the tree's direction bits to record way as most recently
// used.
func (t *tree) touch(way int) {
	ways := len(t.bits) + 1
	node, start, end := 0, 0, ways
	for node < ways-1 {
		mid := start + (end-start)/2
		isLess := way < mid
		if isLess {
			end = mid
		} else {
			start = mid
		}
		t.bits[node] = isLess
		next := 2*node + 1
		if !isLess {
			next++
		}
		node = next
	}
}

// oldest walks the tree to the index of the probable least-recently-used
// member.
func (t *tree) oldest() int {
	ways := len(t.bits) + 1
	node := 0
	for node < ways-1 {
		bit := t.bits[node]
		next := 2*node + 1
		if bit {
			next++
		}
		node = next
	}
	return node - (ways - 1)
}

// cacheSet holds Ways entries that all share the same set index.
type cacheSet[K Unsigned, T any] struct {
	tags   []uint64
	valid  []bool
	values []T
	plru   *tree
}

func newCacheSet[K Unsigned, T any](ways int) *cacheSet[K, T] {
	return &cacheSet[K, T]{
		tags:   make([]uint64, ways),
		valid:  make([]bool, ways),
		values: make([]T, ways),
		plru:   newTree(ways),
	}
}

func (s *cacheSet[K, T]) access(tag uint64, miss func() T) *T {
	for i := range s.tags {
		if s.valid[i] && s.tags[i] == tag {
			s.plru.touch(i)
			return &s.values[i]
		}
	}

	victim := s.plru.oldest()
	s.values[victim] = miss()
	s.tags[victim] = tag
	s.valid[victim] = true
	s.plru.touch(victim)
	return &s.values[victim]
}

func (s *cacheSet[K, T]) size() int {
	n := 0
	for _, v := range s.valid {
		if v {
			n++
		}
	}
	return n
}

// Cache is a Sets*Ways tree-PLRU associative cache keyed by an unsigned
// integer. Sets and Ways must each be powers of two.
type Cache[K Unsigned, T any] struct {
	sets    []*cacheSet[K, T]
	setBits uint
	setMask uint64
	ways    int
}

// New constructs a Cache with the given number of sets and ways, each of
// which must be a power of two, with ways >= 2.
func New[K Unsigned, T any](sets, ways int) *Cache[K, T] {
	if sets <= 0 || sets&(sets-1) != 0 {
		panic(fmt.Sprintf("plru: sets %d is not a power of two", sets))
	}
	if ways < 2 || ways&(ways-1) != 0 {
		panic(fmt.Sprintf("plru: ways %d is not a power of two >= 2", ways))
	}
	c := &Cache[K, T]{
		sets:    make([]*cacheSet[K, T], sets),
		setBits: bitWidth(uint64(sets - 1)),
		setMask: uint64(sets - 1),
		ways:    ways,
	}
	for i := range c.sets {
		c.sets[i] = newCacheSet[K, T](ways)
	}
	return c
}

// bitWidth returns the number of bits needed to represent v (0 for v==0),
// matching std::bit_width.
func bitWidth(v uint64) uint {
	n := uint(0)
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}

// Access searches the cache for key. If present, it returns a pointer to
// the cached value after marking it most recently used. If absent, miss
// is invoked to create the value, which is then stored — evicting the
// probable least-recently-used member of key's set if that set is full —
// and a pointer to the newly stored value is returned.
func (c *Cache[K, T]) Access(key K, miss func() T) *T {
	set := uint64(key) & c.setMask
	tag := uint64(key) >> c.setBits
	return c.sets[set].access(tag, miss)
}

// MaxSize returns the maximum number of elements the cache can hold.
func (c *Cache[K, T]) MaxSize() int { return len(c.sets) * c.ways }

// Size returns the number of elements currently held.
func (c *Cache[K, T]) Size() int {
	n := 0
	for _, s := range c.sets {
		n += s.size()
	}
	return n
}

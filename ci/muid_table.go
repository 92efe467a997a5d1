package ci

import (
	"github.com/laenzlinger/go-midi2/iumap"
	"github.com/laenzlinger/go-midi2/lru"
)

// entry is the payload held per remote MUID: the device ID it was last
// seen on and the UMP group its Discovery Reply arrived on, needed to
// address further messages back to that device.
type entry struct {
	muid     uint32
	deviceID byte
	group    uint8
}

func hashMUID(muid uint32) uint64 { return uint64(muid) * 2654435761 }

// MuidTable tracks the MUIDs of recently-discovered remote devices,
// evicting the least-recently-used entry once full — the same
// replacement policy a real CI initiator needs when the number of
// devices on a MIDI network outgrows what it wants to track. Eviction
// order comes from lru.List; the MUID-to-node lookup itself is an
// iumap.Map rather than a built-in map, in keeping with the fixed,
// no-further-allocation style the rest of this module's data
// structures follow.
type MuidTable struct {
	list  *lru.List[entry]
	index *iumap.Map[uint32, *lru.Node[entry]]
}

// NewMuidTable constructs a table holding up to capacity MUIDs. The
// backing index is sized to the next power of two at least twice
// capacity, keeping the open-addressed table comfortably below full
// so probes stay short.
func NewMuidTable(capacity int) *MuidTable {
	indexCap := 4
	for indexCap < capacity*2 {
		indexCap *= 2
	}
	return &MuidTable{
		list:  lru.New[entry](capacity),
		index: iumap.New[uint32, *lru.Node[entry]](indexCap, hashMUID),
	}
}

// Remember records that muid was last seen on group, addressed via
// deviceID, touching it to the front of the table if already present.
func (t *MuidTable) Remember(muid uint32, group uint8, deviceID byte) {
	if n, ok := t.index.Find(muid); ok {
		n.Value().group = group
		n.Value().deviceID = deviceID
		t.list.Touch(n)
		return
	}
	n := t.list.Add(entry{muid: muid, deviceID: deviceID, group: group}, func(evicted entry) {
		t.index.Erase(evicted.muid)
	})
	t.index.InsertOrAssign(muid, n)
}

// Lookup returns the group and device ID last recorded for muid.
func (t *MuidTable) Lookup(muid uint32) (group uint8, deviceID byte, ok bool) {
	n, found := t.index.Find(muid)
	if !found {
		return 0, 0, false
	}
	t.list.Touch(n)
	v := n.Value()
	return v.group, v.deviceID, true
}

// Forget removes muid from the index immediately, independent of LRU
// order — the response to an InvalidateMUID message. The list node
// itself is reclaimed later through ordinary LRU eviction; Forget only
// needs to make muid unreachable, since a CI message referencing an
// invalidated MUID should behave as if it were never discovered.
func (t *MuidTable) Forget(muid uint32) {
	t.index.Erase(muid)
}

// Len returns the number of list nodes in use. It includes entries
// removed by Forget that have not yet been evicted.
func (t *MuidTable) Len() int { return t.list.Len() }

// Package objmap implements the collector's metadata map: address to block
// record lookup (see api.MetadataMap).
package objmap

import (
	"github.com/cespare/xxhash/v2"

	"github.com/congc/congc/api"
)

const (
	initialBuckets = 16
	maxLoadFactor  = 0.75
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot struct {
	key   uintptr
	value interface{}
	state slotState
}

// Map is an open-addressed hash table keyed by uintptr, hashed with xxhash.
// It tolerates deletion of the entry most recently yielded by its iterator.
type Map struct {
	slots []slot
	count int
	alive int
}

// New returns an empty Map.
func New() *Map {
	return &Map{slots: make([]slot, initialBuckets)}
}

func hashKey(key uintptr) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(key >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// Insert associates key with value, replacing any prior association.
func (m *Map) Insert(key uintptr, value interface{}) {
	if m.alive+1 > int(float64(len(m.slots))*maxLoadFactor) {
		m.grow()
	}
	idx, found := m.find(key)
	if found {
		m.slots[idx].value = value
		return
	}
	if m.slots[idx].state != slotOccupied {
		if m.slots[idx].state == slotEmpty {
			m.alive++
		}
		m.count++
	}
	m.slots[idx] = slot{key: key, value: value, state: slotOccupied}
}

// Lookup returns the value associated with key, or (nil, false).
func (m *Map) Lookup(key uintptr) (interface{}, bool) {
	idx, found := m.find(key)
	if !found {
		return nil, false
	}
	return m.slots[idx].value, true
}

// Delete removes key's association, if any.
func (m *Map) Delete(key uintptr) {
	idx, found := m.find(key)
	if !found {
		return
	}
	m.slots[idx].state = slotTombstone
	m.slots[idx].value = nil
	m.count--
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return m.count
}

func (m *Map) find(key uintptr) (idx int, found bool) {
	mask := len(m.slots) - 1
	i := int(hashKey(key)) & mask
	firstTombstone := -1
	for probes := 0; probes < len(m.slots); probes++ {
		sl := &m.slots[i]
		switch sl.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return i, false
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = i
			}
		case slotOccupied:
			if sl.key == key {
				return i, true
			}
		}
		i = (i + 1) & mask
	}
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return i, false
}

func (m *Map) grow() {
	old := m.slots
	m.slots = make([]slot, len(old)*2)
	m.count = 0
	m.alive = 0
	for _, sl := range old {
		if sl.state == slotOccupied {
			idx, _ := m.find(sl.key)
			m.slots[idx] = slot{key: sl.key, value: sl.value, state: slotOccupied}
			m.count++
			m.alive++
		}
	}
}

// Iterator yields every (key, value) pair exactly once, in bucket order. It
// tolerates the deletion of the entry it most recently yielded, on the same
// grounds as objset.Iterator.
type Iterator struct {
	m   *Map
	pos int
}

// Iterate returns a new Iterator over m.
func (m *Map) Iterate() api.MetadataIterator {
	return &Iterator{m: m}
}

// HasNext reports whether a call to Next would yield a pair.
func (it *Iterator) HasNext() bool {
	for i := it.pos; i < len(it.m.slots); i++ {
		if it.m.slots[i].state == slotOccupied {
			it.pos = i
			return true
		}
	}
	it.pos = len(it.m.slots)
	return false
}

// Next returns the next (key, value) pair. Panics if HasNext is false.
func (it *Iterator) Next() (uintptr, interface{}) {
	if !it.HasNext() {
		panic("objmap: Next called with no remaining entries")
	}
	sl := it.m.slots[it.pos]
	it.pos++
	return sl.key, sl.value
}

// Close releases the iterator. No-op: Iterator holds no external resources.
func (it *Iterator) Close() {}

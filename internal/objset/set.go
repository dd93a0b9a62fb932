// Package objset implements the collector's address set: the fast
// membership oracle consulted on every stack word and every interior word of
// every marked block (see api.AddressSet).
package objset

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
	state slotState
}

// Set is an open-addressed hash table of uintptr keys, hashed with xxhash.
// It tolerates deletion of the entry most recently yielded by its iterator.
type Set struct {
	slots []slot
	count int // occupied, excludes tombstones
	alive int // occupied + tombstone, drives growth decisions
}

// New returns an empty Set.
func New() *Set {
	return &Set{slots: make([]slot, initialBuckets)}
}

func hashKey(key uintptr) uint64 {
	var buf [8]byte
	putUintptr(buf[:], key)
	return xxhash.Sum64(buf[:])
}

func putUintptr(buf []byte, v uintptr) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// Insert adds key to the set. Inserting a key already present is a no-op.
func (s *Set) Insert(key uintptr) {
	if s.alive+1 > int(float64(len(s.slots))*maxLoadFactor) {
		s.grow()
	}
	idx, found := s.find(key)
	if found {
		return
	}
	if s.slots[idx].state != slotOccupied {
		if s.slots[idx].state == slotEmpty {
			s.alive++
		}
		s.count++
	}
	s.slots[idx] = slot{key: key, state: slotOccupied}
}

// Contains reports whether key is tracked.
func (s *Set) Contains(key uintptr) bool {
	_, found := s.find(key)
	return found
}

// Delete removes key from the set, if present.
func (s *Set) Delete(key uintptr) {
	idx, found := s.find(key)
	if !found {
		return
	}
	s.slots[idx].state = slotTombstone
	s.count--
}

// Len returns the number of tracked addresses.
func (s *Set) Len() int {
	return s.count
}

// find returns the slot index for key: either the occupied slot holding it,
// or the first empty/tombstone slot where it would be inserted.
func (s *Set) find(key uintptr) (idx int, found bool) {
	mask := len(s.slots) - 1
	i := int(hashKey(key)) & mask
	firstTombstone := -1
	for probes := 0; probes < len(s.slots); probes++ {
		sl := &s.slots[i]
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

func (s *Set) grow() {
	old := s.slots
	s.slots = make([]slot, len(old)*2)
	s.count = 0
	s.alive = 0
	for _, sl := range old {
		if sl.state == slotOccupied {
			idx, _ := s.find(sl.key)
			s.slots[idx] = slot{key: sl.key, state: slotOccupied}
			s.count++
			s.alive++
		}
	}
}

// Iterator yields every tracked address exactly once, in bucket order. It
// tolerates the deletion of the entry it most recently yielded: Delete only
// marks a tombstone, it never resizes or relocates slots, so the iterator's
// position remains valid.
type Iterator struct {
	set *Set
	pos int
}

// Iterate returns a new Iterator over s. Close it when done; it holds no
// resources, so Close is a no-op provided for interface symmetry with the
// metadata map's iterator.
func (s *Set) Iterate() api.AddressIterator {
	return &Iterator{set: s}
}

// HasNext reports whether a call to Next would yield an address.
func (it *Iterator) HasNext() bool {
	for i := it.pos; i < len(it.set.slots); i++ {
		if it.set.slots[i].state == slotOccupied {
			it.pos = i
			return true
		}
	}
	it.pos = len(it.set.slots)
	return false
}

// Next returns the next tracked address. Panics if HasNext is false.
func (it *Iterator) Next() uintptr {
	if !it.HasNext() {
		panic("objset: Next called with no remaining entries")
	}
	key := it.set.slots[it.pos].key
	it.pos++
	return key
}

// Close releases the iterator. No-op: Iterator holds no external resources.
func (it *Iterator) Close() {}

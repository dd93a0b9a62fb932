// Package api includes the decoupling interfaces a Collector depends on, but
// does not itself implement: the address set, the metadata map, and the
// memory arena the core collector scans and mutates.
//
// Note: This is for decoupling, not third-party implementations. The default
// implementations live under internal/objset, internal/objmap, and the root
// package's arena type.
package api

// AddressSet is the live-address oracle the collector consults on every
// stack word and every interior word of every marked block: the hottest
// path in the collector. Implementations must provide average-case O(1)
// Insert, Contains, and Delete.
type AddressSet interface {
	// Insert adds addr to the set. Inserting an address already present is
	// a no-op.
	Insert(addr uintptr)

	// Contains reports whether addr is currently tracked.
	Contains(addr uintptr) bool

	// Delete removes addr from the set, if present.
	Delete(addr uintptr)

	// Len returns the number of tracked addresses.
	Len() int

	// Iterate returns an iterator over every tracked address, in no
	// particular order. The iterator must tolerate the deletion of the
	// entry it most recently yielded, and must be closed independently of
	// the set.
	Iterate() AddressIterator
}

// AddressIterator yields addresses from an AddressSet.
type AddressIterator interface {
	// HasNext reports whether Next has another address to yield.
	HasNext() bool

	// Next returns the next address. Panics if HasNext is false.
	Next() uintptr

	// Close releases the iterator. Idempotent.
	Close()
}

// MetadataMap maps a block's base address to its metadata record. The
// collector treats its *record as an opaque pointer it owns; MetadataMap only
// needs to store and retrieve it by key.
type MetadataMap interface {
	// Insert associates addr with rec, replacing any prior association.
	Insert(addr uintptr, rec interface{})

	// Lookup returns the record associated with addr, or (nil, false).
	Lookup(addr uintptr) (interface{}, bool)

	// Delete removes addr's association, if any.
	Delete(addr uintptr)

	// Len returns the number of entries.
	Len() int

	// Iterate returns an iterator over every (address, record) pair, in no
	// particular order, with the same deletion-tolerance contract as
	// AddressIterator.
	Iterate() MetadataIterator
}

// MetadataIterator yields (address, record) pairs from a MetadataMap.
type MetadataIterator interface {
	HasNext() bool
	// Next returns the next (address, record) pair. Panics if HasNext is
	// false.
	Next() (addr uintptr, rec interface{})
	Close()
}

// Arena is a way to read and write raw machine words over a byte-addressed
// memory range. It is the collector's only channel to raw bytes; every
// other package operates purely in terms of addresses and records.
type Arena interface {
	// Base returns the lowest address the arena ever hands out.
	Base() uintptr

	// ReadWord reads one pointer-sized word at addr.
	ReadWord(addr uintptr) uintptr

	// WriteWord writes one pointer-sized word at addr.
	WriteWord(addr uintptr, v uintptr)

	// Zero zeroes size bytes starting at addr.
	Zero(addr uintptr, size int)

	// CopyWithin copies size bytes from src to dst within the same arena.
	// The caller is responsible for ensuring this is a forward-safe copy
	// (dst <= src).
	CopyWithin(dst, src uintptr, size int)
}

package congc

import (
	"unsafe"

	"github.com/congc/congc/api"
)

// wordSize is the platform's pointer-sized word. All addresses, scans, and
// arena bookkeeping operate in units of this size.
const wordSize = int(unsafe.Sizeof(uintptr(0)))

var _ api.Arena = (*arena)(nil)

// arena is the collector's single pre-reserved byte buffer: the managed
// heap. Addresses are offsets into buf; the first wordSize bytes are
// permanently reserved and never handed out, so that 0 is always available
// to mean "absent" without colliding with a real block address.
//
// Every allocation's frontier advance is rounded up to a word multiple, so
// every address bump hands out is itself word-aligned — required for the
// conservative scanner's alignment gate to ever fire on a real address.
//
// Growth is bump-allocated and bounded: Alloc only ever moves nextFree
// forward. There is no free list. A mark-compact relocation moves nextFree
// back to the end of the highest surviving block; freed bytes below that
// point stay unused.
type arena struct {
	buf      []byte
	nextFree int
	maxSize  int
}

func newArena(initialSize, maxSize int) *arena {
	if initialSize < wordSize {
		initialSize = wordSize
	}
	return &arena{
		buf:      make([]byte, initialSize),
		nextFree: wordSize,
		maxSize:  maxSize,
	}
}

// Base returns the lowest address the arena ever hands out.
func (a *arena) Base() uintptr {
	return uintptr(wordSize)
}

func (a *arena) index(addr uintptr) int {
	return int(addr)
}

func alignUp(n int) int {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

// bump reserves size bytes from the frontier and returns their address, or
// (0, false) if the arena is exhausted even after growing to maxSize.
func (a *arena) bump(size int) (uintptr, bool) {
	advance := alignUp(size)
	if a.nextFree+advance > len(a.buf) {
		if !a.grow(a.nextFree + advance) {
			return 0, false
		}
	}
	addr := uintptr(a.nextFree)
	a.nextFree += advance
	return addr, true
}

// grow doubles the backing buffer until it can hold need bytes, capped at
// maxSize. Returns false if maxSize cannot satisfy need.
func (a *arena) grow(need int) bool {
	if need > a.maxSize {
		return false
	}
	newSize := len(a.buf)
	if newSize == 0 {
		newSize = 1
	}
	for newSize < need {
		newSize *= 2
	}
	if newSize > a.maxSize {
		newSize = a.maxSize
	}
	grown := make([]byte, newSize)
	copy(grown, a.buf)
	a.buf = grown
	return true
}

// ReadWord reads one pointer-sized word at addr.
func (a *arena) ReadWord(addr uintptr) uintptr {
	i := a.index(addr)
	var v uintptr
	for b := 0; b < wordSize; b++ {
		v |= uintptr(a.buf[i+b]) << (8 * b)
	}
	return v
}

// WriteWord writes one pointer-sized word at addr.
func (a *arena) WriteWord(addr uintptr, v uintptr) {
	i := a.index(addr)
	for b := 0; b < wordSize; b++ {
		a.buf[i+b] = byte(v >> (8 * b))
	}
}

// Zero zeroes size bytes starting at addr. Required so unused payload bytes
// never look like pointers to previously-seen addresses.
func (a *arena) Zero(addr uintptr, size int) {
	i := a.index(addr)
	for b := 0; b < size; b++ {
		a.buf[i+b] = 0
	}
}

// CopyWithin copies size bytes from src to dst within the arena. Safe as a
// forward byte-by-byte copy whenever dst <= src, which relocate's caller
// guarantees (see compact.go).
func (a *arena) CopyWithin(dst, src uintptr, size int) {
	di, si := a.index(dst), a.index(src)
	if di == si {
		return
	}
	copy(a.buf[di:di+size], a.buf[si:si+size])
}

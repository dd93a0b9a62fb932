package congc

import "unsafe"

// Frame stands in for the machine stack plus the spilled register file: a
// caller-owned slice of pointer-sized words whose slot addresses are stable
// for the frame's lifetime.
//
// Callers build a Frame to hold every local/register value that might be a
// heap address, call Set to store into it, and pass it to Collect. Nothing
// about Frame is specific to one collection: the same Frame can be reused
// across many Collect calls.
type Frame struct {
	words []uintptr
}

// NewFrame returns a Frame with n zeroed slots.
func NewFrame(n int) *Frame {
	return &Frame{words: make([]uintptr, n)}
}

// Len returns the number of slots in the frame.
func (f *Frame) Len() int {
	return len(f.words)
}

// Set stores v in slot i.
func (f *Frame) Set(i int, v uintptr) {
	f.words[i] = v
}

// Get returns the value in slot i.
func (f *Frame) Get(i int) uintptr {
	return f.words[i]
}

// Slot returns the stable address of slot i, for updateReferences to
// rewrite in place during a mark-compact collection.
func (f *Frame) Slot(i int) uintptr {
	return uintptr(unsafe.Pointer(&f.words[i]))
}

// rootRef pairs a root's value with the address of the slot it came from.
// For mark-and-sweep only value matters; mark-compact also needs slotAddr so
// updateReferences can rewrite the slot in place.
type rootRef struct {
	slotAddr uintptr
	value    uintptr
}

// collectRoots scans f in word strides and returns one rootRef per slot
// whose value names a currently tracked block. The same alignment gate
// applies here as in the interior scan, so a misaligned word is never
// mistaken for a root.
func (c *Collector) collectRoots(f *Frame) []rootRef {
	var roots []rootRef
	if f == nil {
		return roots
	}
	for i := 0; i < f.Len(); i++ {
		w := f.Get(i)
		if w == 0 {
			continue
		}
		if uintptr(w)%uintptr(wordSize) != 0 {
			continue
		}
		if !c.addrs.Contains(w) {
			continue
		}
		roots = append(roots, rootRef{slotAddr: f.Slot(i), value: w})
	}
	return roots
}

// rewriteSlot overwrites the word at a root slot address captured by
// collectRoots, used by updateReferences.
func rewriteSlot(slotAddr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(slotAddr)) = v
}

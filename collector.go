// Package congc implements a conservative, stop-the-world, tracing garbage
// collector for host programs with no built-in automatic memory management.
// Callers request allocations through a *Collector instead of the raw Go
// allocator; the collector tracks each live allocation's address and size,
// and on demand reclaims allocations unreachable from the caller-supplied
// Frame (the Go rendering of "the stack plus spilled registers").
//
// Two disciplines are supported: ModeMarkSweep leaves survivors in place;
// ModeMarkCompact additionally relocates them to the low end of the
// insertion-ordered allocation list and rewrites references to them.
package congc

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/congc/congc/api"
	"github.com/congc/congc/internal/objmap"
	"github.com/congc/congc/internal/objset"
)

// Collector is the collector's explicit handle. There is deliberately no
// package-level singleton: every operation is a method on a *Collector
// returned by New, so accidental sharing across goroutines is visible at
// the call site instead of hidden in global state. A Collector is not safe
// for concurrent use from multiple goroutines; it is documented, not
// asserted, single-threaded.
type Collector struct {
	mode    Mode
	addrs   api.AddressSet
	records api.MetadataMap
	list    recordList
	heap    *arena
	logger  *logrus.Entry
}

// New constructs a Collector. A nil cfg uses NewConfig()'s defaults. There is
// no stack-bottom to capture at construction time, so "initialised" here
// simply means "no allocation has occurred yet".
func New(cfg *Config) *Collector {
	if cfg == nil {
		cfg = NewConfig()
	}
	addrs := cfg.addrSet
	if addrs == nil {
		addrs = objset.New()
	}
	records := cfg.metaMap
	if records == nil {
		records = objmap.New()
	}
	return &Collector{
		mode:    cfg.mode,
		addrs:   addrs,
		records: records,
		heap:    newArena(cfg.arenaSize, cfg.maxArenaSize),
		logger:  cfg.logger,
	}
}

// TotalAllocated returns the number of currently tracked blocks.
func (c *Collector) TotalAllocated() int {
	return c.list.total
}

// Alloc requests a zero-initialised block of size bytes. size <= 0 returns
// (0, false), the collector's sentinel for "absent". Allocator exhaustion
// (the arena cannot grow far enough to satisfy the request) is fatal.
func (c *Collector) Alloc(size int) (uintptr, bool) {
	if size <= 0 {
		return 0, false
	}
	addr, ok := c.heap.bump(size)
	if !ok {
		c.fatal("arena exhausted", logrus.Fields{"requested_bytes": size})
		return 0, false
	}
	c.heap.Zero(addr, size)

	rec := &record{addr: addr, size: size}
	c.list.append(rec)
	c.addrs.Insert(addr)
	c.records.Insert(addr, rec)

	logPhase(c.logger, "alloc", logrus.Fields{"addr": addr, "size": size})
	return addr, true
}

// Free unlinks and untracks the block at addr, if tracked. It is a silent
// no-op on an untracked or zero address. The arena bytes themselves are not
// reclaimed for reuse — only a mark-compact Collect physically reclaims
// space, via relocate.
func (c *Collector) Free(addr uintptr) {
	if addr == 0 {
		return
	}
	c.release(addr)
}

// release unlinks addr's bookkeeping from the list, set, and map. Shared by
// Free and sweep.
func (c *Collector) release(addr uintptr) {
	v, ok := c.records.Lookup(addr)
	if !ok {
		return
	}
	rec := v.(*record)
	c.list.unlink(rec)
	c.addrs.Delete(addr)
	c.records.Delete(addr)
}

// Collect runs one full, synchronous collection: root scan, mark, (in
// ModeMarkCompact) computeLocations/updateReferences/relocate, then sweep.
// It does not accept a context.Context: collection has no cancellation or
// timeout semantics, so threading one through only to ignore it would
// misrepresent the collector's synchronous nature. A Collector with no
// tracked blocks returns immediately.
func (c *Collector) Collect(f *Frame) {
	if c.list.total == 0 {
		return
	}

	roots := c.collectRoots(f)
	logPhase(c.logger, "roots", logrus.Fields{"count": len(roots)})

	c.mark(roots)

	if c.mode == ModeMarkCompact {
		c.computeLocations()
		c.updateReferences(roots)
		garbage := c.relocate()
		logPhase(c.logger, "relocate", logrus.Fields{
			"relocated": c.list.total,
			"garbage":   garbage,
		})
	}

	swept, bytesReclaimed := c.sweep()
	logPhase(c.logger, "sweep", logrus.Fields{
		"swept":           swept,
		"bytes_reclaimed": bytesReclaimed,
		"survivors":       c.list.total,
	})
}

// Dump writes one line per tracked block (address, mark bit, size) to w,
// preceded by a message header line. Intended as a debugging aid for callers
// that want to inspect collector state at an arbitrary point.
func (c *Collector) Dump(w io.Writer, message string) error {
	if _, err := fmt.Fprintln(w, message); err != nil {
		return err
	}
	for cur := c.list.head; cur != nil; cur = cur.next {
		if _, err := fmt.Fprintf(w, "addr=%#x mark=%t size=%d\n", cur.addr, cur.mark, cur.size); err != nil {
			return err
		}
	}
	return nil
}

package congc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func trackedAndUnmarked(t *testing.T, c *Collector, addr uintptr) {
	t.Helper()
	v, ok := c.records.Lookup(addr)
	require.True(t, ok, "expected %#x to be tracked", addr)
	require.False(t, v.(*record).mark, "expected %#x to have mark bit cleared", addr)
	require.True(t, c.addrs.Contains(addr))
}

func notTracked(t *testing.T, c *Collector, addr uintptr) {
	t.Helper()
	_, ok := c.records.Lookup(addr)
	require.False(t, ok, "expected %#x to be reclaimed", addr)
	require.False(t, c.addrs.Contains(addr))
}

// Scenario 1: Allocate-and-find.
func TestAllocateAndFind(t *testing.T) {
	c := New(nil)
	a, ok := c.Alloc(16)
	require.True(t, ok)
	b, ok := c.Alloc(32)
	require.True(t, ok)

	f := NewFrame(2)
	f.Set(0, a)
	f.Set(1, b)
	c.Collect(f)

	trackedAndUnmarked(t, c, a)
	trackedAndUnmarked(t, c, b)
	require.Equal(t, 2, c.TotalAllocated())
}

// Scenario 2: Reclaim unreachable leaf.
func TestReclaimUnreachableLeaf(t *testing.T) {
	c := New(nil)
	a, ok := c.Alloc(24)
	require.True(t, ok)

	f := NewFrame(1)
	f.Set(0, a)
	f.Set(0, 0) // overwrite the only local holding A with null

	c.Collect(f)

	notTracked(t, c, a)
	require.Equal(t, 0, c.TotalAllocated())
}

// Scenario 3: Retain via chain.
func TestRetainViaChain(t *testing.T) {
	c := New(nil)
	n1, _ := c.Alloc(3 * wordSize)
	n2, _ := c.Alloc(3 * wordSize)
	n3, _ := c.Alloc(3 * wordSize)

	c.heap.WriteWord(n1, n2)
	c.heap.WriteWord(n2, n3)

	f := NewFrame(1)
	f.Set(0, n1) // n2 and n3's own locals are dropped (never set)
	c.Collect(f)

	trackedAndUnmarked(t, c, n1)
	trackedAndUnmarked(t, c, n2)
	trackedAndUnmarked(t, c, n3)
	require.Equal(t, 3, c.TotalAllocated())
}

// Scenario 4: Cycle is not a leak.
func TestCycleIsNotALeak(t *testing.T) {
	c := New(nil)
	p, _ := c.Alloc(wordSize)
	q, _ := c.Alloc(wordSize)

	c.heap.WriteWord(p, q)
	c.heap.WriteWord(q, p)

	f := NewFrame(0) // both locals dropped
	c.Collect(f)

	notTracked(t, c, p)
	notTracked(t, c, q)
	require.Equal(t, 0, c.TotalAllocated())
}

// Scenario 5: Conservative false positive is tolerated.
func TestConservativeFalsePositiveTolerated(t *testing.T) {
	c := New(nil)
	a, ok := c.Alloc(8)
	require.True(t, ok)

	f := NewFrame(1)
	f.Set(0, a) // an integer local that happens to equal A's address

	c.Collect(f)

	trackedAndUnmarked(t, c, a)
	require.Equal(t, 1, c.TotalAllocated())
}

// Scenario 6: Compact forwards references.
func TestCompactForwardsReferences(t *testing.T) {
	cfg := NewConfig().WithMode(ModeMarkCompact)
	c := New(cfg)

	n1, _ := c.Alloc(wordSize)
	n2, _ := c.Alloc(wordSize)
	n3, _ := c.Alloc(wordSize)

	c.heap.WriteWord(n1, n3) // N1 holds N3; N2 is unreachable

	f := NewFrame(1)
	f.Set(0, n1)
	c.Collect(f)

	require.Equal(t, 2, c.TotalAllocated())
	trackedAndUnmarked(t, c, n1)
	notTracked(t, c, n3) // n3's old address no longer in use

	newN3 := c.heap.ReadWord(n1)
	require.Equal(t, n2, newN3, "N3's new address must equal N2's old address")

	v, ok := c.records.Lookup(n1)
	require.True(t, ok)
	require.Equal(t, n1, v.(*record).addr, "N1's address must not move")
}

func TestDumpWritesOneLinePerTrackedBlock(t *testing.T) {
	c := New(nil)
	a, _ := c.Alloc(8)
	b, _ := c.Alloc(16)
	f := NewFrame(2)
	f.Set(0, a)
	f.Set(1, b)
	c.Collect(f)

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf, "after collect"))
	require.Contains(t, buf.String(), "after collect")
	require.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestFreeIsNoOpOnUntrackedAddress(t *testing.T) {
	c := New(nil)
	c.Free(0)
	c.Free(12345)
	require.Equal(t, 0, c.TotalAllocated())
}

func TestAllocZeroReturnsAbsent(t *testing.T) {
	c := New(nil)
	addr, ok := c.Alloc(0)
	require.False(t, ok)
	require.Equal(t, uintptr(0), addr)
}

func TestCollectOnEmptyCollectorReturnsImmediately(t *testing.T) {
	c := New(nil)
	c.Collect(NewFrame(4))
	require.Equal(t, 0, c.TotalAllocated())
}

package congc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaBumpReadWrite(t *testing.T) {
	a := newArena(64, 1024)
	addr, ok := a.bump(8)
	require.True(t, ok)
	require.Equal(t, a.Base(), addr)

	a.WriteWord(addr, 0xdeadbeef)
	require.Equal(t, uintptr(0xdeadbeef), a.ReadWord(addr))

	addr2, ok := a.bump(8)
	require.True(t, ok)
	require.Equal(t, addr+uintptr(wordSize), addr2)
}

func TestArenaZero(t *testing.T) {
	a := newArena(64, 1024)
	addr, _ := a.bump(8)
	a.WriteWord(addr, 123)
	a.Zero(addr, 8)
	require.Equal(t, uintptr(0), a.ReadWord(addr))
}

func TestArenaCopyWithin(t *testing.T) {
	a := newArena(64, 1024)
	src, _ := a.bump(8)
	dst, _ := a.bump(8)
	a.WriteWord(src, 77)
	a.CopyWithin(dst, src, 8)
	require.Equal(t, uintptr(77), a.ReadWord(dst))
}

func TestArenaGrowsUpToMax(t *testing.T) {
	a := newArena(8, 32)
	_, ok := a.bump(8)
	require.True(t, ok)
	_, ok = a.bump(16)
	require.True(t, ok)
	_, ok = a.bump(16)
	require.False(t, ok, "bump beyond maxSize must fail")
}

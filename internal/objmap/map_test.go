package objmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapInsertLookupDelete(t *testing.T) {
	m := New()
	_, ok := m.Lookup(1)
	require.False(t, ok)

	m.Insert(1, "one")
	m.Insert(2, "two")
	v, ok := m.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "one", v)
	require.Equal(t, 2, m.Len())

	m.Delete(1)
	_, ok = m.Lookup(1)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMapInsertReplacesValue(t *testing.T) {
	m := New()
	m.Insert(5, "first")
	m.Insert(5, "second")
	v, ok := m.Lookup(5)
	require.True(t, ok)
	require.Equal(t, "second", v)
	require.Equal(t, 1, m.Len())
}

func TestMapGrowsAndKeepsAllEntries(t *testing.T) {
	m := New()
	const n = 500
	for i := 0; i < n; i++ {
		m.Insert(uintptr(i+1), i)
	}
	require.Equal(t, n, m.Len())
	for i := 0; i < n; i++ {
		v, ok := m.Lookup(uintptr(i + 1))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestMapIteratorToleratesDeleteOfJustYielded(t *testing.T) {
	m := New()
	m.Insert(1, "a")
	m.Insert(2, "b")

	it := m.Iterate()
	seen := 0
	for it.HasNext() {
		k, _ := it.Next()
		m.Delete(k)
		seen++
	}
	it.Close()

	assert.Equal(t, 2, seen)
	assert.Equal(t, 0, m.Len())
}

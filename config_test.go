package congc

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/congc/congc/internal/objset"
)

func TestConfigBuilderIsImmutable(t *testing.T) {
	base := NewConfig()
	withCompact := base.WithMode(ModeMarkCompact)

	require.Equal(t, ModeMarkSweep, base.mode, "WithMode must not mutate the receiver")
	require.Equal(t, ModeMarkCompact, withCompact.mode)
	require.NotSame(t, base, withCompact)
}

func TestConfigWithArenaSize(t *testing.T) {
	cfg := NewConfig().WithArenaSize(128).WithMaxArenaSize(256)
	c := New(cfg)
	require.Equal(t, wordSize, c.heap.nextFree)
	require.GreaterOrEqual(t, len(c.heap.buf), 128)
	require.Equal(t, 256, c.heap.maxSize)
}

func TestConfigWithLoggerIsOptional(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	cfg := NewConfig().WithLogger(entry)
	c := New(cfg)
	require.Same(t, entry, c.logger)

	plain := New(nil)
	require.Nil(t, plain.logger)
}

func TestConfigWithAddressSetOverride(t *testing.T) {
	custom := objset.New()
	cfg := NewConfig().WithAddressSet(custom)
	c := New(cfg)
	require.Same(t, custom, c.addrs)
}

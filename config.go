package congc

import (
	"github.com/sirupsen/logrus"

	"github.com/congc/congc/api"
)

// Mode selects the collection discipline: mark-and-sweep leaves survivors in
// place; mark-compact additionally relocates them to the low end of the
// insertion-ordered list and rewrites references.
type Mode int

const (
	// ModeMarkSweep leaves surviving allocations in place.
	ModeMarkSweep Mode = iota
	// ModeMarkCompact relocates survivors to the list prefix and rewrites
	// references to them.
	ModeMarkCompact
)

const (
	defaultArenaSize    = 64 * 1024
	defaultMaxArenaSize = 64 * 1024 * 1024
)

// Config configures a Collector. It follows an immutable builder
// convention: every With* method returns a new *Config, leaving the
// receiver untouched, so a base configuration can be shared and specialized
// without aliasing surprises.
type Config struct {
	mode         Mode
	arenaSize    int
	maxArenaSize int
	logger       *logrus.Entry
	addrSet      api.AddressSet
	metaMap      api.MetadataMap
}

// NewConfig returns a Config with the collector's defaults: mark-and-sweep
// mode, a 64KiB arena growable to 64MiB, no logger, and the default
// hash-table-backed address set and metadata map (left nil here; New fills
// them in with internal/objset and internal/objmap when still nil).
func NewConfig() *Config {
	return &Config{
		mode:         ModeMarkSweep,
		arenaSize:    defaultArenaSize,
		maxArenaSize: defaultMaxArenaSize,
	}
}

func (c *Config) clone() *Config {
	cp := *c
	return &cp
}

// WithMode selects the collection discipline.
func (c *Config) WithMode(mode Mode) *Config {
	cp := c.clone()
	cp.mode = mode
	return cp
}

// WithArenaSize sets the arena's initial size in bytes.
func (c *Config) WithArenaSize(size int) *Config {
	cp := c.clone()
	cp.arenaSize = size
	return cp
}

// WithMaxArenaSize sets the arena's growth ceiling in bytes.
func (c *Config) WithMaxArenaSize(size int) *Config {
	cp := c.clone()
	cp.maxArenaSize = size
	return cp
}

// WithLogger attaches a structured logger. When unset, the collector logs
// nothing.
func (c *Config) WithLogger(logger *logrus.Entry) *Config {
	cp := c.clone()
	cp.logger = logger
	return cp
}

// WithAddressSet overrides the default internal/objset-backed address set.
func (c *Config) WithAddressSet(set api.AddressSet) *Config {
	cp := c.clone()
	cp.addrSet = set
	return cp
}

// WithMetadataMap overrides the default internal/objmap-backed metadata map.
func (c *Config) WithMetadataMap(m api.MetadataMap) *Config {
	cp := c.clone()
	cp.metaMap = m
	return cp
}

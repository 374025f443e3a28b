package picocompat

import (
	"log/slog"
	"sync"

	"github.com/randalmurphal/picocompat/pkg/picocompat/config"
	"github.com/randalmurphal/picocompat/pkg/picocompat/observability"
)

// Names of the path constants API v0 plugins read.
const (
	ConstRootDir    = "ROOT_DIR"
	ConstConfigDir  = "CONFIG_DIR"
	ConstLibDir     = "LIB_DIR"
	ConstPluginsDir = "PLUGINS_DIR"
	ConstThemesDir  = "THEMES_DIR"
	ConstContentDir = "CONTENT_DIR"
	ConstContentExt = "CONTENT_EXT"
	ConstCacheDir   = "CACHE_DIR"
)

// Constants is a set of define-once named values. The first definition of
// a name wins for the life of the set.
type Constants struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// DefaultConstants is the process-wide constant set.
var DefaultConstants = NewConstants()

// NewConstants creates an empty constant set.
func NewConstants() *Constants {
	return &Constants{values: make(map[string]string)}
}

// Define sets name to value unless name is already defined.
// Returns true if the value was stored.
func (c *Constants) Define(name, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[name]; ok {
		return false
	}
	c.values[name] = value
	c.order = append(c.order, name)
	return true
}

// Lookup returns the value of name.
func (c *Constants) Lookup(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Defined returns true if name has a value.
func (c *Constants) Defined(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns the defined names in definition order.
func (c *Constants) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// All returns a copy of every defined constant.
func (c *Constants) All() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// DefineFromConfig defines the path constants from the host and its
// configuration. Names that are already defined keep their value.
// Returns the number of constants it defined.
func (c *Constants) DefineFromConfig(host Host, cfg config.Config, logger *slog.Logger) int {
	defs := []struct{ name, value string }{
		{ConstRootDir, host.RootDir()},
		{ConstConfigDir, host.ConfigDir()},
		{ConstLibDir, host.LibDir()},
		{ConstPluginsDir, host.PluginsDir()},
		{ConstThemesDir, host.ThemesDir()},
		{ConstContentDir, cfg.ContentDir()},
		{ConstContentExt, cfg.ContentExt()},
		{ConstCacheDir, cfg.TwigCache()},
	}

	n := 0
	for _, d := range defs {
		if c.Define(d.name, d.value) {
			n++
			continue
		}
		observability.LogConstantSkipped(logger, d.name)
	}
	return n
}

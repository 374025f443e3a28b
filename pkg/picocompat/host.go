package picocompat

import "github.com/randalmurphal/picocompat/pkg/picocompat/page"

// Host is the part of the CMS core the compat layer reads from.
type Host interface {
	RootDir() string
	ConfigDir() string
	LibDir() string
	PluginsDir() string
	ThemesDir() string
	BaseURL() string
	URLRewriting() bool
}

// StaticHost is a Host with fixed values.
type StaticHost struct {
	Root        string
	Config      string
	Lib         string
	Plugins     string
	Themes      string
	Base        string
	RewritingOn bool
}

// Compile-time interface check.
var _ Host = StaticHost{}

func (h StaticHost) RootDir() string    { return h.Root }
func (h StaticHost) ConfigDir() string  { return h.Config }
func (h StaticHost) LibDir() string     { return h.Lib }
func (h StaticHost) PluginsDir() string { return h.Plugins }
func (h StaticHost) ThemesDir() string  { return h.Themes }
func (h StaticHost) BaseURL() string    { return h.Base }
func (h StaticHost) URLRewriting() bool { return h.RewritingOn }

// keyRules returns the page key rules of a host.
func keyRules(h Host) page.KeyRules {
	return page.KeyRules{BaseURL: h.BaseURL(), URLRewriting: h.URLRewriting()}
}

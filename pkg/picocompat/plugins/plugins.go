// Package plugins describes the legacy plugins picocompat talks to and the
// read-only view of them the host supplies.
package plugins

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/picocompat/pkg/picocompat/registry"
)

// Revision identifies a legacy plugin API generation.
type Revision int

const (
	// Revision0 is the API picocompat emulates (plugins written for Pico 0.9
	// and earlier).
	Revision0 Revision = 0

	// Revision1 is the API picocompat extends. Revision 1 plugins are offered
	// every revision 0 event too.
	Revision1 Revision = 1
)

// String returns the revision tag, e.g. "v0".
func (r Revision) String() string {
	return fmt.Sprintf("v%d", int(r))
}

// Supported returns true for the revisions this layer dispatches to.
func (r Revision) Supported() bool {
	return r == Revision0 || r == Revision1
}

// SupportedRevisions returns the revisions offered legacy events,
// in ascending order.
func SupportedRevisions() []Revision {
	return []Revision{Revision0, Revision1}
}

// Plugin is the minimal handle of a loaded plugin. Event handlers are
// discovered through the capability interfaces in package event.
type Plugin interface {
	Name() string
}

// View is read-only access to the loaded plugins, partitioned by the
// legacy revision they declare. The result must be stable for the
// duration of one request.
type View interface {
	PluginsOfRevision(rev Revision) []Plugin
}

// ErrEmptyName indicates a plugin without a name was added to a Set.
var ErrEmptyName = errors.New("plugin name is required")

// ErrUnsupportedRevision indicates a plugin was added under a revision
// other than 0 or 1.
var ErrUnsupportedRevision = errors.New("unsupported plugin revision")

// Set is an in-memory View. Plugins keep the order they were added in.
type Set struct {
	byRevision map[Revision]*registry.Registry[string, Plugin]
}

// Compile-time interface check.
var _ View = (*Set)(nil)

// NewSet creates an empty plugin set.
func NewSet() *Set {
	s := &Set{byRevision: make(map[Revision]*registry.Registry[string, Plugin])}
	for _, rev := range SupportedRevisions() {
		s.byRevision[rev] = registry.New[string, Plugin]()
	}
	return s
}

// Add registers a plugin under a revision. Adding a second plugin with
// the same name under the same revision replaces the first in place.
func (s *Set) Add(rev Revision, p Plugin) error {
	if p == nil || p.Name() == "" {
		return ErrEmptyName
	}
	reg, ok := s.byRevision[rev]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedRevision, rev)
	}
	reg.Register(p.Name(), p)
	return nil
}

// MustAdd is like Add but panics on error.
func (s *Set) MustAdd(rev Revision, p Plugin) {
	if err := s.Add(rev, p); err != nil {
		panic(fmt.Sprintf("failed to add plugin: %v", err))
	}
}

// Remove drops a plugin from a revision. Missing plugins are ignored.
func (s *Set) Remove(rev Revision, name string) {
	if reg, ok := s.byRevision[rev]; ok {
		reg.Delete(name)
	}
}

// PluginsOfRevision implements View.
func (s *Set) PluginsOfRevision(rev Revision) []Plugin {
	reg, ok := s.byRevision[rev]
	if !ok {
		return nil
	}
	return reg.Values()
}

// Len returns the number of registrations across all revisions.
func (s *Set) Len() int {
	n := 0
	for _, reg := range s.byRevision {
		n += reg.Len()
	}
	return n
}

// Func adapts a plain name into a Plugin with no handlers. Useful for
// hosts that only need a placeholder entry.
type Func string

// Name implements Plugin.
func (f Func) Name() string { return string(f) }

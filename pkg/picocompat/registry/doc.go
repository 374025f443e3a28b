// Package registry provides a generic thread-safe registry that keeps
// entries in registration order.
//
// Order matters to picocompat: legacy plugins are invoked in the order the
// host loaded them, so the registry backing a plugin set must not reorder
// its entries the way a bare map would.
//
//	r := registry.New[string, int]()
//	r.Register("b", 2)
//	r.Register("a", 1)
//	r.Keys() // [b a]
//
// Use GetOrCreate for lazily computed, per-key caches:
//
//	caps := registry.New[string, Set]()
//	set := caps.GetOrCreate(plugin.Name(), func() Set { return compute(plugin) })
package registry

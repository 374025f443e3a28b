// Package template strips and restores template file extensions around
// legacy before_render handlers, which predate extensions in template names.
package template

import "strings"

// Renderer is the host's template engine as seen by legacy plugins. They
// may replace it before rendering, so handlers receive it by pointer.
type Renderer interface {
	Render(name string, vars map[string]any) (string, error)
}

// Reference is a template name split into base name and extension.
type Reference struct {
	// Base is the name without extension, including any directory.
	Base string
	// Ext is the extension without the dot, "" if there is none.
	Ext string
}

// Split decomposes a template name. The extension is whatever follows the
// last dot of the final path element.
//
//	Split("theme/index.twig") // {Base: "theme/index", Ext: "twig"}
//	Split("v1.2/index")       // {Base: "v1.2/index", Ext: ""}
func Split(name string) Reference {
	dir, file := "", name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		dir, file = name[:i+1], name[i+1:]
	}
	i := strings.LastIndex(file, ".")
	if i < 0 {
		return Reference{Base: name}
	}
	return Reference{Base: dir + file[:i], Ext: file[i+1:]}
}

// Join recomposes a name from base and the original extension. The dot is
// always added: all templates of a theme are assumed to share one
// extension, and this is not verified.
func (r Reference) Join(base string) string {
	return base + "." + r.Ext
}

// String returns the original name.
func (r Reference) String() string {
	if r.Ext == "" {
		return r.Base
	}
	return r.Join(r.Base)
}

// RoundTrip hands fn the extension-less name, then restores the extension
// onto whatever base name fn left behind. If fn fails, its error is
// returned unchanged together with the original name.
func RoundTrip(name string, fn func(base *string) error) (string, error) {
	ref := Split(name)
	base := ref.Base
	if err := fn(&base); err != nil {
		return name, err
	}
	return ref.Join(base), nil
}

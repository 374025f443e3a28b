// Package page holds content page records and the algorithm that converts
// between the legacy page list and the host's keyed page collection.
package page

// Page is the data of one content page.
//
// ID is optional: legacy plugins see pages without one and may assign it.
// Once a page sits in a Collection, its ID is unique within that collection.
type Page struct {
	ID      *string
	URL     string
	Title   string
	Content string
	Meta    map[string]any

	// Fields holds any other page data (date, author, raw content, ...).
	Fields map[string]any
}

// New creates a page with the given URL and empty meta.
func New(url string) *Page {
	return &Page{
		URL:    url,
		Meta:   make(map[string]any),
		Fields: make(map[string]any),
	}
}

// HasID returns true if an id has been assigned.
func (p *Page) HasID() bool {
	return p.ID != nil
}

// IDOr returns the id, or fallback if none is assigned.
func (p *Page) IDOr(fallback string) string {
	if p.ID == nil {
		return fallback
	}
	return *p.ID
}

// SetID assigns the page id.
func (p *Page) SetID(id string) {
	p.ID = &id
}

// ClearID removes the page id.
func (p *Page) ClearID() {
	p.ID = nil
}

// MetaCopy returns a shallow copy of the page meta. Legacy get_page_data
// handlers receive meta by value.
func (p *Page) MetaCopy() map[string]any {
	out := make(map[string]any, len(p.Meta))
	for k, v := range p.Meta {
		out[k] = v
	}
	return out
}

// Collection is the host's keyed page collection. It keeps insertion
// order, which the host uses as sort order.
type Collection struct {
	keys  []string
	pages map[string]*Page
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{pages: make(map[string]*Page)}
}

// Set stores a page under key. An existing key keeps its position.
func (c *Collection) Set(key string, p *Page) {
	if _, ok := c.pages[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.pages[key] = p
}

// Get returns the page stored under key.
func (c *Collection) Get(key string) (*Page, bool) {
	p, ok := c.pages[key]
	return p, ok
}

// Has returns true if key is in use.
func (c *Collection) Has(key string) bool {
	_, ok := c.pages[key]
	return ok
}

// Keys returns all keys in order.
func (c *Collection) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Pages returns all pages in order, without their keys.
func (c *Collection) Pages() []*Page {
	out := make([]*Page, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.pages[k])
	}
	return out
}

// Len returns the number of pages.
func (c *Collection) Len() int {
	return len(c.keys)
}

// replace swaps the contents of c for those of other.
func (c *Collection) replace(other *Collection) {
	c.keys = other.keys
	c.pages = other.pages
}

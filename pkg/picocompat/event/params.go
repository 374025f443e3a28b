package event

import (
	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

// Params is the parameter bundle of one canonical event firing. Each field
// is a slot; legacy handlers receive pointers into these slots, so a write
// by one handler is seen by every later handler of the same firing and by
// the host once dispatch returns.
//
// A Params value is built fresh for each firing and must not be retained
// by handlers after they return.
type Params struct {
	Config     map[string]any
	URL        string
	File       string
	RawContent string
	Headers    map[string]string
	Meta       map[string]any
	Content    string

	// Page and PageMeta feed get_page_data; PageMeta is a copy.
	Page     *page.Page
	PageMeta map[string]any

	// Pages, Current, Previous and Next feed get_pages.
	Pages    []*page.Page
	Current  *page.Page
	Previous *page.Page
	Next     *page.Page

	Renderer     template.Renderer
	TemplateName string
	TemplateVars map[string]any

	Output string
}

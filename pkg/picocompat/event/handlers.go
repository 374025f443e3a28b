package event

import (
	"sort"

	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

// Legacy handler capabilities. A plugin receives a legacy event only if it
// implements the matching interface; argument order follows the API v0
// calling convention and must not change.

// PluginsLoadedHandler handles plugins_loaded.
type PluginsLoadedHandler interface {
	PluginsLoaded() error
}

// ConfigLoadedHandler handles config_loaded.
type ConfigLoadedHandler interface {
	ConfigLoaded(config *map[string]any) error
}

// RequestURLHandler handles request_url.
type RequestURLHandler interface {
	RequestURL(url *string) error
}

// BeforeLoadContentHandler handles before_load_content.
type BeforeLoadContentHandler interface {
	BeforeLoadContent(file *string) error
}

// AfterLoadContentHandler handles after_load_content.
type AfterLoadContentHandler interface {
	AfterLoadContent(file, rawContent *string) error
}

// Before404LoadContentHandler handles before_404_load_content.
type Before404LoadContentHandler interface {
	Before404LoadContent(file *string) error
}

// After404LoadContentHandler handles after_404_load_content.
type After404LoadContentHandler interface {
	After404LoadContent(file, rawContent *string) error
}

// BeforeReadFileMetaHandler handles before_read_file_meta.
type BeforeReadFileMetaHandler interface {
	BeforeReadFileMeta(headers *map[string]string) error
}

// FileMetaHandler handles file_meta.
type FileMetaHandler interface {
	FileMeta(meta *map[string]any) error
}

// BeforeParseContentHandler handles before_parse_content.
type BeforeParseContentHandler interface {
	BeforeParseContent(content *string) error
}

// AfterParseContentHandler handles after_parse_content.
type AfterParseContentHandler interface {
	AfterParseContent(content *string) error
}

// ContentParsedHandler handles content_parsed.
type ContentParsedHandler interface {
	ContentParsed(content *string) error
}

// GetPageDataHandler handles get_page_data. meta is a copy of the page
// meta taken before the event fired.
type GetPageDataHandler interface {
	GetPageData(data *page.Page, meta map[string]any) error
}

// GetPagesHandler handles get_pages. The page list carries no keys; any of
// current, previous and next may point to nil.
type GetPagesHandler interface {
	GetPages(pages *[]*page.Page, current, previous, next **page.Page) error
}

// BeforeTwigRegisterHandler handles before_twig_register.
type BeforeTwigRegisterHandler interface {
	BeforeTwigRegister() error
}

// BeforeRenderHandler handles before_render. templateName has no file
// extension.
type BeforeRenderHandler interface {
	BeforeRender(vars *map[string]any, renderer *template.Renderer, templateName *string) error
}

// AfterRenderHandler handles after_render.
type AfterRenderHandler interface {
	AfterRender(output *string) error
}

// legacySpec binds a legacy event name to its capability check and its
// calling convention.
type legacySpec struct {
	supports func(plugins.Plugin) bool
	invoke   func(plugins.Plugin, *Params) error
}

func bind[H any](call func(H, *Params) error) legacySpec {
	return legacySpec{
		supports: func(pl plugins.Plugin) bool {
			_, ok := pl.(H)
			return ok
		},
		invoke: func(pl plugins.Plugin, p *Params) error {
			return call(pl.(H), p)
		},
	}
}

var legacySpecs = map[string]legacySpec{
	PluginsLoaded: bind(func(h PluginsLoadedHandler, _ *Params) error {
		return h.PluginsLoaded()
	}),
	ConfigLoaded: bind(func(h ConfigLoadedHandler, p *Params) error {
		return h.ConfigLoaded(&p.Config)
	}),
	RequestURL: bind(func(h RequestURLHandler, p *Params) error {
		return h.RequestURL(&p.URL)
	}),
	BeforeLoadContent: bind(func(h BeforeLoadContentHandler, p *Params) error {
		return h.BeforeLoadContent(&p.File)
	}),
	AfterLoadContent: bind(func(h AfterLoadContentHandler, p *Params) error {
		return h.AfterLoadContent(&p.File, &p.RawContent)
	}),
	Before404LoadContent: bind(func(h Before404LoadContentHandler, p *Params) error {
		return h.Before404LoadContent(&p.File)
	}),
	After404LoadContent: bind(func(h After404LoadContentHandler, p *Params) error {
		return h.After404LoadContent(&p.File, &p.RawContent)
	}),
	BeforeReadFileMeta: bind(func(h BeforeReadFileMetaHandler, p *Params) error {
		return h.BeforeReadFileMeta(&p.Headers)
	}),
	FileMeta: bind(func(h FileMetaHandler, p *Params) error {
		return h.FileMeta(&p.Meta)
	}),
	BeforeParseContent: bind(func(h BeforeParseContentHandler, p *Params) error {
		return h.BeforeParseContent(&p.RawContent)
	}),
	AfterParseContent: bind(func(h AfterParseContentHandler, p *Params) error {
		return h.AfterParseContent(&p.Content)
	}),
	ContentParsed: bind(func(h ContentParsedHandler, p *Params) error {
		return h.ContentParsed(&p.Content)
	}),
	GetPageData: bind(func(h GetPageDataHandler, p *Params) error {
		return h.GetPageData(p.Page, p.PageMeta)
	}),
	GetPages: bind(func(h GetPagesHandler, p *Params) error {
		return h.GetPages(&p.Pages, &p.Current, &p.Previous, &p.Next)
	}),
	BeforeTwigRegister: bind(func(h BeforeTwigRegisterHandler, _ *Params) error {
		return h.BeforeTwigRegister()
	}),
	BeforeRender: bind(func(h BeforeRenderHandler, p *Params) error {
		return h.BeforeRender(&p.TemplateVars, &p.Renderer, &p.TemplateName)
	}),
	AfterRender: bind(func(h AfterRenderHandler, p *Params) error {
		return h.AfterRender(&p.Output)
	}),
}

// LegacyEvents returns every legacy event name, sorted.
func LegacyEvents() []string {
	out := make([]string, 0, len(legacySpecs))
	for name := range legacySpecs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsLegacyEvent returns true if name is an API v0 event.
func IsLegacyEvent(name string) bool {
	_, ok := legacySpecs[name]
	return ok
}

// CapabilitySet is the set of legacy events a plugin handles.
type CapabilitySet map[string]struct{}

// Has returns true if the set contains the legacy event.
func (s CapabilitySet) Has(legacy string) bool {
	_, ok := s[legacy]
	return ok
}

// Names returns the contained legacy events, sorted.
func (s CapabilitySet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Capabilities computes which legacy events a plugin handles.
func Capabilities(pl plugins.Plugin) CapabilitySet {
	set := make(CapabilitySet)
	for name, s := range legacySpecs {
		if s.supports(pl) {
			set[name] = struct{}{}
		}
	}
	return set
}

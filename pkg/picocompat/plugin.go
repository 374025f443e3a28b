package picocompat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randalmurphal/picocompat/pkg/picocompat/config"
	"github.com/randalmurphal/picocompat/pkg/picocompat/event"
	"github.com/randalmurphal/picocompat/pkg/picocompat/observability"
	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

// PluginName is the name the compat layer registers under.
const PluginName = "PluginApi0Plugin"

// APIv0Plugin receives canonical events from the host and re-emits them
// as API v0 events to legacy plugins.
type APIv0Plugin struct {
	host       Host
	dispatcher *event.Dispatcher
	constants  *Constants
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	dispatch   []event.DispatcherOption

	mu          sync.Mutex
	requestFile *string
	config      *map[string]any
}

// Option configures an APIv0Plugin.
type Option func(*APIv0Plugin)

// WithConstants sets the constant set. Default: DefaultConstants.
func WithConstants(c *Constants) Option {
	return func(a *APIv0Plugin) {
		if c != nil {
			a.constants = c
		}
	}
}

// WithLogger sets the logger for the plugin and its dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(a *APIv0Plugin) {
		a.logger = logger
		a.dispatch = append(a.dispatch, event.WithLogger(logger))
	}
}

// WithMetrics sets the metrics recorder for the plugin and its dispatcher.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(a *APIv0Plugin) {
		if m != nil {
			a.metrics = m
			a.dispatch = append(a.dispatch, event.WithMetrics(m))
		}
	}
}

// WithDispatcherOptions passes options through to the dispatcher, e.g.
// event.WithSpans or event.WithMiddleware.
func WithDispatcherOptions(opts ...event.DispatcherOption) Option {
	return func(a *APIv0Plugin) {
		a.dispatch = append(a.dispatch, opts...)
	}
}

// New creates the compat plugin for a host and its legacy plugins.
func New(host Host, view plugins.View, opts ...Option) *APIv0Plugin {
	a := &APIv0Plugin{
		host:      host,
		constants: DefaultConstants,
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.dispatcher = event.NewDispatcher(view, a.dispatch...)
	return a
}

// Name implements plugins.Plugin.
func (a *APIv0Plugin) Name() string { return PluginName }

// APIVersion is the API revision the compat plugin itself is written against.
func (a *APIv0Plugin) APIVersion() plugins.Revision { return plugins.Revision1 }

// APIVersionSupport is the API revision the plugin emulates.
func (a *APIv0Plugin) APIVersionSupport() plugins.Revision { return plugins.Revision0 }

// DependsOn lists the compat plugins that must be loaded first.
func (a *APIv0Plugin) DependsOn() []string {
	return []string{"PluginApi1Plugin", "ThemeApi0Plugin"}
}

// Dispatcher returns the underlying dispatcher.
func (a *APIv0Plugin) Dispatcher() *event.Dispatcher { return a.dispatcher }

// Config returns the configuration published by the first OnConfigLoaded.
func (a *APIv0Plugin) Config() (map[string]any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.config == nil {
		return nil, false
	}
	return *a.config, true
}

// HandleEvent re-emits a canonical event through the alias table.
func (a *APIv0Plugin) HandleEvent(ctx context.Context, canonical string, p *event.Params) error {
	return a.dispatcher.DispatchCanonical(ctx, canonical, p)
}

// HandleCustomEvent ignores custom events.
func (a *APIv0Plugin) HandleCustomEvent(ctx context.Context, name string, args ...any) error {
	return a.dispatcher.HandleCustomEvent(ctx, name, args...)
}

// TriggerEvent fires one legacy event on every legacy plugin.
func (a *APIv0Plugin) TriggerEvent(ctx context.Context, legacy string, p *event.Params) error {
	return a.dispatcher.Trigger(ctx, "", legacy, p)
}

// OnPluginsLoaded fires plugins_loaded.
func (a *APIv0Plugin) OnPluginsLoaded(ctx context.Context) error {
	return a.dispatcher.Trigger(ctx, event.OnPluginsLoaded, event.PluginsLoaded, &event.Params{})
}

// OnConfigLoaded defines the path constants, publishes cfg on first call
// and fires config_loaded.
func (a *APIv0Plugin) OnConfigLoaded(ctx context.Context, cfg *map[string]any) error {
	if *cfg == nil {
		*cfg = make(map[string]any)
	}
	a.constants.DefineFromConfig(a.host, config.New(*cfg), a.logger)

	a.mu.Lock()
	if a.config == nil {
		a.config = cfg
	}
	a.mu.Unlock()

	p := &event.Params{Config: *cfg}
	err := a.HandleEvent(ctx, event.OnConfigLoaded, p)
	*cfg = p.Config
	return err
}

// OnRequestURL fires request_url.
func (a *APIv0Plugin) OnRequestURL(ctx context.Context, url *string) error {
	p := &event.Params{URL: *url}
	err := a.HandleEvent(ctx, event.OnRequestURL, p)
	*url = p.URL
	return err
}

// OnRequestFile remembers the host's file slot for after_load_content and
// after_404_load_content.
func (a *APIv0Plugin) OnRequestFile(_ context.Context, file *string) error {
	a.mu.Lock()
	a.requestFile = file
	a.mu.Unlock()
	return nil
}

// OnContentLoading fires before_load_content.
func (a *APIv0Plugin) OnContentLoading(ctx context.Context, file *string) error {
	p := &event.Params{File: *file}
	err := a.HandleEvent(ctx, event.OnContentLoading, p)
	*file = p.File
	return err
}

// OnContentLoaded fires after_load_content with the request file.
func (a *APIv0Plugin) OnContentLoaded(ctx context.Context, raw *string) error {
	return a.afterLoad(ctx, event.OnContentLoaded, event.AfterLoadContent, raw)
}

// On404ContentLoading fires before_404_load_content.
func (a *APIv0Plugin) On404ContentLoading(ctx context.Context, file *string) error {
	p := &event.Params{File: *file}
	err := a.HandleEvent(ctx, event.On404ContentLoading, p)
	*file = p.File
	return err
}

// On404ContentLoaded fires after_404_load_content with the request file.
func (a *APIv0Plugin) On404ContentLoaded(ctx context.Context, raw *string) error {
	return a.afterLoad(ctx, event.On404ContentLoaded, event.After404LoadContent, raw)
}

func (a *APIv0Plugin) afterLoad(ctx context.Context, canonical, legacy string, raw *string) error {
	a.mu.Lock()
	file := a.requestFile
	a.mu.Unlock()
	if file == nil {
		file = new(string)
	}

	p := &event.Params{File: *file, RawContent: *raw}
	err := a.dispatcher.Trigger(ctx, canonical, legacy, p)
	*file = p.File
	*raw = p.RawContent
	return err
}

// OnMetaParsing fires before_read_file_meta with the meta headers.
func (a *APIv0Plugin) OnMetaParsing(ctx context.Context, _ *string, headers *map[string]string) error {
	p := &event.Params{Headers: *headers}
	err := a.dispatcher.Trigger(ctx, event.OnMetaParsing, event.BeforeReadFileMeta, p)
	*headers = p.Headers
	return err
}

// OnMetaParsed fires file_meta.
func (a *APIv0Plugin) OnMetaParsed(ctx context.Context, meta *map[string]any) error {
	p := &event.Params{Meta: *meta}
	err := a.HandleEvent(ctx, event.OnMetaParsed, p)
	*meta = p.Meta
	return err
}

// OnContentParsing fires before_parse_content.
func (a *APIv0Plugin) OnContentParsing(ctx context.Context, raw *string) error {
	p := &event.Params{RawContent: *raw}
	err := a.HandleEvent(ctx, event.OnContentParsing, p)
	*raw = p.RawContent
	return err
}

// OnContentParsed fires after_parse_content, then content_parsed.
func (a *APIv0Plugin) OnContentParsed(ctx context.Context, content *string) error {
	p := &event.Params{Content: *content}
	err := a.HandleEvent(ctx, event.OnContentParsed, p)
	*content = p.Content
	return err
}

// OnSinglePageLoaded fires get_page_data with the page and a copy of its meta.
func (a *APIv0Plugin) OnSinglePageLoaded(ctx context.Context, pg *page.Page) error {
	if pg == nil {
		return page.ErrNilPage
	}
	p := &event.Params{Page: pg, PageMeta: pg.MetaCopy()}
	return a.dispatcher.Trigger(ctx, event.OnSinglePageLoaded, event.GetPageData, p)
}

// OnPagesLoaded hands the pages to get_pages as a plain list and keys the
// returned list again. current, previous and next may be nil.
func (a *APIv0Plugin) OnPagesLoaded(ctx context.Context, pages *page.Collection, current, previous, next **page.Page) error {
	current, previous, next = slot(current), slot(previous), slot(next)

	stats, err := page.Reindex(pages, keyRules(a.host), func(list *[]*page.Page) error {
		p := &event.Params{
			Pages:    *list,
			Current:  *current,
			Previous: *previous,
			Next:     *next,
		}
		err := a.dispatcher.Trigger(ctx, event.OnPagesLoaded, event.GetPages, p)
		*list = p.Pages
		*current, *previous, *next = p.Current, p.Previous, p.Next
		return err
	})
	if err != nil {
		return err
	}

	a.metrics.RecordReindex(ctx, stats.Pages, stats.Duplicates)
	observability.LogReindex(a.logger, stats.Pages, stats.Duplicates, stats.Unknown)
	return nil
}

// OnTwigRegistration fires before_twig_register.
func (a *APIv0Plugin) OnTwigRegistration(ctx context.Context) error {
	return a.HandleEvent(ctx, event.OnTwigRegistration, &event.Params{})
}

// OnPageRendering fires before_render with the template name stripped of
// its extension, then restores the extension.
func (a *APIv0Plugin) OnPageRendering(ctx context.Context, renderer *template.Renderer, vars *map[string]any, templateName *string) error {
	name, err := template.RoundTrip(*templateName, func(base *string) error {
		p := &event.Params{
			Renderer:     *renderer,
			TemplateVars: *vars,
			TemplateName: *base,
		}
		err := a.dispatcher.Trigger(ctx, event.OnPageRendering, event.BeforeRender, p)
		*renderer = p.Renderer
		*vars = p.TemplateVars
		*base = p.TemplateName
		return err
	})
	*templateName = name
	return err
}

// OnPageRendered fires after_render.
func (a *APIv0Plugin) OnPageRendered(ctx context.Context, output *string) error {
	p := &event.Params{Output: *output}
	err := a.HandleEvent(ctx, event.OnPageRendered, p)
	*output = p.Output
	return err
}

func slot(p **page.Page) **page.Page {
	if p == nil {
		return new(*page.Page)
	}
	return p
}

package event_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/picocompat/pkg/picocompat/event"
	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

// contentPlugin records after_parse_content and content_parsed calls and
// appends its name to the content.
type contentPlugin struct {
	name string
	log  *[]string
	fail map[string]error
}

func (c *contentPlugin) Name() string { return c.name }

func (c *contentPlugin) AfterParseContent(content *string) error {
	*c.log = append(*c.log, c.name+":"+event.AfterParseContent)
	*content += "|" + c.name
	return c.fail[event.AfterParseContent]
}

func (c *contentPlugin) ContentParsed(content *string) error {
	*c.log = append(*c.log, c.name+":"+event.ContentParsed)
	*content += "|" + c.name
	return c.fail[event.ContentParsed]
}

// allPlugin implements the reshaped events.
type allPlugin struct {
	name     string
	renderer template.Renderer
}

func (a *allPlugin) Name() string { return a.name }

func (a *allPlugin) ConfigLoaded(config *map[string]any) error {
	(*config)["legacy"] = true
	return nil
}

func (a *allPlugin) GetPages(pages *[]*page.Page, current, previous, next **page.Page) error {
	*pages = append(*pages, page.New("added"))
	*previous = *current
	*current = nil
	return nil
}

func (a *allPlugin) BeforeRender(vars *map[string]any, renderer *template.Renderer, name *string) error {
	(*vars)["seen"] = *name
	*renderer = a.renderer
	*name = "custom"
	return nil
}

func (a *allPlugin) GetPageData(data *page.Page, meta map[string]any) error {
	data.Title = "from meta: " + meta["title"].(string)
	meta["title"] = "ignored"
	return nil
}

type stubRenderer struct{}

func (stubRenderer) Render(string, map[string]any) (string, error) { return "", nil }

// viewFunc adapts a function to plugins.View.
type viewFunc func(plugins.Revision) []plugins.Plugin

func (f viewFunc) PluginsOfRevision(rev plugins.Revision) []plugins.Plugin { return f(rev) }

func TestDefaultAliases(t *testing.T) {
	aliases := event.DefaultAliases()
	assert.Equal(t, 9, aliases.Len())

	legacy, ok := aliases.Lookup(event.OnContentParsed)
	require.True(t, ok)
	assert.Equal(t, []string{event.AfterParseContent, event.ContentParsed}, legacy)

	legacy[0] = "mutated"
	again, _ := aliases.Lookup(event.OnContentParsed)
	assert.Equal(t, event.AfterParseContent, again[0])

	_, ok = aliases.Lookup(event.OnPagesLoaded)
	assert.False(t, ok)

	assert.Contains(t, aliases.Canonicals(), event.OnMetaParsed)
}

func TestNewAliasTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string][]string
	}{
		{"empty entry", map[string][]string{"onX": {}}},
		{"empty canonical", map[string][]string{"": {event.FileMeta}}},
		{"unknown legacy", map[string][]string{"onX": {"made_up"}}},
		{"duplicate legacy", map[string][]string{"onX": {event.FileMeta, event.FileMeta}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := event.NewAliasTable(tt.entries)
			assert.ErrorIs(t, err, event.ErrInvalidAlias)
		})
	}
}

func TestDispatchOrder(t *testing.T) {
	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{name: "A", log: &log})
	set.MustAdd(plugins.Revision0, plugins.Func("NoHandlers"))
	set.MustAdd(plugins.Revision1, &contentPlugin{name: "C", log: &log})

	d := event.NewDispatcher(set)
	p := &event.Params{Content: "html"}

	require.NoError(t, d.DispatchCanonical(context.Background(), event.OnContentParsed, p))

	assert.Equal(t, []string{
		"A:after_parse_content",
		"C:after_parse_content",
		"A:content_parsed",
		"C:content_parsed",
	}, log)
	assert.Equal(t, "html|A|C|A|C", p.Content)
}

func TestDispatchWithoutAliasIsNoop(t *testing.T) {
	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{name: "A", log: &log})

	d := event.NewDispatcher(set)
	require.NoError(t, d.DispatchCanonical(context.Background(), event.OnPagesLoaded, &event.Params{}))
	require.NoError(t, d.DispatchCanonical(context.Background(), "onSomethingNew", nil))
	assert.Empty(t, log)
}

func TestDispatchErrorPropagatesUnchanged(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{
		name: "A",
		log:  &log,
		fail: map[string]error{event.AfterParseContent: boom},
	})
	set.MustAdd(plugins.Revision1, &contentPlugin{name: "C", log: &log})

	d := event.NewDispatcher(set)
	err := d.DispatchCanonical(context.Background(), event.OnContentParsed, &event.Params{})

	assert.Same(t, boom, err)
	assert.Equal(t, []string{"A:after_parse_content"}, log)
}

func TestDispatchSkipsUnsupportedRevisions(t *testing.T) {
	var log []string
	view := viewFunc(func(rev plugins.Revision) []plugins.Plugin {
		return []plugins.Plugin{&contentPlugin{name: "rev" + rev.String(), log: &log}}
	})

	d := event.NewDispatcher(view)
	require.NoError(t, d.Trigger(context.Background(), "", event.ContentParsed, &event.Params{}))

	assert.Equal(t, []string{"revv0:content_parsed", "revv1:content_parsed"}, log)
}

func TestDispatchRevisionUnion(t *testing.T) {
	var log []string
	pl := &contentPlugin{name: "Both", log: &log}
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, pl)
	set.MustAdd(plugins.Revision1, pl)

	d := event.NewDispatcher(set)
	require.NoError(t, d.Trigger(context.Background(), "", event.ContentParsed, &event.Params{}))
	assert.Equal(t, []string{"Both:content_parsed"}, log)
}

func TestTriggerValidation(t *testing.T) {
	d := event.NewDispatcher(plugins.NewSet())

	err := d.Trigger(context.Background(), "", "custom_event", &event.Params{})
	assert.ErrorIs(t, err, event.ErrUnknownLegacyEvent)

	err = d.Trigger(context.Background(), "", event.FileMeta, nil)
	assert.ErrorIs(t, err, event.ErrNilParams)

	err = d.DispatchCanonical(context.Background(), event.OnMetaParsed, nil)
	assert.ErrorIs(t, err, event.ErrNilParams)
}

func TestHandleCustomEventIsNoop(t *testing.T) {
	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{name: "A", log: &log})

	d := event.NewDispatcher(set)
	assert.NoError(t, d.HandleCustomEvent(context.Background(), event.ContentParsed, "x"))
	assert.Empty(t, log)
}

func TestCapabilities(t *testing.T) {
	caps := event.Capabilities(&contentPlugin{name: "A"})
	assert.Equal(t, []string{event.AfterParseContent, event.ContentParsed}, caps.Names())
	assert.True(t, caps.Has(event.ContentParsed))
	assert.False(t, caps.Has(event.FileMeta))

	assert.Empty(t, event.Capabilities(plugins.Func("none")))
	assert.Len(t, event.LegacyEvents(), 17)
	assert.True(t, event.IsLegacyEvent(event.GetPages))
}

func TestCapabilitiesCacheAndRefresh(t *testing.T) {
	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, plugins.Func("Swap"))

	d := event.NewDispatcher(set)
	require.NoError(t, d.Trigger(context.Background(), "", event.ContentParsed, &event.Params{}))

	set.MustAdd(plugins.Revision0, &contentPlugin{name: "Swap", log: &log})
	require.NoError(t, d.Trigger(context.Background(), "", event.ContentParsed, &event.Params{}))
	assert.Empty(t, log, "capabilities are cached by name")

	d.Refresh()
	require.NoError(t, d.Trigger(context.Background(), "", event.ContentParsed, &event.Params{}))
	assert.Equal(t, []string{"Swap:content_parsed"}, log)
}

func TestReshapedSlots(t *testing.T) {
	renderer := stubRenderer{}
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &allPlugin{name: "All", renderer: renderer})
	d := event.NewDispatcher(set)
	ctx := context.Background()

	t.Run("config_loaded", func(t *testing.T) {
		p := &event.Params{Config: map[string]any{}}
		require.NoError(t, d.DispatchCanonical(ctx, event.OnConfigLoaded, p))
		assert.Equal(t, true, p.Config["legacy"])
	})

	t.Run("get_pages", func(t *testing.T) {
		current := page.New("current")
		p := &event.Params{Pages: []*page.Page{page.New("a")}, Current: current}
		require.NoError(t, d.Trigger(ctx, event.OnPagesLoaded, event.GetPages, p))
		assert.Len(t, p.Pages, 2)
		assert.Nil(t, p.Current)
		assert.Same(t, current, p.Previous)
	})

	t.Run("before_render", func(t *testing.T) {
		p := &event.Params{TemplateVars: map[string]any{}, TemplateName: "index"}
		require.NoError(t, d.Trigger(ctx, event.OnPageRendering, event.BeforeRender, p))
		assert.Equal(t, "index", p.TemplateVars["seen"])
		assert.Equal(t, "custom", p.TemplateName)
		assert.Equal(t, renderer, p.Renderer)
	})

	t.Run("get_page_data", func(t *testing.T) {
		pg := page.New("u")
		pg.Meta["title"] = "Hello"
		p := &event.Params{Page: pg, PageMeta: pg.MetaCopy()}
		require.NoError(t, d.Trigger(ctx, event.OnSinglePageLoaded, event.GetPageData, p))
		assert.Equal(t, "from meta: Hello", pg.Title)
		assert.Equal(t, "Hello", pg.Meta["title"])
	})
}

func TestMiddlewareSeesInvocations(t *testing.T) {
	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{name: "A", log: &log})
	set.MustAdd(plugins.Revision1, &contentPlugin{name: "B", log: &log})

	var seen []event.Invocation
	var order []string
	record := func(tag string) event.MiddlewareFunc {
		return func(next event.InvokeFunc) event.InvokeFunc {
			return func(ctx context.Context, inv event.Invocation, p *event.Params) error {
				order = append(order, tag)
				if tag == "outer" {
					seen = append(seen, inv)
				}
				return next(ctx, inv, p)
			}
		}
	}

	d := event.NewDispatcher(set, event.WithMiddleware(record("outer"), record("inner")))
	require.NoError(t, d.DispatchCanonical(context.Background(), event.OnContentParsed, &event.Params{}))

	require.Len(t, seen, 4)
	assert.Equal(t, []string{"outer", "inner"}, order[:2])
	for _, inv := range seen {
		assert.Equal(t, seen[0].FiringID, inv.FiringID)
		assert.Equal(t, event.OnContentParsed, inv.Canonical)
	}
	assert.NotEmpty(t, seen[0].FiringID)
	assert.Equal(t, plugins.Revision0, seen[0].Revision)
	assert.Equal(t, plugins.Revision1, seen[1].Revision)
	assert.Equal(t, event.ContentParsed, seen[3].Legacy)
}

func TestChainMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(tag string) event.MiddlewareFunc {
		return func(next event.InvokeFunc) event.InvokeFunc {
			return func(ctx context.Context, inv event.Invocation, p *event.Params) error {
				order = append(order, tag)
				return next(ctx, inv, p)
			}
		}
	}
	base := func(context.Context, event.Invocation, *event.Params) error {
		order = append(order, "base")
		return nil
	}

	fn := event.ChainMiddleware(base, mw("1"), mw("2"))
	require.NoError(t, fn(context.Background(), event.Invocation{}, &event.Params{}))
	assert.Equal(t, []string{"1", "2", "base"}, order)
}

func TestDispatcherLogsHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var log []string
	set := plugins.NewSet()
	set.MustAdd(plugins.Revision0, &contentPlugin{
		name: "Broken",
		log:  &log,
		fail: map[string]error{event.ContentParsed: errors.New("toc exploded")},
	})

	d := event.NewDispatcher(set, event.WithLogger(logger))
	err := d.DispatchCanonical(context.Background(), event.OnContentParsed, &event.Params{})
	require.EqualError(t, err, "toc exploded")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"legacy handler failed"`))
	assert.True(t, strings.Contains(out, `"plugin":"Broken"`))
	assert.True(t, strings.Contains(out, `"msg":"dispatching legacy aliases"`))
}

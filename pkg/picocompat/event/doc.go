// Package event translates the host's canonical plugin events into the
// legacy events understood by API v0 plugins.
//
// # Alias Table
//
// Most canonical events map directly onto one or more legacy events and
// share the canonical parameters unchanged:
//
//	onConfigLoaded      -> config_loaded
//	onRequestUrl        -> request_url
//	onContentLoading    -> before_load_content
//	on404ContentLoading -> before_404_load_content
//	onMetaParsed        -> file_meta
//	onContentParsing    -> before_parse_content
//	onContentParsed     -> after_parse_content, content_parsed
//	onTwigRegistration  -> before_twig_register
//	onPageRendered      -> after_render
//
// The table is fixed. Events whose parameters must be reshaped
// (get_pages, before_render, ...) are fired by the compat plugin through
// Dispatcher.Trigger.
//
// # Handlers
//
// Legacy plugins opt into events by implementing capability interfaces:
//
//	type Toc struct{}
//
//	func (Toc) Name() string { return "Toc" }
//
//	func (Toc) ContentParsed(content *string) error {
//	    *content = buildToc(*content) + *content
//	    return nil
//	}
//
// A plugin without the interface for an event is skipped silently.
//
// # Dispatch
//
//	d := event.NewDispatcher(pluginSet, event.WithLogger(logger))
//	p := &event.Params{Content: html}
//	if err := d.DispatchCanonical(ctx, event.OnContentParsed, p); err != nil {
//	    return err // the handler's own error
//	}
//	html = p.Content
package event

// Package picocompat lets plugins written against the retired API v0 run
// unchanged on a host that speaks the current plugin API.
//
// The host registers an APIv0Plugin and forwards its canonical events to
// it. The plugin re-emits each one as the legacy events v0 plugins expect,
// reshaping parameters where the two APIs differ:
//
//   - get_pages works on a plain page list; the host's keyed collection is
//     rebuilt from whatever the legacy plugins leave behind.
//   - before_render sees template names without a file extension; the
//     extension is restored afterwards.
//   - after_load_content receives the file chosen by onRequestFile.
//
// Basic usage:
//
//	set := plugins.NewSet()
//	set.MustAdd(plugins.Revision0, legacyToc)
//
//	compat := picocompat.New(host, set, picocompat.WithLogger(logger))
//	if err := compat.OnContentParsed(ctx, &html); err != nil {
//	    return err
//	}
//
// Legacy handler errors are never wrapped. The error a host sees is the
// error the handler returned.
//
// # Subpackages
//
//   - event: alias table, parameter bundle, dispatcher
//   - page: pages, keyed collections, reindexing
//   - template: extension stripping and restoring
//   - plugins: plugin revisions and the registry view
//   - journal: invocation journal for deprecation tracking
//   - config, observability, registry: supporting infrastructure
package picocompat

package event

import (
	"fmt"
	"sort"
)

// AliasTable maps canonical events to the ordered legacy events they are
// re-emitted as. A table never changes after construction.
type AliasTable struct {
	entries map[string][]string
}

// NewAliasTable validates and copies entries. Every entry must be
// non-empty, name only known legacy events, and name each at most once.
func NewAliasTable(entries map[string][]string) (AliasTable, error) {
	t := AliasTable{entries: make(map[string][]string, len(entries))}
	for canonical, legacy := range entries {
		if canonical == "" {
			return AliasTable{}, fmt.Errorf("%w: empty canonical name", ErrInvalidAlias)
		}
		if len(legacy) == 0 {
			return AliasTable{}, fmt.Errorf("%w: %s has no legacy events", ErrInvalidAlias, canonical)
		}
		seen := make(map[string]bool, len(legacy))
		for _, name := range legacy {
			if _, ok := legacySpecs[name]; !ok {
				return AliasTable{}, fmt.Errorf("%w: %s -> unknown legacy event %q", ErrInvalidAlias, canonical, name)
			}
			if seen[name] {
				return AliasTable{}, fmt.Errorf("%w: %s lists %q twice", ErrInvalidAlias, canonical, name)
			}
			seen[name] = true
		}
		t.entries[canonical] = append([]string(nil), legacy...)
	}
	return t, nil
}

// Lookup returns the legacy events for a canonical event, in broadcast order.
func (t AliasTable) Lookup(canonical string) ([]string, bool) {
	legacy, ok := t.entries[canonical]
	if !ok {
		return nil, false
	}
	return append([]string(nil), legacy...), true
}

// Canonicals returns the aliased canonical events, sorted.
func (t AliasTable) Canonicals() []string {
	out := make([]string, 0, len(t.entries))
	for c := range t.entries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (t AliasTable) Len() int {
	return len(t.entries)
}

// defaultAliases is the API v0 table. Events that need reshaping
// (plugins_loaded, after_load_content, get_pages, before_render, ...) are
// emitted by the compat plugin itself and are not listed here.
var defaultAliases = mustAliasTable(map[string][]string{
	OnConfigLoaded:      {ConfigLoaded},
	OnRequestURL:        {RequestURL},
	OnContentLoading:    {BeforeLoadContent},
	On404ContentLoading: {Before404LoadContent},
	OnMetaParsed:        {FileMeta},
	OnContentParsing:    {BeforeParseContent},
	OnContentParsed:     {AfterParseContent, ContentParsed},
	OnTwigRegistration:  {BeforeTwigRegister},
	OnPageRendered:      {AfterRender},
})

// DefaultAliases returns the fixed API v0 alias table.
func DefaultAliases() AliasTable {
	return defaultAliases
}

func mustAliasTable(entries map[string][]string) AliasTable {
	t, err := NewAliasTable(entries)
	if err != nil {
		panic(fmt.Sprintf("invalid alias table: %v", err))
	}
	return t
}

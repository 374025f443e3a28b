package page

import (
	"strconv"
	"strings"
)

const (
	// UnknownKey indexes pages whose URL lies outside the base URL.
	UnknownKey = "~unknown"

	// DuplicateSuffix is followed by a counter starting at 1.
	DuplicateSuffix = "~dup"
)

// KeyRules are the host settings used to derive a key from a page URL.
// Both are read-only for the duration of a reindex.
type KeyRules struct {
	BaseURL      string
	URLRewriting bool
}

// DeriveKey returns the base key for a page: its id when set, otherwise
// the URL relative to the base URL. Foreign URLs yield UnknownKey. With URL
// rewriting disabled, a leading "?" of the relative URL is dropped.
func DeriveKey(p *Page, rules KeyRules) (string, error) {
	if p.ID != nil {
		return *p.ID, nil
	}
	if p.URL == "" {
		return "", ErrUnderivableKey
	}
	rest, ok := strings.CutPrefix(p.URL, rules.BaseURL)
	if !ok {
		return UnknownKey, nil
	}
	if !rules.URLRewriting {
		rest = strings.TrimPrefix(rest, "?")
	}
	return rest, nil
}

// Stats describes one rebuild.
type Stats struct {
	Pages      int
	Duplicates int
	Unknown    int
}

// Rebuild keys a page list. Every page's base key is stored back as its
// id; collisions get the first free "~dupN" suffix. No page is dropped.
func Rebuild(pages []*Page, rules KeyRules) (*Collection, Stats, error) {
	out := NewCollection()
	var stats Stats

	for i, p := range pages {
		if p == nil {
			return nil, Stats{}, &KeyError{Index: i, Err: ErrNilPage}
		}
		base, err := DeriveKey(p, rules)
		if err != nil {
			return nil, Stats{}, &KeyError{Index: i, Err: err}
		}
		p.SetID(base)
		if base == UnknownKey {
			stats.Unknown++
		}

		key := base
		for n := 1; out.Has(key); n++ {
			key = base + DuplicateSuffix + strconv.Itoa(n)
		}
		if key != base {
			stats.Duplicates++
		}
		out.Set(key, p)
	}

	stats.Pages = out.Len()
	return out, stats, nil
}

// Reindex runs one legacy round trip over a collection: the pages are
// flattened into a list, handed to fn (which may add, remove, reorder or
// modify pages) and keyed again. On success the contents of c are
// replaced; on error c keeps its keys and fn's error is returned as is.
func Reindex(c *Collection, rules KeyRules, fn func(pages *[]*Page) error) (Stats, error) {
	plain := c.Pages()

	if fn != nil {
		if err := fn(&plain); err != nil {
			return Stats{}, err
		}
	}

	rebuilt, stats, err := Rebuild(plain, rules)
	if err != nil {
		return Stats{}, err
	}
	c.replace(rebuilt)
	return stats, nil
}

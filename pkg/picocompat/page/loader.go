package page

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOptions configures LoadDir.
type LoadOptions struct {
	// Ext is the content file extension, e.g. ".md".
	Ext string
	// Rules derive page URLs the way the host does.
	Rules KeyRules
	// AssignIDs sets each page's id to its content path. Leave false to
	// get pages shaped like API v0 pages, which carry no id.
	AssignIDs bool
}

// LoadDir reads every content file below dir into a collection keyed by
// content path ("index", "sub/page"), in lexical path order.
func LoadDir(dir string, opts LoadOptions) (*Collection, error) {
	if opts.Ext == "" {
		opts.Ext = ".md"
	}

	out := NewCollection()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, opts.Ext) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(filepath.ToSlash(rel), opts.Ext)

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read page %s: %w", id, err)
		}
		p, err := parse(raw)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", id, err)
		}

		p.URL = URLFor(id, opts.Rules)
		if opts.AssignIDs {
			p.SetID(id)
		}
		out.Set(id, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	return out, nil
}

// URLFor returns the URL the host serves a content path under. A trailing
// "index" element is dropped; without URL rewriting the path becomes a
// query string.
func URLFor(id string, rules KeyRules) string {
	path := id
	switch {
	case path == "index":
		path = ""
	case strings.HasSuffix(path, "/index"):
		path = strings.TrimSuffix(path, "index")
	}
	if path == "" || rules.URLRewriting {
		return rules.BaseURL + path
	}
	return rules.BaseURL + "?" + path
}

var frontMatterFence = []byte("---")

// parse splits YAML front matter from the page body.
func parse(raw []byte) (*Page, error) {
	p := New("")

	body := raw
	if bytes.HasPrefix(raw, frontMatterFence) {
		rest := raw[len(frontMatterFence):]
		if end := bytes.Index(rest, []byte("\n---")); end >= 0 {
			meta := map[string]any{}
			if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
				return nil, err
			}
			for k, v := range meta {
				p.Meta[strings.ToLower(k)] = v
			}
			body = bytes.TrimLeft(rest[end+len("\n---"):], "\r\n")
		}
	}

	if title, ok := p.Meta["title"].(string); ok {
		p.Title = title
	}
	p.Content = string(body)
	p.Fields["raw_content"] = string(raw)
	return p, nil
}

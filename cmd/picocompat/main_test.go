package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/picocompat/pkg/picocompat/journal"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAliasesCmd(t *testing.T) {
	out, err := run(t, "aliases")
	require.NoError(t, err)
	assert.Contains(t, out, "onContentParsed")
	assert.Contains(t, out, "after_parse_content, content_parsed")

	out, err = run(t, "aliases", "--json")
	require.NoError(t, err)
	var rows []struct {
		Canonical string   `json:"canonical"`
		Legacy    []string `json:"legacy"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 9)
}

func TestTemplateCmd(t *testing.T) {
	out, err := run(t, "template", "--json", "theme/index.twig")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "theme/index", got["legacy"])
	assert.Equal(t, "twig", got["ext"])
	assert.Equal(t, "theme/index.twig", got["restored"])
}

func TestReindexCmd(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(content, "index.md"), "---\nTitle: Home\n---\nWelcome")
	writeFile(t, filepath.Join(content, "about.md"), "About")
	writeFile(t, filepath.Join(content, "notes.txt"), "ignored")

	cfgPath := filepath.Join(dir, "config.yml")
	writeFile(t, cfgPath, "base_url: http://example.com/\nrewrite_url: false\n")

	dbPath := filepath.Join(dir, "journal.db")
	out, err := run(t, "reindex", "--config", cfgPath, "--journal", dbPath, "--json", content)
	require.NoError(t, err)

	var rows []struct {
		Key   string `json:"key"`
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "about", rows[0].Key)
	assert.Equal(t, "http://example.com/?about", rows[0].URL)
	assert.Equal(t, "", rows[1].Key)
	assert.Equal(t, "Home", rows[1].Title)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestReindexCmd_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(content, "blog", "index.md"), "Blog")
	writeFile(t, filepath.Join(dir, "config", "config.yml"), "base_url: http://example.com/\nrewrite_url: true\n")

	out, err := run(t, "reindex", "--config", filepath.Join(dir, "config"), content)
	require.NoError(t, err)
	assert.Equal(t, "blog/\thttp://example.com/blog/\n", out)
}

func TestReindexCmd_MissingConfig(t *testing.T) {
	_, err := run(t, "reindex", "--config", "/nonexistent/config.yml", t.TempDir())
	assert.Error(t, err)
}

func TestJournalCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(journal.Entry{ID: "1", Plugin: "Toc", Legacy: "content_parsed"}))
	require.NoError(t, store.Record(journal.Entry{ID: "2", Plugin: "Menu", Legacy: "get_pages", Err: "boom"}))
	require.NoError(t, store.Close())

	out, err := run(t, "journal", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Toc")
	assert.Contains(t, out, "errors=1")

	out, err = run(t, "journal", "--db", dbPath, "--plugin", "Toc", "--json")
	require.NoError(t, err)
	var usage []journal.Usage
	require.NoError(t, json.Unmarshal([]byte(out), &usage))
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].Calls)
}

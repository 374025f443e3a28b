// Command picocompat inspects the API v0 compatibility layer: its alias
// table, how a content directory is keyed after get_pages, how template
// names are split, and the invocation journal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/picocompat/pkg/picocompat"
	"github.com/randalmurphal/picocompat/pkg/picocompat/config"
	"github.com/randalmurphal/picocompat/pkg/picocompat/event"
	"github.com/randalmurphal/picocompat/pkg/picocompat/journal"
	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

var version = "dev"

// cliOptions holds the persistent flags.
type cliOptions struct {
	configPath string
	jsonOutput bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:          "picocompat",
		Short:        "Inspect the Pico API v0 compatibility layer",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Pico config file (.yml, .json) or config directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log dispatch details to stderr")

	rootCmd.AddCommand(
		newAliasesCmd(opts),
		newReindexCmd(opts),
		newTemplateCmd(opts),
		newJournalCmd(opts),
	)
	return rootCmd
}

func newAliasesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "Print the canonical to legacy event alias table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := event.DefaultAliases()

			type row struct {
				Canonical string   `json:"canonical"`
				Legacy    []string `json:"legacy"`
			}
			rows := make([]row, 0, table.Len())
			for _, canonical := range table.Canonicals() {
				legacy, _ := table.Lookup(canonical)
				rows = append(rows, row{Canonical: canonical, Legacy: legacy})
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, rows)
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%-20s -> %s\n", r.Canonical, strings.Join(r.Legacy, ", "))
			}
			return nil
		},
	}
}

func newReindexCmd(opts *cliOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "reindex <content-dir>",
		Short: "Load a content directory and key it the way get_pages would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			host := picocompat.StaticHost{
				Base:        cfg.BaseURL(),
				RewritingOn: cfg.URLRewriting(),
			}
			rules := page.KeyRules{BaseURL: host.Base, URLRewriting: host.RewritingOn}

			pages, err := page.LoadDir(args[0], page.LoadOptions{Ext: cfg.ContentExt(), Rules: rules})
			if err != nil {
				return err
			}

			compatOpts := []picocompat.Option{
				picocompat.WithConstants(picocompat.NewConstants()),
				picocompat.WithLogger(newLogger(opts, cmd.ErrOrStderr())),
			}
			if journalPath != "" {
				store, err := journal.NewSQLiteStore(journalPath)
				if err != nil {
					return err
				}
				defer store.Close()
				compatOpts = append(compatOpts, picocompat.WithDispatcherOptions(
					event.WithMiddleware(journal.Middleware(store, newLogger(opts, cmd.ErrOrStderr()))),
				))
			}

			compat := picocompat.New(host, plugins.NewSet(), compatOpts...)
			if err := compat.OnPagesLoaded(context.Background(), pages, nil, nil, nil); err != nil {
				return err
			}

			type row struct {
				Key   string `json:"key"`
				URL   string `json:"url"`
				Title string `json:"title,omitempty"`
			}
			rows := make([]row, 0, pages.Len())
			for _, key := range pages.Keys() {
				p, _ := pages.Get(key)
				title, _ := p.Meta["title"].(string)
				rows = append(rows, row{Key: key, URL: p.URL, Title: title})
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, rows)
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%s\t%s\n", r.Key, r.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "Record legacy invocations to this SQLite journal")
	return cmd
}

func newTemplateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "template <name>",
		Short: "Show how a template name is split for before_render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := template.Split(args[0])

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, map[string]string{
					"name":     args[0],
					"legacy":   ref.Base,
					"ext":      ref.Ext,
					"restored": ref.Join(ref.Base),
				})
			}
			fmt.Fprintf(out, "legacy name: %s\nextension:   %s\nrestored:    %s\n",
				ref.Base, ref.Ext, ref.Join(ref.Base))
			return nil
		},
	}
}

func newJournalCmd(opts *cliOptions) *cobra.Command {
	var dbPath string
	var plugin string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Summarize legacy handler invocations recorded in a journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := journal.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			usage, err := store.Summary()
			if err != nil {
				return err
			}
			if plugin != "" {
				filtered := usage[:0]
				for _, u := range usage {
					if u.Plugin == plugin {
						filtered = append(filtered, u)
					}
				}
				usage = filtered
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, usage)
			}
			if len(usage) == 0 {
				fmt.Fprintln(out, "no legacy invocations recorded")
				return nil
			}
			for _, u := range usage {
				fmt.Fprintf(out, "%-24s %-24s calls=%d errors=%d total=%s\n",
					u.Plugin, u.Legacy, u.Calls, u.Errors, u.TotalDuration)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "picocompat-journal.db", "Journal database path")
	cmd.Flags().StringVar(&plugin, "plugin", "", "Only show this plugin")
	return cmd
}

// loadConfig reads a Pico config file or config directory. An empty path
// yields an empty config.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.New(nil), nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return config.FromDir(path)
	}
	return config.FromFile(path)
}

func newLogger(opts *cliOptions, w io.Writer) *slog.Logger {
	if !opts.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package main is the entry point for the SnipForge engine shell.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dshills/snipforge/internal/clipboard"
	"github.com/dshills/snipforge/internal/config"
	"github.com/dshills/snipforge/internal/engine"
	"github.com/dshills/snipforge/internal/match"
	"github.com/dshills/snipforge/internal/plugin/lua"
	"github.com/dshills/snipforge/internal/snippet"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath  string
	libraryPath string
	list        bool
	expand      string
	fields      map[string]string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.libraryPath != "" {
		cfg.Library.Path = opts.libraryPath
	}

	store := snippet.NewStore(cfg.Library.Path)
	snippets, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading snippet library: %v\n", err)
		return 1
	}

	switch {
	case opts.list:
		listSnippets(snippets)
		return 0
	case opts.expand != "":
		return expandOnce(cfg, snippets, opts.expand, opts.fields)
	default:
		return runDemo(cfg, store, snippets)
	}
}

func parseFlags() options {
	opts := options{fields: make(map[string]string)}
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.libraryPath, "library", "", "Snippet library path (overrides config)")
	flag.BoolVar(&opts.list, "list", false, "List snippets and exit")
	flag.StringVar(&opts.expand, "expand", "", "Expand the snippet with this trigger and exit")
	flag.Func("field", "Field value as name=value (repeatable, with -expand)", func(s string) error {
		name, value, found := strings.Cut(s, "=")
		if !found || name == "" {
			return fmt.Errorf("expected name=value, got %q", s)
		}
		opts.fields[name] = value
		return nil
	})
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "SnipForge - text expansion engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: snipforge [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snipforge                          Interactive terminal demo\n")
		fmt.Fprintf(os.Stderr, "  snipforge -list                    Show the snippet library\n")
		fmt.Fprintf(os.Stderr, "  snipforge -expand ;sig -field name=Sam\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("SnipForge %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "snipforge.toml"
	}
	return dir + "/snipforge/config.toml"
}

// newEngine assembles an engine from configuration.
func newEngine(cfg config.Config, snippets []snippet.Snippet) (*engine.Engine, error) {
	settings := match.Settings{
		CaseSensitive:    cfg.Match.CaseSensitive,
		RequireDelimiter: cfg.Match.RequireDelimiter,
		RequirePrefix:    cfg.Match.RequirePrefix,
		PrefixChar:       cfg.Match.PrefixRune(),
	}

	var hooks *lua.Hooks
	if cfg.Hooks.Script != "" {
		var err error
		hooks, err = lua.Load(cfg.Hooks.Script)
		if err != nil {
			return nil, fmt.Errorf("loading hooks: %w", err)
		}
	}

	e := engine.New(engine.Options{
		Settings:       settings,
		Clipboard:      clipboard.System{},
		Hooks:          hooks,
		DateFormat:     cfg.Formats.Date,
		TimeFormat:     cfg.Formats.Time,
		DateTimeFormat: cfg.Formats.DateTime,
		OnError:        func(err error) { log.Printf("engine: %v", err) },
	})
	e.UpdateSnippets(snippets)
	return e, nil
}

// expandOnce renders one snippet to stdout, for scripting and debugging.
func expandOnce(cfg config.Config, snippets []snippet.Snippet, trigger string, fields map[string]string) int {
	e, err := newEngine(cfg, snippets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	e.Start()
	defer e.Close()

	m, ok := e.MatchFor(trigger)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no snippet with trigger %q\n", trigger)
		return 1
	}

	out, err := e.Expand(m, fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(out.String())
	if offset, ok := out.CaretOffset(); ok {
		fmt.Fprintf(os.Stderr, "caret: %d characters back\n", offset)
	}
	return 0
}

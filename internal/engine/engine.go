package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/snipforge/internal/clipboard"
	"github.com/dshills/snipforge/internal/input/key"
	"github.com/dshills/snipforge/internal/match"
	"github.com/dshills/snipforge/internal/plugin/lua"
	"github.com/dshills/snipforge/internal/snippet"
	"github.com/dshills/snipforge/internal/template"
	"github.com/dshills/snipforge/internal/template/parse"
	"github.com/dshills/snipforge/internal/template/render"
)

// ErrEngineClosed is returned when using a closed engine.
var ErrEngineClosed = errors.New("engine is closed")

// Match is one detected trigger, handed from the match goroutine to the
// shell.
type Match struct {
	// Snippet is the matched snippet.
	Snippet snippet.Snippet

	// Template is the snippet's parsed content, ready for field
	// collection and Expand.
	Template template.Parsed

	// TypedLen is how many characters the shell erases before pasting.
	TypedLen int

	// At is when the match fired.
	At time.Time
}

// Options configures an Engine.
type Options struct {
	// Settings are the initial match settings.
	Settings match.Settings

	// Clipboard provides clipboard snapshots at expansion time.
	// Nil means expansions see an empty clipboard.
	Clipboard clipboard.Provider

	// Hooks are optional Lua expansion hooks.
	Hooks *lua.Hooks

	// DateFormat, TimeFormat, and DateTimeFormat are Go reference-time
	// layouts for date and time markers.
	DateFormat     string
	TimeFormat     string
	DateTimeFormat string

	// MaxDepth bounds nested snippet expansion; 0 uses the renderer
	// default.
	MaxDepth int

	// RichTables renders table markers as HTML embeds.
	RichTables bool

	// QueueSize is the match channel capacity. Matches beyond it are
	// dropped rather than blocking the match goroutine.
	QueueSize int

	// OnError receives background failures (dropped matches, hook
	// errors). Nil discards them.
	OnError func(error)
}

// library is the atomically swapped parsed snippet set.
type library struct {
	snippets []snippet.Snippet

	// byTrigger resolves snippet references. First registration wins for
	// duplicate triggers, mirroring the matcher.
	byTrigger map[string]template.Parsed
}

// Engine is the assembled expansion engine.
type Engine struct {
	matcher *match.Matcher
	opts    Options

	lib atomic.Pointer[library]

	events  chan key.Event
	matches chan Match

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
}

// New creates an engine. Call Start to begin consuming key events.
func New(opts Options) *Engine {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.OnError == nil {
		opts.OnError = func(error) {}
	}

	e := &Engine{
		matcher: match.NewMatcher(opts.Settings),
		opts:    opts,
		events:  make(chan key.Event, 256),
		matches: make(chan Match, opts.QueueSize),
		done:    make(chan struct{}),
	}
	e.lib.Store(&library{byTrigger: map[string]template.Parsed{}})
	return e
}

// Start launches the match goroutine.
func (e *Engine) Start() {
	e.wg.Add(1)
	go e.loop()
}

// Events is the channel the key-event source feeds.
func (e *Engine) Events() chan<- key.Event {
	return e.events
}

// Matches delivers detected triggers to the shell.
func (e *Engine) Matches() <-chan Match {
	return e.matches
}

// UpdateSnippets swaps in a new snippet set. Content is parsed once here so
// the match path never parses.
func (e *Engine) UpdateSnippets(snippets []snippet.Snippet) {
	byTrigger := make(map[string]template.Parsed, len(snippets))
	for _, sn := range snippets {
		if _, exists := byTrigger[sn.Trigger]; !exists {
			byTrigger[sn.Trigger] = parse.Parse(sn.Content)
		}
	}
	e.lib.Store(&library{snippets: snippets, byTrigger: byTrigger})
	e.matcher.UpdateSnippets(snippets)
}

// UpdateSettings swaps the match settings.
func (e *Engine) UpdateSettings(settings match.Settings) {
	e.matcher.UpdateSettings(settings)
}

// Snippets returns the current snippet set.
func (e *Engine) Snippets() []snippet.Snippet {
	return e.lib.Load().snippets
}

// loop drains key events on the engine's own goroutine. It must never
// block: full match queues drop the match and report, because stalling here
// would stall keystroke capture.
func (e *Engine) loop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case ev := <-e.events:
			res, ok := e.matcher.OnKeyEvent(ev)
			if !ok {
				continue
			}
			e.deliver(res)
		}
	}
}

// deliver hands a match to the shell, consulting hooks first.
func (e *Engine) deliver(res match.Result) {
	if e.opts.Hooks != nil {
		allow, err := e.opts.Hooks.OnMatch(res.Snippet.Trigger)
		if err != nil {
			e.opts.OnError(err)
		}
		if !allow {
			return
		}
	}

	m := Match{
		Snippet:  res.Snippet,
		Template: e.parsed(res.Snippet),
		TypedLen: res.TypedLen,
		At:       time.Now(),
	}
	select {
	case e.matches <- m:
	default:
		e.opts.OnError(errors.New("match queue full, dropping match for " + res.Snippet.Trigger))
	}
}

// parsed returns the cached parse of a snippet's content.
func (e *Engine) parsed(sn snippet.Snippet) template.Parsed {
	if pt, ok := e.lib.Load().byTrigger[sn.Trigger]; ok {
		return pt
	}
	return parse.Parse(sn.Content)
}

// MatchFor builds a Match for a trigger without going through the key
// stream, for shells that expand on demand. The first registered snippet
// with the trigger wins, as in live matching.
func (e *Engine) MatchFor(trigger string) (Match, bool) {
	lib := e.lib.Load()
	for _, sn := range lib.snippets {
		if sn.Trigger == trigger {
			return Match{
				Snippet:  sn,
				Template: e.parsed(sn),
				TypedLen: len([]rune(trigger)),
				At:       time.Now(),
			}, true
		}
	}
	return Match{}, false
}

// Expand renders a matched snippet with the collected field values.
// Safe to call from any goroutine; each call builds its own render context.
func (e *Engine) Expand(m Match, fields map[string]string) (render.Output, error) {
	if e.closed.Load() {
		return render.Output{}, ErrEngineClosed
	}

	var snap clipboard.Snapshot
	if e.opts.Clipboard != nil {
		snap = e.opts.Clipboard.Snapshot()
	}

	lib := e.lib.Load()
	ctx := render.Context{
		Now:            time.Now(),
		DateFormat:     e.opts.DateFormat,
		TimeFormat:     e.opts.TimeFormat,
		DateTimeFormat: e.opts.DateTimeFormat,
		Clipboard:      snap,
		MaxDepth:       e.opts.MaxDepth,
		RichTables:     e.opts.RichTables,
		Resolve: func(trigger string) (template.Parsed, bool) {
			pt, ok := lib.byTrigger[trigger]
			return pt, ok
		},
	}

	out, err := render.Render(m.Template, fields, ctx)
	if e.opts.Hooks != nil {
		if hookErr := e.opts.Hooks.OnExpand(m.Snippet.Trigger, out.Text()); hookErr != nil {
			e.opts.OnError(hookErr)
		}
	}
	return out, err
}

// Close stops the match goroutine. Pending matches already delivered to the
// channel remain readable.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
		e.wg.Wait()
	})
}

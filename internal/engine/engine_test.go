package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/snipforge/internal/clipboard"
	"github.com/dshills/snipforge/internal/input/key"
	"github.com/dshills/snipforge/internal/match"
	"github.com/dshills/snipforge/internal/snippet"
)

func startEngine(t *testing.T, opts Options, snippets ...snippet.Snippet) *Engine {
	t.Helper()
	e := New(opts)
	e.UpdateSnippets(snippets)
	e.Start()
	t.Cleanup(e.Close)
	return e
}

func feed(e *Engine, text string) {
	for _, r := range text {
		if r == ' ' {
			e.Events() <- key.NewSpecialEvent(key.KeySpace, key.ModNone)
			continue
		}
		e.Events() <- key.NewRuneEvent(r, key.ModNone)
	}
}

func waitMatch(t *testing.T, e *Engine) Match {
	t.Helper()
	select {
	case m := <-e.Matches():
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a match")
		return Match{}
	}
}

func TestEngineMatchAndExpand(t *testing.T) {
	e := startEngine(t, Options{Settings: match.DefaultSettings()},
		snippet.New(";hi", "Hi {{name}}!"))

	feed(e, "type ;hi")
	m := waitMatch(t, e)
	if m.Snippet.Trigger != ";hi" {
		t.Fatalf("matched %q, want ;hi", m.Snippet.Trigger)
	}
	if m.TypedLen != 3 {
		t.Errorf("TypedLen = %d, want 3", m.TypedLen)
	}

	names := m.Template.FieldNames()
	if len(names) != 1 || names[0] != "name" {
		t.Fatalf("FieldNames() = %v, want [name]", names)
	}

	out, err := e.Expand(m, map[string]string{"name": "Sam"})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got := out.Text(); got != "Hi Sam!" {
		t.Errorf("Expand() = %q, want %q", got, "Hi Sam!")
	}
}

func TestEngineNestedSnippets(t *testing.T) {
	e := startEngine(t, Options{Settings: match.DefaultSettings()},
		snippet.New(";outer", "before {{snippet:;inner}} after"),
		snippet.New(";inner", "INNER"),
	)

	feed(e, ";outer")
	m := waitMatch(t, e)
	out, err := e.Expand(m, nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got := out.Text(); got != "before INNER after" {
		t.Errorf("Expand() = %q", got)
	}
}

func TestEngineClipboardSnapshot(t *testing.T) {
	e := startEngine(t, Options{
		Settings:  match.DefaultSettings(),
		Clipboard: clipboard.Static{Snap: clipboard.TextSnapshot("copied")},
	}, snippet.New(";p", "<{{clipboard}}>"))

	feed(e, ";p")
	out, err := e.Expand(waitMatch(t, e), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Text(); got != "<copied>" {
		t.Errorf("Expand() = %q", got)
	}
}

func TestEngineSnippetSwapWhileRunning(t *testing.T) {
	e := startEngine(t, Options{Settings: match.DefaultSettings()},
		snippet.New(";old", "old"))

	e.UpdateSnippets([]snippet.Snippet{snippet.New(";new", "new")})

	feed(e, ";old ;new")
	m := waitMatch(t, e)
	if m.Snippet.Trigger != ";new" {
		t.Errorf("matched %q, want ;new after swap", m.Snippet.Trigger)
	}
}

func TestEngineSettingsSwapWhileRunning(t *testing.T) {
	e := startEngine(t, Options{Settings: match.DefaultSettings()},
		snippet.New("sig", "signature"))

	s := match.DefaultSettings()
	s.RequirePrefix = true
	s.PrefixChar = ';'
	e.UpdateSettings(s)

	feed(e, "sig ;sig")
	m := waitMatch(t, e)
	if m.TypedLen != 4 {
		t.Errorf("TypedLen = %d, want 4 (prefixed form only)", m.TypedLen)
	}
}

func TestEngineDuplicateTriggerFirstWins(t *testing.T) {
	first := snippet.New(";dup", "first")
	second := snippet.New(";dup", "second")
	e := startEngine(t, Options{Settings: match.DefaultSettings()}, first, second)

	feed(e, ";dup")
	m := waitMatch(t, e)
	out, err := e.Expand(m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Text(); got != "first" {
		t.Errorf("Expand() = %q, want the first registration", got)
	}
}

func TestEngineExpandAfterClose(t *testing.T) {
	e := New(Options{Settings: match.DefaultSettings()})
	e.Start()
	e.Close()
	if _, err := e.Expand(Match{}, nil); err != ErrEngineClosed {
		t.Errorf("Expand() after Close error = %v, want ErrEngineClosed", err)
	}
}

func TestEngineMatchQueueDoesNotBlock(t *testing.T) {
	var errCount int
	errs := make(chan error, 64)
	e := startEngine(t, Options{
		Settings:  match.DefaultSettings(),
		QueueSize: 1,
		OnError:   func(err error) { errs <- err },
	}, snippet.New(";x", "x"))

	// Fire several matches without draining the queue; the engine must
	// keep consuming events and report drops instead of stalling.
	for i := 0; i < 5; i++ {
		feed(e, ";x ")
	}

	deadline := time.After(5 * time.Second)
	for errCount == 0 {
		select {
		case err := <-errs:
			if !strings.Contains(err.Error(), "dropping match") {
				t.Fatalf("unexpected error: %v", err)
			}
			errCount++
		case <-deadline:
			t.Fatal("timed out waiting for a dropped-match report")
		}
	}
}

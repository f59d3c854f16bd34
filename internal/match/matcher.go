package match

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/snipforge/internal/input/key"
	"github.com/dshills/snipforge/internal/snippet"
)

// Result describes a successful trigger match.
type Result struct {
	// Snippet is the matched snippet.
	Snippet snippet.Snippet

	// TypedLen is the number of characters of trigger text the user typed
	// (prefix included). The caller erases exactly this many characters
	// before pasting the expansion.
	TypedLen int
}

// matchState is the atomically swapped configuration half of the matcher.
type matchState struct {
	settings Settings
	snippets []snippet.Snippet
}

// Matcher detects registered triggers in a stream of key events.
//
// OnKeyEvent must be called from a single goroutine (the matcher's owner);
// UpdateSnippets and UpdateSettings may be called from any goroutine and
// take effect atomically on the next event.
type Matcher struct {
	state atomic.Pointer[matchState]

	// swapMu serializes read-modify-write swaps of state.
	swapMu sync.Mutex

	// Typing state, owned by the event goroutine.
	buf       Buffer
	shiftDown bool
	capsLock  bool
}

// NewMatcher creates a matcher with the given settings and no snippets.
func NewMatcher(settings Settings) *Matcher {
	m := &Matcher{}
	m.state.Store(&matchState{settings: settings})
	return m
}

// UpdateSnippets replaces the registered snippet set. Snippets that can
// never match (empty or whitespace-containing triggers) are dropped.
func (m *Matcher) UpdateSnippets(snippets []snippet.Snippet) {
	valid := make([]snippet.Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if sn.Valid() {
			valid = append(valid, sn)
		}
	}

	m.swapMu.Lock()
	defer m.swapMu.Unlock()
	cur := m.state.Load()
	m.state.Store(&matchState{settings: cur.settings, snippets: valid})
}

// UpdateSettings replaces the match settings as a whole.
func (m *Matcher) UpdateSettings(settings Settings) {
	m.swapMu.Lock()
	defer m.swapMu.Unlock()
	cur := m.state.Load()
	m.state.Store(&matchState{settings: settings, snippets: cur.snippets})
}

// Settings returns the current settings.
func (m *Matcher) Settings() Settings {
	return m.state.Load().settings
}

// BufferText returns the current trigger buffer contents. Test and
// diagnostic use only; it must be called from the event goroutine.
func (m *Matcher) BufferText() string {
	return m.buf.String()
}

// OnKeyEvent feeds one key event through the matcher. It returns the match
// result and true when the event completed a registered trigger. Events that
// do not resolve to a character are no-ops.
func (m *Matcher) OnKeyEvent(ev key.Event) (Result, bool) {
	if ev.Kind == key.KindUp {
		if ev.Key == key.KeyShift {
			m.shiftDown = false
		}
		return Result{}, false
	}

	switch {
	case ev.Key == key.KeyShift:
		m.shiftDown = true
		return Result{}, false

	case ev.Key == key.KeyCapsLock:
		m.capsLock = !m.capsLock
		return Result{}, false

	case ev.Key.IsWordBreak():
		// Word breaks foreclose whitespace-terminated triggers on purpose:
		// the buffer clears before any match check could run.
		m.buf.Clear()
		return Result{}, false

	case ev.Key == key.KeyBackspace:
		m.buf.Backspace()
		return Result{}, false

	case ev.IsPrintable():
		if ev.Modifiers.HasCtrl() || ev.Modifiers.HasAlt() || ev.Modifiers.HasMeta() {
			// Shortcut chords do not produce text.
			return Result{}, false
		}
		shift := m.shiftDown || ev.Modifiers.HasShift()
		m.buf.Append(key.ResolveRune(ev.Rune, shift, m.capsLock))
		return m.check()
	}

	return Result{}, false
}

// check runs the match check against the current buffer tail.
func (m *Matcher) check() (Result, bool) {
	st := m.state.Load()
	if len(st.snippets) == 0 || m.buf.Len() == 0 {
		return Result{}, false
	}

	buffer := m.buf.Runes()
	folded := buffer
	if !st.settings.CaseSensitive {
		folded = []rune(strings.ToLower(string(buffer)))
	}

	for _, sn := range st.snippets {
		full := st.settings.fullTrigger(sn.Trigger)
		typedLen := len([]rune(full))
		if !st.settings.CaseSensitive {
			full = strings.ToLower(full)
		}
		if !endsWith(folded, []rune(full)) {
			continue
		}
		if st.settings.RequireDelimiter {
			start := len(folded) - typedLen
			if start > 0 && !isDelimiter(buffer[start-1]) {
				continue
			}
		}
		m.buf.Clear()
		return Result{Snippet: sn, TypedLen: typedLen}, true
	}
	return Result{}, false
}

// endsWith reports whether buf ends with suffix.
func endsWith(buf, suffix []rune) bool {
	if len(suffix) == 0 || len(suffix) > len(buf) {
		return false
	}
	tail := buf[len(buf)-len(suffix):]
	for i, r := range suffix {
		if tail[i] != r {
			return false
		}
	}
	return true
}

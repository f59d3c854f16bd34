package match

import (
	"testing"

	"github.com/dshills/snipforge/internal/input/key"
	"github.com/dshills/snipforge/internal/snippet"
)

// typeString feeds each character of s to the matcher as a plain rune event
// and returns the last match result.
func typeString(m *Matcher, s string) (Result, bool) {
	var res Result
	var ok bool
	for _, r := range s {
		if r == ' ' {
			m.OnKeyEvent(key.NewSpecialEvent(key.KeySpace, key.ModNone))
			continue
		}
		res, ok = m.OnKeyEvent(key.NewRuneEvent(r, key.ModNone))
	}
	return res, ok
}

func newTestMatcher(settings Settings, triggers ...string) *Matcher {
	m := NewMatcher(settings)
	snippets := make([]snippet.Snippet, 0, len(triggers))
	for _, tr := range triggers {
		snippets = append(snippets, snippet.New(tr, "expansion of "+tr))
	}
	m.UpdateSnippets(snippets)
	return m
}

func TestMatchSimpleTrigger(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "brb")

	res, ok := typeString(m, "br")
	if ok {
		t.Fatalf("premature match on %q", res.Snippet.Trigger)
	}
	res, ok = typeString(m, "b")
	if !ok {
		t.Fatal("expected match after typing brb")
	}
	if res.Snippet.Trigger != "brb" {
		t.Errorf("matched %q, want brb", res.Snippet.Trigger)
	}
	if res.TypedLen != 3 {
		t.Errorf("TypedLen = %d, want 3", res.TypedLen)
	}
	if m.BufferText() != "" {
		t.Errorf("buffer not cleared after match: %q", m.BufferText())
	}
}

func TestMatchMidWord(t *testing.T) {
	// Without a delimiter requirement, a trigger fires even inside a word.
	m := newTestMatcher(DefaultSettings(), "brb")
	if _, ok := typeString(m, "xxbrb"); !ok {
		t.Error("expected mid-word match without delimiter requirement")
	}
}

func TestMatchCaseSensitivity(t *testing.T) {
	insensitive := DefaultSettings()
	m := newTestMatcher(insensitive, "hello")
	if _, ok := typeString(m, "HELLO"); !ok {
		t.Error("case-insensitive mode should match HELLO against hello")
	}

	sensitive := DefaultSettings()
	sensitive.CaseSensitive = true
	m = newTestMatcher(sensitive, "hello")
	if _, ok := typeString(m, "HELLO"); ok {
		t.Error("case-sensitive mode should not match HELLO against hello")
	}
	if _, ok := typeString(m, "hello"); !ok {
		t.Error("case-sensitive mode should match exact case")
	}
}

func TestMatchRequirePrefix(t *testing.T) {
	s := DefaultSettings()
	s.RequirePrefix = true
	s.PrefixChar = ';'
	m := newTestMatcher(s, "sig")

	if _, ok := typeString(m, "sig"); ok {
		t.Error("bare trigger should not match when a prefix is required")
	}
	res, ok := typeString(m, ";sig")
	if !ok {
		t.Fatal("prefixed trigger should match")
	}
	if res.TypedLen != 4 {
		t.Errorf("TypedLen = %d, want 4 (prefix counts)", res.TypedLen)
	}
}

func TestMatchRequireDelimiter(t *testing.T) {
	s := DefaultSettings()
	s.RequireDelimiter = true
	m := newTestMatcher(s, "brb")

	if _, ok := typeString(m, "xbrb"); ok {
		t.Error("trigger preceded by a letter should not match")
	}

	// Start of buffer counts as delimited.
	m = newTestMatcher(s, "brb")
	if _, ok := typeString(m, "brb"); !ok {
		t.Error("trigger at buffer start should match")
	}

	// Punctuation before the trigger satisfies the rule.
	m = newTestMatcher(s, "brb")
	if _, ok := typeString(m, "x.brb"); !ok {
		t.Error("trigger after punctuation should match")
	}
}

func TestMatchFirstRegisteredWins(t *testing.T) {
	// Registration order decides among overlapping triggers, not length.
	m := newTestMatcher(DefaultSettings(), "ab", "dab")
	res, ok := typeString(m, "dab")
	if !ok {
		t.Fatal("expected a match")
	}
	if res.Snippet.Trigger != "ab" {
		t.Errorf("matched %q, want ab (first registered)", res.Snippet.Trigger)
	}
}

func TestSpaceAndEnterClearBuffer(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "brb")

	typeString(m, "br")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeySpace, key.ModNone))
	if _, ok := typeString(m, "b"); ok {
		t.Error("space should clear the buffer, breaking the trigger")
	}

	typeString(m, "br")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
	if _, ok := typeString(m, "b"); ok {
		t.Error("enter should clear the buffer, breaking the trigger")
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "brb")

	typeString(m, "brx")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	if _, ok := typeString(m, "b"); !ok {
		t.Error("backspace should remove the stray character and allow a match")
	}
}

func TestShiftCapsLockResolution(t *testing.T) {
	s := DefaultSettings()
	s.CaseSensitive = true
	m := newTestMatcher(s, "Brb")

	// Shift down, type b, shift up, type rb.
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyShift, key.ModNone))
	m.OnKeyEvent(key.NewRuneEvent('b', key.ModShift))
	m.OnKeyEvent(key.NewUpEvent(key.KeyShift, key.ModNone))
	if _, ok := typeString(m, "rb"); !ok {
		t.Error("shifted letter should resolve uppercase")
	}

	// Caps lock produces uppercase without shift.
	m = newTestMatcher(s, "BRB")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyCapsLock, key.ModNone))
	if _, ok := typeString(m, "brb"); !ok {
		t.Error("caps lock should resolve letters uppercase")
	}

	// Shift under caps lock cancels back to lowercase.
	m = newTestMatcher(s, "brb")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyCapsLock, key.ModNone))
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyShift, key.ModNone))
	if _, ok := typeString(m, "brb"); !ok {
		t.Error("shift XOR caps lock should resolve lowercase")
	}
}

func TestBufferTruncation(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "tail")

	// Overflow the 50-character buffer, then type the trigger.
	for i := 0; i < 80; i++ {
		m.OnKeyEvent(key.NewRuneEvent('x', key.ModNone))
	}
	if got := len([]rune(m.BufferText())); got != maxBufferLen {
		t.Errorf("buffer length = %d, want %d", got, maxBufferLen)
	}
	if _, ok := typeString(m, "tail"); !ok {
		t.Error("trigger should still match after buffer truncation")
	}
}

func TestShortcutChordIgnored(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "brb")
	typeString(m, "br")
	m.OnKeyEvent(key.NewRuneEvent('c', key.ModCtrl))
	if got := m.BufferText(); got != "br" {
		t.Errorf("buffer = %q after Ctrl+c, want %q", got, "br")
	}
}

func TestNonCharacterEventsAreNoOps(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "brb")
	typeString(m, "br")
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyF5, key.ModNone))
	m.OnKeyEvent(key.NewSpecialEvent(key.KeyLeft, key.ModNone))
	m.OnKeyEvent(key.NewUpEvent(key.KeyRune, key.ModNone))
	if got := m.BufferText(); got != "br" {
		t.Errorf("buffer = %q after non-character events, want %q", got, "br")
	}
}

func TestUpdateSnippetsSwapsSet(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "old")
	m.UpdateSnippets([]snippet.Snippet{snippet.New("new", "n")})

	if _, ok := typeString(m, "old"); ok {
		t.Error("replaced trigger should no longer match")
	}
	if _, ok := typeString(m, "new"); !ok {
		t.Error("new trigger should match after swap")
	}
}

func TestUpdateSnippetsDropsInvalid(t *testing.T) {
	m := NewMatcher(DefaultSettings())
	m.UpdateSnippets([]snippet.Snippet{
		{Trigger: "", Content: "empty"},
		{Trigger: "a b", Content: "spaced"},
		snippet.New("ok", "fine"),
	})
	if _, ok := typeString(m, "ok"); !ok {
		t.Error("valid trigger should survive filtering")
	}
}

func TestUpdateSettingsSwap(t *testing.T) {
	m := newTestMatcher(DefaultSettings(), "Hello")

	s := m.Settings()
	s.CaseSensitive = true
	m.UpdateSettings(s)

	if _, ok := typeString(m, "hello"); ok {
		t.Error("case-sensitive swap should take effect on the next event")
	}
	if _, ok := typeString(m, "Hello"); !ok {
		t.Error("exact case should match after swap")
	}
}

func TestBufferOps(t *testing.T) {
	var b Buffer
	b.Backspace() // empty backspace is a no-op
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	b.Append('h')
	b.Append('i')
	if b.String() != "hi" {
		t.Errorf("String() = %q, want %q", b.String(), "hi")
	}
	b.Backspace()
	if b.String() != "h" {
		t.Errorf("String() = %q, want %q", b.String(), "h")
	}
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", b.Len())
	}
}

package key

import (
	"fmt"
	"time"
	"unicode"
)

// EventKind distinguishes key presses from key releases.
type EventKind uint8

const (
	// KindDown is a key press.
	KindDown EventKind = iota

	// KindUp is a key release.
	KindUp
)

// String returns "down" or "up".
func (k EventKind) String() string {
	if k == KindUp {
		return "up"
	}
	return "down"
}

// Event represents a single keyboard event.
type Event struct {
	// Kind is KindDown or KindUp.
	Kind EventKind

	// Key identifies the key.
	Key Key

	// Rune is the unshifted base character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key-down event for a character key.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Kind:      KindDown,
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key-down event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Kind:      KindDown,
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewUpEvent creates a key-up event for a special key.
func NewUpEvent(key Key, mods Modifier) Event {
	return Event{
		Kind:      KindUp,
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable returns true if this event carries a printable character.
func (e Event) IsPrintable() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// String returns a representation like "down a" or "up Shift".
func (e Event) String() string {
	if e.IsRune() {
		return fmt.Sprintf("%s %q", e.Kind, e.Rune)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Key)
}

// shiftedSymbols maps unshifted US-layout characters to their shifted forms.
var shiftedSymbols = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'`': '~', '-': '_', '=': '+', '[': '{', ']': '}',
	'\\': '|', ';': ':', '\'': '"', ',': '<', '.': '>', '/': '?',
}

// ShiftedRune returns the shifted form of an unshifted symbol or digit.
// Characters with no shifted form return unchanged.
func ShiftedRune(r rune) rune {
	if s, ok := shiftedSymbols[r]; ok {
		return s
	}
	return r
}

// ResolveRune resolves the effective character for a base rune given the
// current shift and caps-lock state. Alphabetic keys uppercase when shift
// XOR caps-lock is active; all other keys honor shift directly.
func ResolveRune(base rune, shift, capsLock bool) rune {
	if unicode.IsLetter(base) {
		if shift != capsLock {
			return unicode.ToUpper(base)
		}
		return unicode.ToLower(base)
	}
	if shift {
		return ShiftedRune(base)
	}
	return base
}

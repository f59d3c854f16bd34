// Package key defines the key event model consumed by the trigger matcher.
//
// The OS keystroke layer (or the terminal demo source) produces a stream of
// Event values:
//
//   - Kind: KeyDown or KeyUp
//   - Key: the key code (special keys, or KeyRune for character keys)
//   - Rune: the unshifted base character for KeyRune events
//   - Modifiers: active modifier keys at event time
//
// The matcher owns character resolution: an event carries the base (lowercase,
// unshifted) rune, and the matcher applies the shift/caps-lock rules to decide
// the effective character. ResolveRune implements that rule: alphabetic keys
// uppercase when shift XOR caps-lock is active, every other key honors shift
// directly through the shifted-symbol table.
package key

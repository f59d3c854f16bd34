// Package match implements the trigger-detection engine.
//
// A Matcher consumes key events on its owner's goroutine, maintains a bounded
// trigger buffer, and reports a matched snippet the instant the buffer ends
// with a registered trigger. Matching is deliberately simple:
//
//   - First match wins, in registration order. There is no longest-match or
//     priority rule; with overlapping triggers, whichever was registered
//     first fires. This is a documented property, not an accident.
//   - Space and enter clear the buffer before any match check, so triggers
//     can never contain or end in whitespace.
//   - Settings and the snippet set are swapped atomically; an in-flight
//     event sees either the old set or the new set, never a mix.
package match

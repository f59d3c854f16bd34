// Package engine wires the matcher and the template pipeline into the
// surface the shell consumes.
//
// The engine owns a dedicated goroutine that drains key events and runs the
// matcher; it never blocks on user interaction. Matches are handed to the
// shell over a buffered channel. The shell prompts for field values however
// it likes (possibly blocking for minutes) and then calls Expand, which
// parses, renders, and fires hooks. Keystroke capture continues while a
// prompt is open because matching and expansion live on different
// goroutines.
package engine

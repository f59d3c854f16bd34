package snippet

import (
	"strings"

	"github.com/google/uuid"
)

// Snippet is one trigger-to-template mapping.
//
// Identity within a loaded set is the trigger string; the matcher resolves
// duplicate triggers first-match-wins in load order. ID is a stable handle
// for editors and is assigned at load time when the file carries none.
type Snippet struct {
	// ID uniquely identifies the snippet for editing tools.
	ID string `json:"id"`

	// Trigger is the short string the user types.
	Trigger string `json:"trigger"`

	// Content is the raw template text with {{...}} markers.
	Content string `json:"content"`

	// Folder is the library folder the editor files this snippet under.
	Folder string `json:"folder"`

	// Description is free-form editor-facing text.
	Description string `json:"description"`
}

// New creates a snippet with a fresh ID.
func New(trigger, content string) Snippet {
	return Snippet{
		ID:      uuid.NewString(),
		Trigger: trigger,
		Content: content,
	}
}

// Valid reports whether the snippet can be registered with the matcher.
// A trigger containing whitespace can never match: space, tab, and enter
// clear the trigger buffer before the match check runs.
func (s Snippet) Valid() bool {
	if s.Trigger == "" {
		return false
	}
	return !strings.ContainsAny(s.Trigger, " \t\n\r")
}

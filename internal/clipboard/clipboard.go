// Package clipboard provides the clipboard snapshot consumed by the
// template renderer and a system-backed provider.
//
// The renderer never touches the live clipboard: its callers capture a
// Snapshot at expansion time so a render is a pure function of its inputs.
package clipboard

import "github.com/atotto/clipboard"

// Kind identifies what a snapshot holds.
type Kind uint8

const (
	// KindEmpty means the clipboard held nothing usable.
	KindEmpty Kind = iota

	// KindText means the clipboard held plain text.
	KindText

	// KindImage means the clipboard held image data, referenced by a
	// temporary file path.
	KindImage
)

// Snapshot is an immutable capture of clipboard contents.
type Snapshot struct {
	Kind Kind

	// Text is the clipboard text for KindText.
	Text string

	// ImagePath is the path to the captured image for KindImage.
	ImagePath string
}

// TextSnapshot builds a text snapshot.
func TextSnapshot(text string) Snapshot {
	return Snapshot{Kind: KindText, Text: text}
}

// ImageSnapshot builds an image snapshot.
func ImageSnapshot(path string) Snapshot {
	return Snapshot{Kind: KindImage, ImagePath: path}
}

// Provider captures clipboard snapshots.
type Provider interface {
	Snapshot() Snapshot
}

// System reads the OS clipboard. Text only: image capture is owned by the
// OS shell layer, which hands the engine an ImageSnapshot instead.
type System struct{}

// Snapshot captures the current clipboard text. Read failures and empty
// clipboards both yield an empty snapshot; expansion must not fail because
// the clipboard was unreadable.
func (System) Snapshot() Snapshot {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		return Snapshot{}
	}
	return TextSnapshot(text)
}

// Static is a fixed-snapshot provider for tests and batch rendering.
type Static struct {
	Snap Snapshot
}

// Snapshot returns the fixed snapshot.
func (s Static) Snapshot() Snapshot {
	return s.Snap
}

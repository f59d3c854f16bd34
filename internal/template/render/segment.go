package render

import (
	"fmt"
	"strings"
)

// Segment is one unit of render output. The OS paste layer maps each
// segment to either "type this text" or "paste this embed".
type Segment interface {
	segment()
}

// TextSegment is a run of plain text.
type TextSegment struct {
	Text string
}

// ImageSegment asks the paste layer to embed an image.
type ImageSegment struct {
	Path string
}

// TableSegment asks the paste layer to embed an empty table.
type TableSegment struct {
	Cols int
	Rows int
}

// HTMLSegment asks the paste layer to embed rich markup.
type HTMLSegment struct {
	Markup string
}

// CursorSegment marks where the caret lands after pasting. The caller
// counts the text emitted after this mark and moves the caret back by that
// many positions.
type CursorSegment struct{}

func (TextSegment) segment()   {}
func (ImageSegment) segment()  {}
func (TableSegment) segment()  {}
func (HTMLSegment) segment()   {}
func (CursorSegment) segment() {}

// Output is the ordered segment sequence for one expansion.
type Output struct {
	Segments []Segment
}

// Text concatenates all text segments.
func (o Output) Text() string {
	var b strings.Builder
	for _, s := range o.Segments {
		if t, ok := s.(TextSegment); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// PlainText reports whether the output is text-only.
func (o Output) PlainText() bool {
	for _, s := range o.Segments {
		if _, ok := s.(TextSegment); !ok {
			return false
		}
	}
	return true
}

// CaretOffset returns the number of text characters emitted after the first
// cursor mark, and whether the output contains a cursor mark at all. After
// pasting, the caller moves the caret left by this many positions.
func (o Output) CaretOffset() (int, bool) {
	found := false
	offset := 0
	for _, s := range o.Segments {
		switch v := s.(type) {
		case CursorSegment:
			if !found {
				found = true
			}
		case TextSegment:
			if found {
				offset += len([]rune(v.Text))
			}
		}
	}
	return offset, found
}

// tableHTML builds the markup for an empty cols-by-rows table.
func tableHTML(cols, rows int) string {
	var b strings.Builder
	b.WriteString("<table>")
	for r := 0; r < rows; r++ {
		b.WriteString("<tr>")
		for c := 0; c < cols; c++ {
			b.WriteString("<td></td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

// String summarizes the output for logs: text inline, embeds bracketed.
func (o Output) String() string {
	var b strings.Builder
	for _, s := range o.Segments {
		switch v := s.(type) {
		case TextSegment:
			b.WriteString(v.Text)
		case ImageSegment:
			fmt.Fprintf(&b, "[image %s]", v.Path)
		case TableSegment:
			fmt.Fprintf(&b, "[table %dx%d]", v.Cols, v.Rows)
		case HTMLSegment:
			b.WriteString("[html]")
		case CursorSegment:
			b.WriteString("[cursor]")
		}
	}
	return b.String()
}

package render

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/snipforge/internal/clipboard"
	"github.com/dshills/snipforge/internal/template"
	"github.com/dshills/snipforge/internal/template/calc"
)

// ErrDepthExceeded is returned when nested snippet references expand past
// the depth limit. It is the only error Render reports; everything else
// degrades in place.
var ErrDepthExceeded = errors.New("snippet reference depth exceeded")

// DefaultMaxDepth bounds nested snippet expansion.
const DefaultMaxDepth = 10

// calcErrorText replaces a calc marker whose expression failed to evaluate.
const calcErrorText = "[calc error]"

// Default formats used when the Context leaves them empty.
const (
	defaultDateFormat     = "2006-01-02"
	defaultTimeFormat     = "15:04"
	defaultDateTimeFormat = "2006-01-02 15:04"
)

// Context carries the per-expansion inputs a render needs beyond the field
// values. Construct one per call; renders share no state.
type Context struct {
	// Now is the expansion timestamp for date and time markers.
	Now time.Time

	// DateFormat, TimeFormat, and DateTimeFormat are Go reference-time
	// layouts. Empty fields fall back to engine defaults.
	DateFormat     string
	TimeFormat     string
	DateTimeFormat string

	// Clipboard is the snapshot taken when the expansion started.
	Clipboard clipboard.Snapshot

	// Resolve maps a trigger to its parsed template for snippet
	// references. A nil Resolve renders every reference as empty text.
	Resolve func(trigger string) (template.Parsed, bool)

	// MaxDepth bounds nested snippet references; 0 means DefaultMaxDepth.
	MaxDepth int

	// RichTables emits table markers as HTML markup instead of bare
	// table embeds, for paste targets that accept rich content.
	RichTables bool
}

// Render expands a parsed template into output segments.
//
// Field values resolve from fields; missing entries render as empty text.
// Calc expressions see the complete field map, so they may reference any
// field regardless of where it appears in the template. The returned error
// is non-nil only for ErrDepthExceeded; the output is still usable, with
// the offending subtree rendered as empty text.
func Render(p template.Parsed, fields map[string]string, ctx Context) (Output, error) {
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}
	if ctx.MaxDepth <= 0 {
		ctx.MaxDepth = DefaultMaxDepth
	}

	r := &renderer{ctx: ctx, fields: fields}
	r.walk(p.Nodes, 0)
	return Output{Segments: r.segments}, r.err
}

// renderer accumulates segments for one render call.
type renderer struct {
	ctx      Context
	fields   map[string]string
	segments []Segment
	err      error
}

func (r *renderer) walk(nodes []template.Node, depth int) {
	for _, n := range nodes {
		switch v := n.(type) {
		case template.Literal:
			r.text(v.Text)

		case template.Field:
			r.text(r.field(v.Name))

		case template.Dropdown:
			r.text(r.field(v.Name))

		case template.DatePicker:
			r.text(r.field(v.Name))

		case template.MultiSelect:
			r.text(multiSelectText(r.field(v.Name)))

		case template.Toggle:
			if toggleEnabled(r.fields, v.Name) {
				r.walk(v.Children, depth)
			}

		case template.DateVar:
			r.text(r.ctx.Now.Format(r.dateFormat()))

		case template.TimeVar:
			r.text(r.ctx.Now.Format(r.timeFormat()))

		case template.DateTimeVar:
			r.text(r.ctx.Now.Format(r.dateTimeFormat()))

		case template.DateArith:
			r.text(r.ctx.Now.AddDate(0, 0, v.Days).Format(r.dateFormat()))

		case template.Clipboard:
			r.clipboard()

		case template.Cursor:
			r.emit(CursorSegment{})

		case template.Calc:
			r.calc(v.Expr)

		case template.SnippetRef:
			r.snippetRef(v.Trigger, depth)

		case template.ImageRef:
			r.emit(ImageSegment{Path: v.Path})

		case template.TableRef:
			if r.ctx.RichTables {
				r.emit(HTMLSegment{Markup: tableHTML(v.Cols, v.Rows)})
			} else {
				r.emit(TableSegment{Cols: v.Cols, Rows: v.Rows})
			}
		}
	}
}

// field resolves a field value; missing names render empty.
func (r *renderer) field(name string) string {
	return r.fields[name]
}

// text emits a text segment, merging with a trailing text segment.
func (r *renderer) text(s string) {
	if s == "" {
		return
	}
	if n := len(r.segments); n > 0 {
		if t, ok := r.segments[n-1].(TextSegment); ok {
			r.segments[n-1] = TextSegment{Text: t.Text + s}
			return
		}
	}
	r.segments = append(r.segments, TextSegment{Text: s})
}

func (r *renderer) emit(s Segment) {
	r.segments = append(r.segments, s)
}

// clipboard inlines text or emits an image embed per the snapshot kind.
func (r *renderer) clipboard() {
	switch r.ctx.Clipboard.Kind {
	case clipboard.KindText:
		r.text(r.ctx.Clipboard.Text)
	case clipboard.KindImage:
		r.emit(ImageSegment{Path: r.ctx.Clipboard.ImagePath})
	}
}

// calc evaluates an expression; failures render the error marker.
func (r *renderer) calc(expr string) {
	res, err := calc.Evaluate(expr, r.fields)
	if err != nil {
		r.text(calcErrorText)
		return
	}
	r.text(res.Format())
}

// snippetRef inlines another snippet's render at this position. Unresolved
// references render empty; exceeding the depth limit records
// ErrDepthExceeded and renders the subtree empty.
func (r *renderer) snippetRef(trigger string, depth int) {
	if r.ctx.Resolve == nil {
		return
	}
	if depth+1 > r.ctx.MaxDepth {
		r.err = ErrDepthExceeded
		return
	}
	sub, ok := r.ctx.Resolve(trigger)
	if !ok {
		return
	}
	r.walk(sub.Nodes, depth+1)
}

func (r *renderer) dateFormat() string {
	if r.ctx.DateFormat != "" {
		return r.ctx.DateFormat
	}
	return defaultDateFormat
}

func (r *renderer) timeFormat() string {
	if r.ctx.TimeFormat != "" {
		return r.ctx.TimeFormat
	}
	return defaultTimeFormat
}

func (r *renderer) dateTimeFormat() string {
	if r.ctx.DateTimeFormat != "" {
		return r.ctx.DateTimeFormat
	}
	return defaultDateTimeFormat
}

// multiSelectText joins the user's selections with ", " in selection order.
// The field map stores selections separated by "|".
func multiSelectText(value string) string {
	if value == "" {
		return ""
	}
	return strings.Join(strings.Split(value, "|"), ", ")
}

// toggleEnabled decides whether a toggle section renders. Absent names
// default to enabled; recognizably false values disable the section.
func toggleEnabled(fields map[string]string, name string) bool {
	value, ok := fields[name]
	if !ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "f", "0", "no", "off":
		return false
	}
	return true
}

package render

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/snipforge/internal/clipboard"
	"github.com/dshills/snipforge/internal/template"
	"github.com/dshills/snipforge/internal/template/parse"
)

var testNow = time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)

func renderText(t *testing.T, src string, fields map[string]string, ctx Context) string {
	t.Helper()
	ctx.Now = testNow
	out, err := Render(parse.Parse(src), fields, ctx)
	if err != nil {
		t.Fatalf("Render(%q) error = %v", src, err)
	}
	return out.Text()
}

func TestRenderFields(t *testing.T) {
	got := renderText(t, "Hi {{name}}!", map[string]string{"name": "Sam"}, Context{})
	if got != "Hi Sam!" {
		t.Errorf("Render() = %q, want %q", got, "Hi Sam!")
	}
}

func TestRenderMissingFieldIsEmpty(t *testing.T) {
	got := renderText(t, "Hi {{name}}!", nil, Context{})
	if got != "Hi !" {
		t.Errorf("Render() = %q, want %q", got, "Hi !")
	}
}

func TestRenderDropdownAndDatePicker(t *testing.T) {
	fields := map[string]string{"size": "medium", "due": "2026-04-01"}
	got := renderText(t, "{{size=s|m|l}} by {{due:date}}", fields, Context{})
	if got != "medium by 2026-04-01" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderMultiSelect(t *testing.T) {
	// Selections arrive "|"-separated in the order the user picked them.
	fields := map[string]string{"tags": "beta|alpha"}
	got := renderText(t, "{{tags:multi=alpha|beta|gamma}}", fields, Context{})
	if got != "beta, alpha" {
		t.Errorf("Render() = %q, want %q", got, "beta, alpha")
	}
}

func TestRenderCalc(t *testing.T) {
	fields := map[string]string{"price": "3", "qty": "4"}
	got := renderText(t, "{{price}} * {{qty}} = {{calc:price*qty}}", fields, Context{})
	if !strings.Contains(got, "3 * 4 = 12") {
		t.Errorf("Render() = %q, want it to contain %q", got, "3 * 4 = 12")
	}
}

func TestRenderCalcSeesAllFields(t *testing.T) {
	// A calc may reference a field defined later in the template.
	fields := map[string]string{"qty": "6"}
	got := renderText(t, "total {{calc:qty*2}} for {{qty}}", fields, Context{})
	if got != "total 12 for 6" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderCalcError(t *testing.T) {
	got := renderText(t, "{{calc:1/0}}", nil, Context{})
	if !strings.Contains(got, calcErrorText) {
		t.Errorf("Render() = %q, want it to contain %q", got, calcErrorText)
	}
}

func TestRenderToggle(t *testing.T) {
	src := "{{show:toggle}}SECRET{{/show:toggle}}"

	got := renderText(t, src, map[string]string{"show": "false"}, Context{})
	if strings.Contains(got, "SECRET") {
		t.Errorf("disabled toggle leaked content: %q", got)
	}
	if got != "" {
		t.Errorf("disabled toggle should leave no trace, got %q", got)
	}

	got = renderText(t, src, map[string]string{"show": "true"}, Context{})
	if got != "SECRET" {
		t.Errorf("enabled toggle = %q, want SECRET", got)
	}

	// Absent toggle names default to enabled.
	got = renderText(t, src, nil, Context{})
	if got != "SECRET" {
		t.Errorf("defaulted toggle = %q, want SECRET", got)
	}
}

func TestRenderRepeatedToggleName(t *testing.T) {
	// Every section sharing a name follows the one field value.
	src := "{{a:toggle}}X{{/a:toggle}}-{{a:toggle}}Y{{/a:toggle}}"

	got := renderText(t, src, map[string]string{"a": "off"}, Context{})
	if got != "-" {
		t.Errorf("disabled sections = %q, want %q", got, "-")
	}

	got = renderText(t, src, map[string]string{"a": "true"}, Context{})
	if got != "X-Y" {
		t.Errorf("enabled sections = %q, want %q", got, "X-Y")
	}
}

func TestRenderToggleNestedFields(t *testing.T) {
	src := "{{wrap:toggle}}[{{inner}}]{{/wrap:toggle}}"
	fields := map[string]string{"wrap": "yes", "inner": "x"}
	got := renderText(t, src, fields, Context{})
	if got != "[x]" {
		t.Errorf("Render() = %q, want [x]", got)
	}
}

func TestRenderDates(t *testing.T) {
	got := renderText(t, "{{date}}|{{time}}|{{datetime}}", nil, Context{})
	if got != "2026-03-15|09:30|2026-03-15 09:30" {
		t.Errorf("Render() = %q", got)
	}

	got = renderText(t, "{{date+7}} {{date-15}}", nil, Context{})
	if got != "2026-03-22 2026-02-28" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderDateCustomFormat(t *testing.T) {
	ctx := Context{DateFormat: "Jan 2, 2006"}
	got := renderText(t, "{{date}} and {{date+1}}", nil, ctx)
	if got != "Mar 15, 2026 and Mar 16, 2026" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderClipboard(t *testing.T) {
	ctx := Context{Clipboard: clipboard.TextSnapshot("pasted")}
	got := renderText(t, "<{{clipboard}}>", nil, ctx)
	if got != "<pasted>" {
		t.Errorf("Render() = %q", got)
	}

	ctx = Context{Clipboard: clipboard.ImageSnapshot("/tmp/shot.png"), Now: testNow}
	out, err := Render(parse.Parse("a{{clipboard}}b"), nil, ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{
		TextSegment{Text: "a"},
		ImageSegment{Path: "/tmp/shot.png"},
		TextSegment{Text: "b"},
	}
	if !reflect.DeepEqual(out.Segments, want) {
		t.Errorf("Render() = %#v, want %#v", out.Segments, want)
	}

	// An empty snapshot renders nothing.
	got = renderText(t, "<{{clipboard}}>", nil, Context{})
	if got != "<>" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderCursorSegments(t *testing.T) {
	out, err := Render(parse.Parse("A{{cursor}}B"), nil, Context{Now: testNow})
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{TextSegment{Text: "A"}, CursorSegment{}, TextSegment{Text: "B"}}
	if !reflect.DeepEqual(out.Segments, want) {
		t.Errorf("Render() = %#v, want %#v", out.Segments, want)
	}
	offset, ok := out.CaretOffset()
	if !ok {
		t.Fatal("CaretOffset() found no cursor mark")
	}
	if offset != 1 {
		t.Errorf("CaretOffset() = %d, want 1", offset)
	}
}

func TestCaretOffsetWithoutCursor(t *testing.T) {
	out, err := Render(parse.Parse("AB"), nil, Context{Now: testNow})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.CaretOffset(); ok {
		t.Error("CaretOffset() should report no cursor mark")
	}
}

func TestRenderEmbeds(t *testing.T) {
	out, err := Render(parse.Parse("{{image:logo.png}}{{table:2:3}}"), nil, Context{Now: testNow})
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{
		ImageSegment{Path: "logo.png"},
		TableSegment{Cols: 2, Rows: 3},
	}
	if !reflect.DeepEqual(out.Segments, want) {
		t.Errorf("Render() = %#v, want %#v", out.Segments, want)
	}
	if out.PlainText() {
		t.Error("PlainText() should be false for embed output")
	}
}

func TestRenderRichTables(t *testing.T) {
	out, err := Render(parse.Parse("{{table:2:1}}"), nil, Context{Now: testNow, RichTables: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Segments) != 1 {
		t.Fatalf("Render() = %#v, want one segment", out.Segments)
	}
	html, ok := out.Segments[0].(HTMLSegment)
	if !ok {
		t.Fatalf("segment = %#v, want HTMLSegment", out.Segments[0])
	}
	want := "<table><tr><td></td><td></td></tr></table>"
	if html.Markup != want {
		t.Errorf("Markup = %q, want %q", html.Markup, want)
	}
}

func TestRenderSnippetRef(t *testing.T) {
	library := map[string]string{
		";sig": "Best,\n{{name}}",
	}
	ctx := Context{
		Resolve: func(trigger string) (template.Parsed, bool) {
			src, ok := library[trigger]
			if !ok {
				return template.Parsed{}, false
			}
			return parse.Parse(src), true
		},
	}

	got := renderText(t, "bye. {{snippet:;sig}}", map[string]string{"name": "Sam"}, ctx)
	if got != "bye. Best,\nSam" {
		t.Errorf("Render() = %q", got)
	}

	// Unresolved references render as empty text.
	got = renderText(t, "a{{snippet:missing}}b", nil, ctx)
	if got != "ab" {
		t.Errorf("Render() = %q, want %q", got, "ab")
	}
}

func TestRenderSelfReferenceBounded(t *testing.T) {
	// A snippet that includes itself must stop at the depth limit and
	// report it, not loop.
	self := parse.Parse("x{{snippet:self}}")
	ctx := Context{
		Now: testNow,
		Resolve: func(trigger string) (template.Parsed, bool) {
			if trigger == "self" {
				return self, true
			}
			return template.Parsed{}, false
		},
	}

	out, err := Render(self, nil, ctx)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("Render() error = %v, want ErrDepthExceeded", err)
	}
	if got := out.Text(); got != strings.Repeat("x", DefaultMaxDepth+1) {
		t.Errorf("Render() = %q, want %d x's", got, DefaultMaxDepth+1)
	}
}

func TestRenderNoResolver(t *testing.T) {
	got := renderText(t, "a{{snippet:any}}b", nil, Context{})
	if got != "ab" {
		t.Errorf("Render() = %q, want ab", got)
	}
}

func TestOutputString(t *testing.T) {
	out := Output{Segments: []Segment{
		TextSegment{Text: "hi "},
		ImageSegment{Path: "x.png"},
		CursorSegment{},
	}}
	got := out.String()
	if got != "hi [image x.png][cursor]" {
		t.Errorf("String() = %q", got)
	}
}

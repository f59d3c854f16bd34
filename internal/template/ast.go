package template

// Node is one element of a parsed template.
type Node interface {
	node()
}

// Parsed is the ordered node sequence for one template.
type Parsed struct {
	Nodes []Node
}

// Literal is a run of plain text.
type Literal struct {
	Text string
}

// Field is a user-prompted text placeholder.
type Field struct {
	Name string
}

// Dropdown is a single-choice placeholder with fixed options.
type Dropdown struct {
	Name    string
	Options []string
}

// MultiSelect is a multiple-choice placeholder with fixed options.
type MultiSelect struct {
	Name    string
	Options []string
}

// DatePicker is a user-prompted date placeholder.
type DatePicker struct {
	Name string
}

// Toggle is a section included or omitted as a whole based on a boolean
// field. Children may hold any node type, including further toggles.
type Toggle struct {
	Name     string
	Children []Node
}

// DateVar renders the current date.
type DateVar struct{}

// TimeVar renders the current time.
type TimeVar struct{}

// DateTimeVar renders the current date and time.
type DateTimeVar struct{}

// DateArith renders the current date offset by Days (signed).
type DateArith struct {
	Days int
}

// Clipboard inlines the current clipboard contents.
type Clipboard struct{}

// Cursor marks where the caret lands after the expansion is pasted.
type Cursor struct{}

// Calc is a restricted arithmetic expression over field values.
type Calc struct {
	Expr string
}

// SnippetRef inlines another snippet's rendered template.
type SnippetRef struct {
	Trigger string
}

// ImageRef embeds an image by path.
type ImageRef struct {
	Path string
}

// TableRef embeds an empty table skeleton.
type TableRef struct {
	Cols int
	Rows int
}

func (Literal) node()     {}
func (Field) node()       {}
func (Dropdown) node()    {}
func (MultiSelect) node() {}
func (DatePicker) node()  {}
func (Toggle) node()      {}
func (DateVar) node()     {}
func (TimeVar) node()     {}
func (DateTimeVar) node() {}
func (DateArith) node()   {}
func (Clipboard) node()   {}
func (Cursor) node()      {}
func (Calc) node()        {}
func (SnippetRef) node()  {}
func (ImageRef) node()    {}
func (TableRef) node()    {}

// FieldNames returns the names of every Field, Dropdown, MultiSelect,
// DatePicker, and Toggle in the template, in document order without
// duplicates. The caller prompts for exactly these before rendering.
func (p Parsed) FieldNames() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case Field:
				add(v.Name)
			case Dropdown:
				add(v.Name)
			case MultiSelect:
				add(v.Name)
			case DatePicker:
				add(v.Name)
			case Toggle:
				add(v.Name)
				walk(v.Children)
			}
		}
	}
	walk(p.Nodes)
	return names
}

// HasEmbeds reports whether rendering can produce non-text segments
// (images, tables, cursor marks, or a clipboard that may hold an image).
func (p Parsed) HasEmbeds() bool {
	var found bool
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case ImageRef, TableRef, Cursor, Clipboard:
				found = true
			case Toggle:
				walk(v.Children)
			}
		}
	}
	walk(p.Nodes)
	return found
}

// HasSnippetRefs reports whether the template includes other snippets.
func (p Parsed) HasSnippetRefs() bool {
	var found bool
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case SnippetRef:
				found = true
			case Toggle:
				walk(v.Children)
			}
		}
	}
	walk(p.Nodes)
	return found
}

// Package template defines the node tree produced by parsing snippet
// template text.
//
// A template is literal text interleaved with {{...}} markers. Parsing
// (package parse) turns it into an ordered sequence of typed nodes; rendering
// (package render) walks the nodes with a field-value map and emits output
// segments. The node set mirrors the template mini-language exactly:
//
//	{{name}}                       Field
//	{{name=a|b|c}}                 Dropdown
//	{{name:multi=a|b|c}}           MultiSelect
//	{{name:date}}                  DatePicker
//	{{name:toggle}}...{{/name:toggle}}  Toggle
//	{{date}} {{time}} {{datetime}} DateVar / TimeVar / DateTimeVar
//	{{date+N}} {{date-N}}          DateArith
//	{{clipboard}}                  Clipboard
//	{{cursor}}                     Cursor
//	{{calc:expr}}                  Calc
//	{{snippet:trigger}}            SnippetRef
//	{{image:path}}                 ImageRef
//	{{table:cols:rows}}            TableRef
package template

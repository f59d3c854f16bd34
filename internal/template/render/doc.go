// Package render walks parsed templates and produces output segments.
//
// A render call is a pure function of its inputs: the parsed template, the
// caller-collected field values, and a Context carrying the clock, formats,
// a clipboard snapshot, and a snippet resolver. Renders of different
// snippets share nothing and may run concurrently.
//
// Failures degrade instead of propagating: missing fields render empty,
// unresolved snippet references render empty, calc failures render a
// visible error marker. The one hard error is ErrDepthExceeded, raised when
// nested snippet references run past the depth limit; without it a snippet
// that includes itself would expand forever.
package render

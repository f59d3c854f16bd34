// Package parse converts raw template text into template nodes.
//
// Parsing never fails: marker spans that do not classify as any known kind
// degrade to literal text, so the engine always renders something for any
// template an editor produces.
//
// The parser runs in two stages. A tokenizer splits the input into literal
// runs and {{...}} marker spans. The parser then walks the token stream:
// toggle sections are resolved first (leftmost open marker, nearest matching
// close, inner tokens parsed recursively), and every other marker body is
// classified against an explicit priority table, most specific kind first:
//
//	snippet ref → calc → multi-select → date picker → date arithmetic →
//	date/time/datetime variable → clipboard → cursor → image → table →
//	dropdown → field
//
// The field-name grammar carries a known limitation: there is no escaping
// for literal "}}", "=", or ":" inside a name, so names containing those
// characters cannot be expressed. Changing that would change which existing
// templates parse, so the limitation is kept.
package parse

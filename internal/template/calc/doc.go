// Package calc evaluates the restricted arithmetic expressions in calc
// template markers.
//
// The grammar is closed: numbers, field references, the operators
// + - * / % ^, parentheses, and a fixed allow-list of functions (round,
// floor, ceil, abs, min, max, pow, sqrt). Nothing else can execute. Field
// names substitute to numbers before evaluation; blank or non-numeric field
// values coerce to 0 and mark the result incomplete, and identifiers outside
// the allow-list evaluate to 0 rather than failing, so a calc marker always
// renders something. Genuine evaluation failures (malformed expressions,
// division by zero) surface as errors for the renderer to replace with its
// error text.
package calc

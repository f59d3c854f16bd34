// Package lua runs user-supplied expansion hook scripts.
//
// A hook script may define two globals:
//
//	function on_match(trigger)   -- return false to veto the expansion
//	function on_expand(trigger, text)  -- observe the final expansion text
//
// Scripts run sandboxed: file loading, io, os, and debug access are removed
// before the script executes, and every call carries a deadline. The
// template engine never evaluates template content through Lua; hooks only
// observe and veto, so a hostile snippet file cannot reach the interpreter.
//
// gopher-lua's LState is not goroutine-safe, so all calls serialize through
// a single mutex-guarded state.
package lua

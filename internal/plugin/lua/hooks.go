package lua

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrHooksClosed is returned when calling a closed Hooks.
var ErrHooksClosed = errors.New("lua hooks are closed")

// callTimeout bounds a single hook invocation. Hooks run on the match path,
// so a runaway script must not stall keystroke handling for long.
const callTimeout = 250 * time.Millisecond

// Hooks holds a sandboxed Lua state with the user's hook script loaded.
type Hooks struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// Load reads and executes a hook script, returning the ready Hooks.
func Load(path string) (*Hooks, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hook script %s: %w", path, err)
	}

	L := lua.NewState()
	sandbox(L)

	if err := L.DoString(string(source)); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading hook script %s: %w", path, err)
	}
	return &Hooks{state: L}, nil
}

// sandbox strips the capabilities hook scripts must not have.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"io", "os", "debug",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	// Keep require from reaching the filesystem.
	pkg := L.GetGlobal("package")
	if pkgTable, ok := pkg.(*lua.LTable); ok {
		L.SetField(pkgTable, "path", lua.LString(""))
		L.SetField(pkgTable, "cpath", lua.LString(""))
	}
}

// OnMatch invokes on_match(trigger). It returns false only when the script
// explicitly returns false; script errors and missing hooks allow the match.
func (h *Hooks) OnMatch(trigger string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return true, ErrHooksClosed
	}

	fn := h.state.GetGlobal("on_match")
	if fn == lua.LNil {
		return true, nil
	}

	ret, err := h.call(fn, lua.LString(trigger))
	if err != nil {
		return true, fmt.Errorf("on_match: %w", err)
	}
	return ret != lua.LFalse, nil
}

// OnExpand invokes on_expand(trigger, text). Observation only; errors are
// reported but never affect the expansion.
func (h *Hooks) OnExpand(trigger, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHooksClosed
	}

	fn := h.state.GetGlobal("on_expand")
	if fn == lua.LNil {
		return nil
	}

	if _, err := h.call(fn, lua.LString(trigger), lua.LString(text)); err != nil {
		return fmt.Errorf("on_expand: %w", err)
	}
	return nil
}

// call invokes fn with a deadline and returns its first result.
// Callers must hold h.mu.
func (h *Hooks) call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	h.state.SetContext(ctx)
	defer h.state.RemoveContext()

	if err := h.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)
	return ret, nil
}

// Close releases the Lua state. Safe to call more than once.
func (h *Hooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}

package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/suggest"
)

// DefaultExecutionTimeout bounds every call into Lua.
const DefaultExecutionTimeout = 5 * time.Second

// Option configures a Host.
type Option func(*Host)

// WithExecutionTimeout sets the timeout for script execution and callbacks.
// Zero disables it.
func WithExecutionTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithLogger sets the logger used to report callback failures.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Host runs suggester scripts.
type Host struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	logger  *zap.Logger
	closed  bool

	suggesters []suggest.Suggester
}

// NewHost creates a sandboxed Lua state with the suggest module installed.
func NewHost(opts ...Option) (*Host, error) {
	h := &Host{
		timeout: DefaultExecutionTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	installSandbox(h.L)
	h.installModule()

	return h, nil
}

// DoFile executes a script file.
func (h *Host) DoFile(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrStateClosed
	}
	return h.run(func() error { return h.L.DoFile(path) })
}

// DoString executes a script.
func (h *Host) DoString(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrStateClosed
	}
	return h.run(func() error { return h.L.DoString(code) })
}

// Suggesters returns the suggesters registered so far, in registration
// order.
func (h *Host) Suggesters() []suggest.Suggester {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]suggest.Suggester, len(h.suggesters))
	copy(out, h.suggesters)
	return out
}

// IsClosed returns true if the host has been closed.
func (h *Host) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close releases the Lua state. Callbacks of registered suggesters become
// no-ops.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}

// run executes fn under the execution timeout with panic recovery.
// The caller holds h.mu.
func (h *Host) run(fn func() error) (err error) {
	var ctx context.Context
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer h.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && ctx != nil && ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
	}()
	return fn()
}

// call invokes a Lua function with one argument and returns its first
// result. The caller holds h.mu.
func (h *Host) call(fn *lua.LFunction, arg lua.LValue) (lua.LValue, error) {
	result := lua.LValue(lua.LNil)
	err := h.run(func() error {
		top := h.L.GetTop()
		h.L.Push(fn)
		h.L.Push(arg)
		if err := h.L.PCall(1, 1, nil); err != nil {
			return err
		}
		result = h.L.Get(top + 1)
		h.L.SetTop(top)
		return nil
	})
	return result, err
}

// invoke runs a suggester callback. Failures are logged and reported as a
// false result.
func (h *Host) invoke(callback string, fn *lua.LFunction, p suggest.Props, reason string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	result, err := h.call(fn, propsTable(h.L, p, reason))
	if err != nil {
		h.logger.Warn("lua callback failed",
			zap.String("suggester", p.Name()),
			zap.String("callback", callback),
			zap.Error(err),
		)
		return false
	}
	return lua.LVAsBool(result)
}

// installModule exposes the suggest table.
func (h *Host) installModule() {
	mod := h.L.SetFuncs(h.L.NewTable(), map[string]lua.LGFunction{
		"register": h.register,
	})
	h.L.SetGlobal("suggest", mod)
}

// register implements suggest.register{...}. It runs inside DoFile or
// DoString, so h.mu is already held.
func (h *Host) register(L *lua.LState) int {
	tbl := L.CheckTable(1)

	def, err := decodeDefinition(tbl)
	if err != nil {
		L.RaiseError("suggest.register: %s", err.Error())
		return 0
	}

	index := len(h.suggesters)
	if errs := def.def.Validate(index); len(errs) > 0 {
		L.RaiseError("suggest.register: %s", errs[0].Error())
		return 0
	}
	for _, s := range h.suggesters {
		if s.Name == def.def.Name {
			L.RaiseError("suggest.register: %s: %q", suggest.ErrDuplicateSuggester.Error(), s.Name)
			return 0
		}
	}

	h.suggesters = append(h.suggesters, h.suggester(def))
	return 0
}

// suggester binds the Lua callbacks of a definition.
func (h *Host) suggester(d luaDefinition) suggest.Suggester {
	s := d.def.Suggester()

	if fn := d.onChange; fn != nil {
		s.OnChange = func(p suggest.ChangeProps, _ *engine.Transaction) {
			h.invoke("on_change", fn, p.Props, p.Reason.String())
		}
	}
	if fn := d.onExit; fn != nil {
		s.OnExit = func(p suggest.ExitProps, _ *engine.Transaction) {
			h.invoke("on_exit", fn, p.Props, p.Reason.String())
		}
	}
	if len(d.keys) > 0 {
		s.KeyBindings = make(suggest.KeyBindings, len(d.keys))
		for name, fn := range d.keys {
			fn := fn
			callback := "keys." + name
			s.KeyBindings[name] = func(p suggest.KeyProps) bool {
				return h.invoke(callback, fn, p.Props, "")
			}
		}
	}
	return s
}

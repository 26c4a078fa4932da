package script

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/smallnest/swarmthing/ipc"
	"github.com/smallnest/swarmthing/log"
	"github.com/smallnest/swarmthing/pending"
	"github.com/smallnest/swarmthing/store"
)

// Runtime wraps one goja interpreter holding the cumulative merged
// program of every known tool. All interpreter access is serialized by
// a mutex: the interactive loop and the listener's request goroutines
// both mutate the merged program (create vs. approve), so it is never
// treated as single-owner state.
type Runtime struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	program *Program

	store   *store.ToolStore
	queue   *pending.Queue
	gateway *ipc.Gateway
	pool    *ipc.Pool
	logger  log.Logger

	secretsFile string
	listeners   int // listeners started via start_server, guarded by mu
}

// Config wires the runtime's collaborators. Store is required; the
// others may be nil, in which case the corresponding capabilities
// report themselves unconfigured instead of failing.
type Config struct {
	Store       *store.ToolStore
	Queue       *pending.Queue
	Gateway     *ipc.Gateway
	Pool        *ipc.Pool
	Logger      log.Logger
	SecretsFile string // copied by clone_agent when present, default ".env"
}

// NewRuntime creates a runtime with every native capability registered.
func NewRuntime(cfg Config) (*Runtime, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("script runtime requires a tool store")
	}

	r := &Runtime{
		vm:          goja.New(),
		program:     NewProgram(),
		store:       cfg.Store,
		queue:       cfg.Queue,
		gateway:     cfg.Gateway,
		pool:        cfg.Pool,
		logger:      cfg.Logger,
		secretsFile: cfg.SecretsFile,
	}
	if r.pool == nil {
		r.pool = ipc.NewPool(0, 0)
	}
	if r.logger == nil {
		r.logger = log.GetDefaultLogger()
	}
	if r.secretsFile == "" {
		r.secretsFile = ".env"
	}

	r.registerBuiltins()
	return r, nil
}

// Program returns a snapshot of the merged program's definition names.
func (r *Runtime) Program() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program.Names()
}

// Compile parses source into a Program without touching the running
// interpreter.
func (r *Runtime) Compile(source string) (*Program, error) {
	return CompileSource("tool", source)
}

// Merge installs every definition of prog into the running
// interpreter; names already merged are overridden.
func (r *Runtime) Merge(prog *Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mergeLocked(prog)
}

func (r *Runtime) mergeLocked(prog *Program) error {
	for _, name := range prog.Names() {
		def, _ := prog.Lookup(name)
		if _, err := r.vm.RunString(def.Source); err != nil {
			return &ExecError{Kind: ErrKindRuntimeFault, Name: name, Err: err}
		}
		r.program.add(def)
	}
	return nil
}

// Install persists a tool and merges its compiled form into the
// running program: the single path used by local creation and by
// approval of a shared tool. Satisfies pending.Installer.
func (r *Runtime) Install(name, code string) error {
	prog, err := CompileSource(name, code)
	if err != nil {
		return err
	}
	if err := r.store.Create(name, code); err != nil {
		return err
	}
	return r.Merge(prog)
}

// installLocked is Install for callers already holding the runtime
// mutex (capability calls executing inside a script).
func (r *Runtime) installLocked(name, code string) error {
	prog, err := CompileSource(name, code)
	if err != nil {
		return err
	}
	if err := r.store.Create(name, code); err != nil {
		return err
	}
	return r.mergeLocked(prog)
}

// LoadAll compiles every stored tool in sorted-name order and merges
// the result in one step. A single compile failure aborts the whole
// load: nothing from the failing load is merged.
func (r *Runtime) LoadAll() error {
	combined := NewProgram()
	for _, name := range r.store.List() {
		code, err := r.store.Inspect(name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		prog, err := CompileSource(name, code)
		if err != nil {
			return err
		}
		combined.Merge(prog)
	}
	return r.Merge(combined)
}

// Call dispatches a tool by name with zero or one string argument.
// Resolution first consults the merged program; on a miss it falls
// through to the interpreter's global bindings, which is where the
// native capabilities live. Merged definitions are themselves
// installed as globals, so both halves end in one lookup; the arena
// check keeps script-defined resolution observable on its own. An
// unresolvable name returns *ExecError with ErrKindNotFound; a throw
// during execution returns ErrKindRuntimeFault.
func (r *Runtime) Call(name string, args ...string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("tool %s: at most one argument is supported, got %d", name, len(args))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	jsArgs := make([]goja.Value, 0, 1)
	if len(args) == 1 {
		jsArgs = append(jsArgs, r.vm.ToValue(args[0]))
	}

	if _, merged := r.program.Lookup(name); !merged {
		r.logger.Debug("dispatch %s: not in merged program, trying native capabilities", name)
	}
	return r.callGlobal(name, jsArgs)
}

func (r *Runtime) callGlobal(name string, jsArgs []goja.Value) (string, error) {
	v := r.vm.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", &ExecError{Kind: ErrKindNotFound, Name: name}
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return "", &ExecError{Kind: ErrKindRuntimeFault, Name: name, Err: fmt.Errorf("%s is not callable", name)}
	}

	result, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return "", &ExecError{Kind: ErrKindRuntimeFault, Name: name, Err: err}
	}
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return "", nil
	}
	return result.String(), nil
}

package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"fortio.org/log"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// DefaultRecursionLimit is the call depth at which a call is refused.
const DefaultRecursionLimit = 50

// Config tunes evaluation semantics.
type Config struct {
	RecursionLimit int
	// BlockScoping gives bodies of if/while/for their own child scope.
	BlockScoping bool
}

func DefaultConfig() Config {
	return Config{RecursionLimit: DefaultRecursionLimit}
}

// Interpreter evaluates mlang syntax trees. Each instance owns its global
// scope and I/O; instances share no state.
type Interpreter struct {
	global *runtime.Environment
	config Config

	stdout io.Writer
	stderr io.Writer
	stdin  InputReader

	depth     int
	loopDepth int
	patterns  map[string]*regexp.Regexp
}

// Option configures an Interpreter.
type Option func(*Interpreter)

func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

func WithStderr(w io.Writer) Option {
	return func(i *Interpreter) { i.stderr = w }
}

// WithStdin sets the source used by read().
func WithStdin(r InputReader) Option {
	return func(i *Interpreter) { i.stdin = r }
}

func WithConfig(cfg Config) Option {
	return func(i *Interpreter) {
		if cfg.RecursionLimit <= 0 {
			cfg.RecursionLimit = DefaultRecursionLimit
		}
		i.config = cfg
	}
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		config:   DefaultConfig(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.stdin == nil {
		i.stdin = NewLineReader(os.Stdin)
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Config returns the active configuration.
func (i *Interpreter) Config() Config {
	return i.config
}

// EvaluateProgram runs top-level declarations in order, then the body of
// main (if one is bound) directly in the global scope.
func (i *Interpreter) EvaluateProgram(program *ast.Program) error {
	if program == nil {
		return nil
	}
	for _, decl := range program.Declarations {
		if fn, ok := decl.(*ast.FunctionDeclaration); ok {
			i.global.Define(fn.Name, &runtime.FunctionValue{Declaration: fn})
			log.LogVf("registered function %s", fn.Name)
			continue
		}
		if err := i.executeStatement(decl, i.global); err != nil {
			return err
		}
	}
	slot, err := i.global.Lookup("main")
	if err != nil {
		return nil
	}
	mainFn, ok := (*slot).(*runtime.FunctionValue)
	if !ok || mainFn.Declaration == nil {
		return nil
	}
	log.LogVf("running main")
	if mainFn.Declaration.Body == nil {
		return nil
	}
	return i.executeStatement(mainFn.Declaration.Body, i.global)
}

// Run evaluates program and reports a fatal error the way the command line
// does: "Runtime error: <message>" on stderr and exit status 1.
func (i *Interpreter) Run(program *ast.Program) int {
	if err := i.EvaluateProgram(program); err != nil {
		i.reportError(err)
		return 1
	}
	return 0
}

func (i *Interpreter) reportError(err error) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Line > 0 {
		log.LogVf("runtime error at line %d: %s", rerr.Line, rerr.Kind)
	}
	fmt.Fprintf(i.stderr, "Runtime error: %s\n", err.Error())
}

// warn prints a non-fatal diagnostic; evaluation continues.
func (i *Interpreter) warn(format string, args ...any) {
	fmt.Fprintf(i.stderr, "Runtime error: "+format+"\n", args...)
}

// Call invokes a user function bound in the global scope with Go-side
// arguments, following the same protocol as a call in source.
func (i *Interpreter) Call(name string, args ...runtime.Value) (runtime.Value, error) {
	slot, err := i.global.Lookup(name)
	if err != nil {
		return nil, newError(UndefinedFunction, "Undefined function '%s'", name)
	}
	fn, ok := (*slot).(*runtime.FunctionValue)
	if !ok {
		return nil, newError(UndefinedFunction, "Undefined function '%s'", name)
	}
	return i.invokeFunction(fn, func(idx int) (runtime.Value, error) {
		return runtime.Copy(args[idx]), nil
	}, len(args))
}

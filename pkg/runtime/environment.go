package runtime

import "fmt"

// UndefinedVariableError is returned when a name is not bound anywhere in the
// scope chain.
type UndefinedVariableError struct {
	Name string
}

func (e UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

type binding struct {
	name  string
	value Value
}

// Environment is one scope in the chain. Bindings keep insertion order.
type Environment struct {
	bindings []*binding
	index    map[string]int
	parent   *Environment

	ReturnValue Value
	Returning   bool
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		index:  make(map[string]int),
		parent: parent,
	}
}

// Parent exposes the enclosing scope (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

func (e *Environment) local(name string) *binding {
	if i, ok := e.index[name]; ok {
		return e.bindings[i]
	}
	return nil
}

// Lookup returns the storage slot of the nearest binding for name. Writes
// through the slot update the binding in place.
func (e *Environment) Lookup(name string) (*Value, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if b := scope.local(name); b != nil {
			return &b.value, nil
		}
	}
	return nil, UndefinedVariableError{Name: name}
}

// Get returns an independent copy of the bound value.
func (e *Environment) Get(name string) (Value, error) {
	slot, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Copy(*slot), nil
}

// Has reports whether name is bound in this scope or an ancestor.
func (e *Environment) Has(name string) bool {
	_, err := e.Lookup(name)
	return err == nil
}

// Define binds name in this scope, replacing any existing local binding.
func (e *Environment) Define(name string, value Value) {
	if b := e.local(name); b != nil {
		b.value = value
		return
	}
	e.index[name] = len(e.bindings)
	e.bindings = append(e.bindings, &binding{name: name, value: value})
}

// Assign overwrites the nearest existing binding, or defines name here when
// no scope in the chain has it.
func (e *Environment) Assign(name string, value Value) {
	for scope := e; scope != nil; scope = scope.parent {
		if b := scope.local(name); b != nil {
			b.value = value
			return
		}
	}
	e.Define(name, value)
}

// Names lists local bindings in insertion order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		out[i] = b.name
	}
	return out
}

// SetReturn records a return value and marks the scope as returning.
func (e *Environment) SetReturn(v Value) {
	if v == nil {
		v = VoidValue{}
	}
	e.ReturnValue = v
	e.Returning = true
}

func (e *Environment) IsReturning() bool {
	return e.Returning
}

// ClearReturn resets the return state so the scope can run statements again.
func (e *Environment) ClearReturn() {
	e.ReturnValue = nil
	e.Returning = false
}

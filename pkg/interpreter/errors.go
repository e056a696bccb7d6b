package interpreter

import (
	"errors"
	"fmt"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// ErrorKind classifies fatal runtime failures.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	UndefinedFunction
	DivideByZero
	ModuloByZero
	ModuloRequiresInt
	DimensionMismatch
	RaggedMatrix
	InvalidPattern
	NotAnLvalue
	NotNumeric
	RecursionLimitExceeded
	IndexOutOfRange
	TypeError
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case DivideByZero:
		return "DivideByZero"
	case ModuloByZero:
		return "ModuloByZero"
	case ModuloRequiresInt:
		return "ModuloRequiresInt"
	case DimensionMismatch:
		return "DimensionMismatch"
	case RaggedMatrix:
		return "RaggedMatrix"
	case InvalidPattern:
		return "InvalidPattern"
	case NotAnLvalue:
		return "NotAnLvalue"
	case NotNumeric:
		return "NotNumeric"
	case RecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case TypeError:
		return "TypeError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// RuntimeError is a fatal language-level failure. Error returns the message
// printed after the "Runtime error: " prefix.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// atLine records the line of the innermost node that raised err.
func atLine(err error, node ast.Node) error {
	var rerr *RuntimeError
	if node != nil && errors.As(err, &rerr) && rerr.Line == 0 {
		rerr.Line = node.Line()
	}
	return err
}

// fromRuntime maps errors surfaced by pkg/runtime into the taxonomy.
func fromRuntime(err error) error {
	if err == nil {
		return nil
	}
	var undef runtime.UndefinedVariableError
	if errors.As(err, &undef) {
		return &RuntimeError{Kind: UndefinedVariable, Message: undef.Error()}
	}
	var dim runtime.DimensionMismatchError
	if errors.As(err, &dim) {
		return &RuntimeError{Kind: DimensionMismatch, Message: dim.Error()}
	}
	if errors.Is(err, runtime.ErrRaggedMatrix) {
		return &RuntimeError{Kind: RaggedMatrix, Message: err.Error()}
	}
	return err
}

// IsKind reports whether err is a RuntimeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rerr *RuntimeError
	return errors.As(err, &rerr) && rerr.Kind == kind
}

type breakSignal struct{}

func (breakSignal) Error() string {
	return "break outside loop"
}

type continueSignal struct{}

func (continueSignal) Error() string {
	return "continue outside loop"
}

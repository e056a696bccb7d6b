package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mlang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindVoid
	KindMatrix
	KindFunction
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindMatrix:
		return "matrix"
	case KindFunction:
		return "function"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

//-----------------------------------------------------------------------------
// Matrices, arrays, functions
//-----------------------------------------------------------------------------

type MatrixValue struct {
	M *Matrix
}

func (v *MatrixValue) Kind() Kind { return KindMatrix }

// NewMatrixValue returns a zero-filled rows x cols matrix value.
func NewMatrixValue(rows, cols int) *MatrixValue {
	return &MatrixValue{M: NewMatrix(rows, cols)}
}

// MatrixFrom wraps a duplicate of m; later changes to m are not observed.
func MatrixFrom(m *Matrix) *MatrixValue {
	if m == nil {
		return NewMatrixValue(0, 0)
	}
	return &MatrixValue{M: m.Clone()}
}

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// FunctionValue refers to a declaration owned by the syntax tree. Function
// values carry no environment: calls always run against the global scope.
type FunctionValue struct {
	Declaration *ast.FunctionDeclaration
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Name returns the declared function name.
func (v *FunctionValue) Name() string {
	if v == nil || v.Declaration == nil {
		return ""
	}
	return v.Declaration.Name
}

//-----------------------------------------------------------------------------
// Copy / zero / format
//-----------------------------------------------------------------------------

// Copy returns an independent deep copy. Strings are immutable in Go, so
// sharing them is indistinguishable from copying.
func Copy(v Value) Value {
	switch val := v.(type) {
	case nil:
		return VoidValue{}
	case *MatrixValue:
		return MatrixFrom(val.M)
	case *ArrayValue:
		out := make([]Value, len(val.Elements))
		for i, el := range val.Elements {
			out[i] = Copy(el)
		}
		return &ArrayValue{Elements: out}
	case *FunctionValue:
		return &FunctionValue{Declaration: val.Declaration}
	default:
		return v
	}
}

// ZeroValue is the default value of a declared type without initializer.
func ZeroValue(dataType ast.DataType) Value {
	switch dataType {
	case ast.TypeInt:
		return IntValue{}
	case ast.TypeFloat:
		return FloatValue{}
	case ast.TypeBool:
		return BoolValue{}
	case ast.TypeString:
		return StringValue{}
	case ast.TypeMatrix:
		return NewMatrixValue(0, 0)
	default:
		return VoidValue{}
	}
}

// IsNumeric reports whether v is an int or a float.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue:
		return true
	}
	return false
}

// ToFloat widens a numeric value to float64.
func ToFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntValue:
		return float64(val.Val), true
	case FloatValue:
		return val.Val, true
	}
	return 0, false
}

// Format renders v the way print shows it.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return "void"
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return FormatFloat(val.Val)
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case VoidValue:
		return "void"
	case *MatrixValue:
		return FormatMatrix(val.M)
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = Format(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionValue:
		return "<function " + val.Name() + ">"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// FormatFloat matches C's %g: six significant digits, trailing zeros dropped.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

package interpreter

import (
	"regexp"
	"strings"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case ast.OpAnd, ast.OpOr:
		return i.evaluateLogical(expr, env)
	}
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return applyArithmetic(expr.Operator, left, right)
	case ast.OpMatMul:
		return applyMatrixMultiply(left, right)
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return applyComparison(expr.Operator, left, right)
	case ast.OpEq:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case ast.OpNe:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case ast.OpPatternMatch:
		return runtime.BoolValue{Val: i.patternMatch(left, right)}, nil
	default:
		return nil, newError(TypeError, "Unsupported binary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	lt, err := truthy(left)
	if err != nil {
		return nil, err
	}
	if expr.Operator == ast.OpAnd && !lt {
		return runtime.BoolValue{Val: false}, nil
	}
	if expr.Operator == ast.OpOr && lt {
		return runtime.BoolValue{Val: true}, nil
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	rt, err := truthy(right)
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: rt}, nil
}

// truthy accepts bool directly and int as non-zero.
func truthy(v runtime.Value) (bool, error) {
	switch val := v.(type) {
	case runtime.BoolValue:
		return val.Val, nil
	case runtime.IntValue:
		return val.Val != 0, nil
	}
	kind := "void"
	if v != nil {
		kind = v.Kind().String()
	}
	return false, newError(TypeError, "Condition must be bool or int, got %s", kind)
}

func applyArithmetic(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	if op == ast.OpMod {
		l, lok := left.(runtime.IntValue)
		r, rok := right.(runtime.IntValue)
		if !lok || !rok {
			return nil, newError(ModuloRequiresInt, "Modulo operator requires integer operands")
		}
		if r.Val == 0 {
			return nil, newError(ModuloByZero, "Modulo by zero")
		}
		return runtime.IntValue{Val: l.Val % r.Val}, nil
	}
	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, newError(TypeError, "Arithmetic requires numeric operands")
	}
	if op == ast.OpDiv {
		if rf == 0 {
			return nil, newError(DivideByZero, "Division by zero")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	}
	l, lint := left.(runtime.IntValue)
	r, rint := right.(runtime.IntValue)
	if lint && rint {
		switch op {
		case ast.OpAdd:
			return runtime.IntValue{Val: l.Val + r.Val}, nil
		case ast.OpSub:
			return runtime.IntValue{Val: l.Val - r.Val}, nil
		case ast.OpMul:
			return runtime.IntValue{Val: l.Val * r.Val}, nil
		}
	}
	switch op {
	case ast.OpAdd:
		return runtime.FloatValue{Val: lf + rf}, nil
	case ast.OpSub:
		return runtime.FloatValue{Val: lf - rf}, nil
	default:
		return runtime.FloatValue{Val: lf * rf}, nil
	}
}

func applyMatrixMultiply(left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(*runtime.MatrixValue)
	r, rok := right.(*runtime.MatrixValue)
	if !lok || !rok {
		return nil, newError(TypeError, "Matrix multiplication requires matrix operands")
	}
	product, err := runtime.Multiply(l.M, r.M)
	if err != nil {
		return nil, fromRuntime(err)
	}
	return &runtime.MatrixValue{M: product}, nil
}

func applyComparison(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	l, lok := runtime.ToFloat(left)
	r, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, newError(TypeError, "Comparison requires numeric operands")
	}
	var result bool
	switch op {
	case ast.OpLt:
		result = l < r
	case ast.OpGt:
		result = l > r
	case ast.OpLe:
		result = l <= r
	case ast.OpGe:
		result = l >= r
	}
	return runtime.BoolValue{Val: result}, nil
}

func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.IntValue:
		switch r := right.(type) {
		case runtime.IntValue:
			return l.Val == r.Val
		case runtime.FloatValue:
			return float64(l.Val) == r.Val
		}
	case runtime.FloatValue:
		if r, ok := runtime.ToFloat(right); ok {
			return l.Val == r
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return l.Val == r.Val
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return l.Val == r.Val
		}
	case *runtime.MatrixValue:
		if r, ok := right.(*runtime.MatrixValue); ok {
			return runtime.Equal(l.M, r.M)
		}
	}
	return false
}

// patternMatch is an unanchored POSIX extended match of left against the
// pattern in right. Non-string operands never match; a pattern that does not
// compile is reported and treated as no match.
func (i *Interpreter) patternMatch(left, right runtime.Value) bool {
	subject, ok := left.(runtime.StringValue)
	if !ok {
		return false
	}
	pattern, ok := right.(runtime.StringValue)
	if !ok {
		return false
	}
	re, err := i.compilePattern(pattern.Val)
	if err != nil {
		i.warn("Invalid regex pattern: %s", patternErrorDetail(err))
		return false
	}
	return re.MatchString(subject.Val)
}

func (i *Interpreter) compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := i.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, err
	}
	i.patterns[pattern] = re
	return re, nil
}

func patternErrorDetail(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, "error parsing regexp: ")
}

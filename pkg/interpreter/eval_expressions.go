package interpreter

import (
	"fortio.org/log"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// evaluateExpression handles every expression node kind.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpressionNode(node, env)
	if err != nil {
		return nil, atLine(err, node)
	}
	return val, nil
}

func (i *Interpreter) evaluateExpressionNode(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.ArrayLiteral:
		return i.evaluateMatrixLiteral(n, env)
	case *ast.Identifier:
		val, err := env.Get(n.Name)
		if err != nil {
			return nil, fromRuntime(err)
		}
		return val, nil
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.UpdateExpression:
		return i.evaluateUpdateExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignmentExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case nil:
		return runtime.VoidValue{}, nil
	default:
		i.warn("Unhandled expression type %s", node.NodeType())
		return runtime.VoidValue{}, nil
	}
}

// evaluateMatrixLiteral converts an array literal into a matrix. Whether the
// literal is flat or nested is decided by the shape of the tree, not by the
// values the elements produce.
func (i *Interpreter) evaluateMatrixLiteral(lit *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	if len(lit.Elements) == 0 {
		return runtime.NewMatrixValue(0, 0), nil
	}
	if _, nested := lit.Elements[0].(*ast.ArrayLiteral); !nested {
		out := runtime.NewMatrixValue(1, len(lit.Elements))
		for j, el := range lit.Elements {
			cell, err := i.evaluateCell(el, env)
			if err != nil {
				return nil, err
			}
			out.M.Set(0, j, cell)
		}
		return out, nil
	}
	cols := len(lit.Elements[0].(*ast.ArrayLiteral).Elements)
	out := runtime.NewMatrixValue(len(lit.Elements), cols)
	for r, rowExpr := range lit.Elements {
		row, ok := rowExpr.(*ast.ArrayLiteral)
		if !ok {
			return nil, newError(RaggedMatrix, "Matrix row must be an array")
		}
		if len(row.Elements) != cols {
			return nil, fromRuntime(runtime.ErrRaggedMatrix)
		}
		for c, el := range row.Elements {
			cell, err := i.evaluateCell(el, env)
			if err != nil {
				return nil, err
			}
			out.M.Set(r, c, cell)
		}
	}
	return out, nil
}

// evaluateCell yields the numeric value of a matrix cell; other kinds are 0.
func (i *Interpreter) evaluateCell(expr ast.Expression, env *runtime.Environment) (float64, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return 0, err
	}
	f, _ := runtime.ToFloat(val)
	return f, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryOperatorNegate:
		switch v := operand.(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
		return nil, newError(TypeError, "Unary minus requires numeric operand")
	case ast.UnaryOperatorNot:
		t, err := truthy(operand)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !t}, nil
	default:
		return nil, newError(TypeError, "Unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateUpdateExpression(expr *ast.UpdateExpression, env *runtime.Environment) (runtime.Value, error) {
	delta, verb := int64(1), "increment"
	if expr.Operator == ast.UpdateDecrement {
		delta, verb = -1, "decrement"
	}
	ident, ok := expr.Operand.(*ast.Identifier)
	if !ok {
		return nil, newError(NotAnLvalue, "%s requires lvalue", updateLabel(expr.Prefix, verb))
	}
	slot, err := env.Lookup(ident.Name)
	if err != nil {
		return nil, fromRuntime(err)
	}
	old := *slot
	var updated runtime.Value
	switch v := old.(type) {
	case runtime.IntValue:
		updated = runtime.IntValue{Val: v.Val + delta}
	case runtime.FloatValue:
		updated = runtime.FloatValue{Val: v.Val + float64(delta)}
	default:
		return nil, newError(NotNumeric, "Cannot %s non-numeric type", verb)
	}
	*slot = updated
	if expr.Prefix {
		return updated, nil
	}
	return old, nil
}

func updateLabel(prefix bool, verb string) string {
	if prefix {
		return "Pre-" + verb
	}
	return "Post-" + verb
}

func (i *Interpreter) evaluateAssignmentExpression(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	ident, ok := expr.Left.(*ast.Identifier)
	if !ok {
		return nil, newError(NotAnLvalue, "Assignment requires lvalue")
	}
	if expr.Operator == ast.AssignmentAssign || expr.Operator == "" {
		val, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		env.Assign(ident.Name, runtime.Copy(val))
		log.LogVf("assign %s = %s", ident.Name, val.Kind())
		return val, nil
	}

	var op ast.BinaryOperator
	switch expr.Operator {
	case ast.AssignmentAdd:
		op = ast.OpAdd
	case ast.AssignmentSub:
		op = ast.OpSub
	case ast.AssignmentMul:
		op = ast.OpMul
	case ast.AssignmentDiv:
		op = ast.OpDiv
	default:
		return nil, newError(TypeError, "Unsupported assignment operator %s", expr.Operator)
	}
	current, err := env.Get(ident.Name)
	if err != nil {
		return nil, fromRuntime(err)
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	result, err := applyArithmetic(op, current, right)
	if err != nil {
		return nil, err
	}
	env.Assign(ident.Name, result)
	return runtime.Copy(result), nil
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	indexVal, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := indexVal.(runtime.IntValue)
	if !ok {
		return nil, newError(TypeError, "Index must be an int, got %s", indexVal.Kind())
	}
	switch obj := object.(type) {
	case *runtime.ArrayValue:
		if idx.Val < 0 || idx.Val >= int64(len(obj.Elements)) {
			return nil, newError(IndexOutOfRange, "Index %d out of range for array of length %d", idx.Val, len(obj.Elements))
		}
		return runtime.Copy(obj.Elements[idx.Val]), nil
	case *runtime.MatrixValue:
		if idx.Val < 0 || idx.Val >= int64(obj.M.Rows) {
			return nil, newError(IndexOutOfRange, "Index %d out of range for matrix with %d rows", idx.Val, obj.M.Rows)
		}
		row := obj.M.Row(int(idx.Val))
		elements := make([]runtime.Value, len(row))
		for j, cell := range row {
			elements[j] = runtime.FloatValue{Val: cell}
		}
		return &runtime.ArrayValue{Elements: elements}, nil
	default:
		return nil, newError(TypeError, "Cannot index value of kind %s", object.Kind())
	}
}

package interpreter

import (
	"fortio.org/log"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// executeStatement runs node in env. Nothing runs once env is returning.
func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) error {
	if node == nil || env.IsReturning() {
		return nil
	}
	if err := i.executeStatementNode(node, env); err != nil {
		return atLine(err, node)
	}
	return nil
}

func (i *Interpreter) executeStatementNode(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		if n.Expression == nil {
			return nil
		}
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.StatementList:
		for _, stmt := range n.Statements {
			if env.IsReturning() {
				break
			}
			if err := i.executeStatement(stmt, env); err != nil {
				return err
			}
		}
		return nil
	case *ast.VariableDeclaration:
		return i.executeVariableDeclaration(n, env)
	case *ast.ArrayDeclaration:
		return i.executeArrayDeclaration(n, env)
	case *ast.FunctionDeclaration:
		env.Define(n.Name, &runtime.FunctionValue{Declaration: n})
		return nil
	case *ast.IfStatement:
		return i.executeIfStatement(n, env)
	case *ast.WhileStatement:
		return i.executeWhileStatement(n, env)
	case *ast.ForStatement:
		return i.executeForStatement(n, env)
	case *ast.ForRangeStatement:
		return i.executeForRangeStatement(n, env)
	case *ast.ReturnStatement:
		var result runtime.Value = runtime.VoidValue{}
		if n.Argument != nil {
			val, err := i.evaluateExpression(n.Argument, env)
			if err != nil {
				return err
			}
			result = val
		}
		env.SetReturn(result)
		return nil
	case *ast.BreakStatement:
		if i.loopDepth == 0 {
			return newError(TypeError, "break outside loop")
		}
		return breakSignal{}
	case *ast.ContinueStatement:
		if i.loopDepth == 0 {
			return newError(TypeError, "continue outside loop")
		}
		return continueSignal{}
	default:
		return newError(TypeError, "unsupported statement type: %s", node.NodeType())
	}
}

// executeBody runs the body of a branch or loop, in a child scope when block
// scoping is enabled.
func (i *Interpreter) executeBody(body ast.Statement, env *runtime.Environment) error {
	if !i.config.BlockScoping {
		return i.executeStatement(body, env)
	}
	scope := env.Extend()
	err := i.executeStatement(body, scope)
	propagateReturn(scope, env)
	return err
}

func propagateReturn(from, to *runtime.Environment) {
	if from != to && from.IsReturning() {
		to.SetReturn(from.ReturnValue)
	}
}

// runLoopBody executes one iteration and reports whether the loop must stop.
func (i *Interpreter) runLoopBody(body ast.Statement, env *runtime.Environment) (bool, error) {
	i.loopDepth++
	err := i.executeBody(body, env)
	i.loopDepth--
	if err != nil {
		switch err.(type) {
		case breakSignal:
			return true, nil
		case continueSignal:
			return env.IsReturning(), nil
		default:
			return true, err
		}
	}
	return env.IsReturning(), nil
}

func (i *Interpreter) condition(expr ast.Expression, env *runtime.Environment) (bool, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return false, err
	}
	return truthy(val)
}

func (i *Interpreter) executeIfStatement(stmt *ast.IfStatement, env *runtime.Environment) error {
	ok, err := i.condition(stmt.Condition, env)
	if err != nil {
		return err
	}
	if ok {
		return i.executeBody(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.executeBody(stmt.Else, env)
	}
	return nil
}

func (i *Interpreter) executeWhileStatement(loop *ast.WhileStatement, env *runtime.Environment) error {
	for {
		ok, err := i.condition(loop.Condition, env)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil || stop {
			return err
		}
	}
}

func (i *Interpreter) executeForStatement(loop *ast.ForStatement, env *runtime.Environment) error {
	loopEnv := env
	if i.config.BlockScoping {
		loopEnv = env.Extend()
		defer propagateReturn(loopEnv, env)
	}
	if err := i.executeStatement(loop.Init, loopEnv); err != nil {
		return err
	}
	for {
		if loop.Condition != nil {
			ok, err := i.condition(loop.Condition, loopEnv)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		stop, err := i.runLoopBody(loop.Body, loopEnv)
		if err != nil || stop {
			return err
		}
		if loop.Increment != nil {
			if _, err := i.evaluateExpression(loop.Increment, loopEnv); err != nil {
				return err
			}
		}
	}
}

func (i *Interpreter) executeForRangeStatement(loop *ast.ForRangeStatement, env *runtime.Environment) error {
	rng := loop.Range
	if rng == nil {
		return newError(TypeError, "for-range requires a range")
	}
	start, err := i.rangeBound(rng.Start, env)
	if err != nil {
		return err
	}
	end, err := i.rangeBound(rng.End, env)
	if err != nil {
		return err
	}
	step := int64(1)
	if rng.Step != nil {
		step, err = i.rangeBound(rng.Step, env)
		if err != nil {
			return err
		}
	}
	if step == 0 {
		return newError(TypeError, "Range step cannot be zero")
	}
	limit := end
	if !rng.Inclusive() {
		limit = end - 1
	}
	log.LogVf("for %s in %d..%d step %d", loop.Iterator, start, limit, step)
	for v := start; (step > 0 && v <= limit) || (step < 0 && v >= limit); v += step {
		env.Define(loop.Iterator, runtime.IntValue{Val: v})
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

// rangeBound evaluates a range operand; floats are truncated toward zero.
func (i *Interpreter) rangeBound(expr ast.Expression, env *runtime.Environment) (int64, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case runtime.IntValue:
		return v.Val, nil
	case runtime.FloatValue:
		return int64(v.Val), nil
	}
	return 0, newError(TypeError, "Range bounds must be numeric, got %s", val.Kind())
}

func (i *Interpreter) executeVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) error {
	var val runtime.Value
	if decl.Initializer != nil {
		v, err := i.evaluateExpression(decl.Initializer, env)
		if err != nil {
			return err
		}
		val = v
	} else {
		val = runtime.ZeroValue(decl.VarType.Base)
	}
	env.Define(decl.Name, val)
	return nil
}

func (i *Interpreter) executeArrayDeclaration(decl *ast.ArrayDeclaration, env *runtime.Environment) error {
	base := decl.ElementType.Base
	if base == ast.TypeMatrix {
		var val runtime.Value = runtime.NewMatrixValue(0, 0)
		if decl.Initializer != nil {
			m, err := i.evaluateMatrixLiteral(decl.Initializer, env)
			if err != nil {
				return err
			}
			val = m
		}
		env.Define(decl.Name, val)
		return nil
	}

	var inits []ast.Expression
	if decl.Initializer != nil {
		inits = decl.Initializer.Elements
	}
	size := len(inits)
	if decl.ElementType.ArraySize > 0 {
		size = decl.ElementType.ArraySize
	}
	if decl.Size != nil {
		val, err := i.evaluateExpression(decl.Size, env)
		if err != nil {
			return err
		}
		n, ok := val.(runtime.IntValue)
		if !ok {
			return newError(TypeError, "Array size must be an int, got %s", val.Kind())
		}
		if n.Val < 0 {
			return newError(TypeError, "Array size must be non-negative, got %d", n.Val)
		}
		size = int(n.Val)
	}
	if len(inits) > size {
		return newError(TypeError, "Too many initializers for array '%s' (size %d)", decl.Name, size)
	}
	elements := make([]runtime.Value, size)
	for idx := range elements {
		if idx < len(inits) {
			val, err := i.evaluateExpression(inits[idx], env)
			if err != nil {
				return err
			}
			elements[idx] = val
			continue
		}
		elements[idx] = runtime.ZeroValue(base)
	}
	env.Define(decl.Name, &runtime.ArrayValue{Elements: elements})
	return nil
}

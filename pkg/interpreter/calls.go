package interpreter

import (
	"fortio.org/log"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// argumentSource yields the value of the idx-th argument on demand, so that
// surplus arguments are never evaluated.
type argumentSource func(idx int) (runtime.Value, error)

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee == nil {
		return nil, newError(TypeError, "Callee must be an identifier")
	}
	if builtin, ok := builtins[callee.Name]; ok {
		return builtin(i, call.Arguments, env)
	}
	slot, err := env.Lookup(callee.Name)
	if err != nil {
		return nil, newError(UndefinedFunction, "Undefined function '%s'", callee.Name)
	}
	fn, ok := (*slot).(*runtime.FunctionValue)
	if !ok || fn.Declaration == nil {
		return nil, newError(UndefinedFunction, "Undefined function '%s'", callee.Name)
	}
	return i.invokeFunction(fn, func(idx int) (runtime.Value, error) {
		return i.evaluateExpression(call.Arguments[idx], env)
	}, len(call.Arguments))
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args argumentSource, argc int) (runtime.Value, error) {
	decl := fn.Declaration
	if i.depth >= i.config.RecursionLimit {
		return nil, newError(RecursionLimitExceeded, "Max recursion depth (%d) exceeded", i.config.RecursionLimit)
	}
	scope := runtime.NewEnvironment(i.global)
	i.depth++
	savedLoops := i.loopDepth
	i.loopDepth = 0
	defer func() {
		i.depth--
		i.loopDepth = savedLoops
	}()

	bound := min(len(decl.Params), argc)
	for idx := 0; idx < bound; idx++ {
		val, err := args(idx)
		if err != nil {
			return nil, err
		}
		param := decl.Params[idx]
		if param == nil {
			continue
		}
		scope.Define(param.Name, val)
	}
	log.LogVf("call %s depth=%d args=%d", decl.Name, i.depth, bound)

	if decl.Body != nil {
		if err := i.executeStatement(decl.Body, scope); err != nil {
			return nil, err
		}
	}
	if !scope.IsReturning() || scope.ReturnValue == nil {
		return runtime.VoidValue{}, nil
	}
	return runtime.Copy(scope.ReturnValue), nil
}

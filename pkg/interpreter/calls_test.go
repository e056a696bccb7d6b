package interpreter

import (
	"strings"
	"testing"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

func TestRecursionLimit(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("dive", ast.TypeVoid, []*ast.Parameter{ast.Param(ast.TypeInt, "n")},
			ast.Print(ast.ID("n")),
			ast.Expr(ast.Call("dive", ast.Bin(ast.OpAdd, ast.ID("n"), ast.Int(1)))),
		),
		ast.Fn("main", ast.TypeVoid, nil, ast.Expr(ast.Call("dive", ast.Int(1)))),
	)
	out := runProgram(t, prog)
	expectKind(t, out.err, RecursionLimitExceeded, "Max recursion depth (50) exceeded")
	lines := strings.Split(strings.TrimSpace(out.stdout), "\n")
	if len(lines) != 50 || lines[49] != "50" {
		t.Fatalf("expected 50 frames to run before the limit, got %d lines", len(lines))
	}
}

func TestRecursionLimitConfigurable(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("loop", ast.TypeVoid, nil, ast.Expr(ast.Call("loop"))),
		ast.Fn("main", ast.TypeVoid, nil, ast.Expr(ast.Call("loop"))),
	)
	out := runProgram(t, prog, WithConfig(Config{RecursionLimit: 3}))
	expectKind(t, out.err, RecursionLimitExceeded, "Max recursion depth (3) exceeded")
}

func TestRecursionDepthUnwinds(t *testing.T) {
	// fact(10) repeated many times must not accumulate depth.
	prog := ast.Prog(
		ast.Fn("fact", ast.TypeInt, []*ast.Parameter{ast.Param(ast.TypeInt, "n")},
			ast.If(ast.Bin(ast.OpLe, ast.ID("n"), ast.Int(1)), ast.Block(ast.Ret(ast.Int(1)))),
			ast.Ret(ast.Bin(ast.OpMul, ast.ID("n"), ast.Call("fact", ast.Bin(ast.OpSub, ast.ID("n"), ast.Int(1))))),
		),
		ast.Fn("main", ast.TypeVoid, nil,
			ast.ForRange("i", ast.Range(ast.Int(0), ast.Int(100), false),
				ast.Var(ast.TypeInt, "r", ast.Call("fact", ast.Int(10))),
			),
			ast.Print(ast.ID("r")),
		),
	)
	out := runProgram(t, prog)
	if out.err != nil || out.stdout != "3628800\n" {
		t.Fatalf("expected 3628800, got %q (%v)", out.stdout, out.err)
	}
}

func TestCallHasNoClosure(t *testing.T) {
	prog := ast.Prog(
		ast.Var(ast.TypeInt, "shared", ast.Int(7)),
		ast.Fn("peek", ast.TypeInt, nil, ast.Ret(ast.Bin(ast.OpAdd, ast.ID("shared"), ast.ID("local")))),
		ast.Fn("caller", ast.TypeVoid, nil,
			ast.Var(ast.TypeInt, "local", ast.Int(1)),
			ast.Print(ast.Call("peek")),
		),
		ast.Fn("main", ast.TypeVoid, nil, ast.Expr(ast.Call("caller"))),
	)
	out := runProgram(t, prog)
	expectKind(t, out.err, UndefinedVariable, "Undefined variable 'local'")
}

func TestArgumentBinding(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("pair", ast.TypeVoid, []*ast.Parameter{ast.Param(ast.TypeInt, "a"), ast.Param(ast.TypeInt, "b")},
			ast.Print(ast.ID("a")),
			ast.Print(ast.ID("b")),
		),
		ast.Fn("main", ast.TypeVoid, nil,
			// The surplus argument is never evaluated, so its division by zero is harmless.
			ast.Expr(ast.Call("pair", ast.Int(1), ast.Int(2), ast.Bin(ast.OpDiv, ast.Int(1), ast.Int(0)))),
			ast.Expr(ast.Call("pair", ast.Int(3))),
		),
	)
	out := runProgram(t, prog)
	if out.stdout != "1\n2\n3\n" {
		t.Fatalf("unexpected output %q", out.stdout)
	}
	expectKind(t, out.err, UndefinedVariable, "Undefined variable 'b'")
}

func TestReturnValues(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("nothing", ast.TypeVoid, nil, ast.Print(ast.Str("side effect"))),
		ast.Fn("early", ast.TypeInt, nil,
			ast.Ret(ast.Int(1)),
			ast.Print(ast.Str("unreachable")),
		),
		ast.Fn("bare", ast.TypeVoid, nil, ast.Ret(nil)),
		ast.Fn("main", ast.TypeVoid, nil,
			ast.Print(ast.Call("nothing")),
			ast.Print(ast.Call("early")),
			ast.Print(ast.Call("bare")),
		),
	)
	out := runProgram(t, prog)
	if out.err != nil {
		t.Fatalf("unexpected error: %v", out.err)
	}
	want := "side effect\nvoid\n1\nvoid\n"
	if out.stdout != want {
		t.Fatalf("expected %q, got %q", want, out.stdout)
	}
}

func TestCallErrors(t *testing.T) {
	out := runMain(t, ast.Expr(ast.Call("missing")))
	expectKind(t, out.err, UndefinedFunction, "Undefined function 'missing'")

	out = runMain(t,
		ast.Var(ast.TypeInt, "x", ast.Int(1)),
		ast.Expr(ast.Call("x")),
	)
	expectKind(t, out.err, UndefinedFunction, "Undefined function 'x'")

	out = runMain(t, ast.Expr(ast.CallExpr(ast.Int(3))))
	expectKind(t, out.err, TypeError, "Callee must be an identifier")
}

func TestBuiltinsShadowUserFunctions(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("print", ast.TypeVoid, nil, ast.Expr(ast.Call("nope"))),
		ast.Fn("main", ast.TypeVoid, nil, ast.Print(ast.Str("builtin"))),
	)
	out := runProgram(t, prog)
	if out.err != nil || out.stdout != "builtin\n" {
		t.Fatalf("expected builtin print, got %q (%v)", out.stdout, out.err)
	}
}

func TestEmbeddingCall(t *testing.T) {
	prog := ast.Prog(
		ast.Fn("scale", ast.TypeMatrix, []*ast.Parameter{ast.Param(ast.TypeMatrix, "m")},
			ast.Ret(ast.Bin(ast.OpMatMul, ast.ID("m"), ast.Mat([]float64{2, 0}, []float64{0, 2}))),
		),
	)
	interp := New()
	if err := interp.EvaluateProgram(prog); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	input := runtime.NewMatrixValue(1, 2)
	input.M.Set(0, 0, 1)
	input.M.Set(0, 1, 3)
	got, err := interp.Call("scale", input)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	m, ok := got.(*runtime.MatrixValue)
	if !ok || m.M.At(0, 0) != 2 || m.M.At(0, 1) != 6 {
		t.Fatalf("unexpected result %#v", got)
	}
	if input.M.At(0, 0) != 1 {
		t.Fatalf("call must not mutate caller-owned arguments")
	}
	if _, err := interp.Call("absent"); !IsKind(err, UndefinedFunction) {
		t.Fatalf("expected UndefinedFunction, got %v", err)
	}
}

package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

func TestPrintFormats(t *testing.T) {
	got := mustRun(t,
		ast.Print(ast.Int(1), ast.Flt(2.5), ast.Str("s"), ast.Bool(true)),
		ast.Print(),
		ast.Print(ast.Flt(1.0/3.0)),
		ast.Print(ast.Mat([]float64{1, 2})),
	)
	want := "1 2.5 s true\n\n0.333333\n[\n  [1, 2]\n]\n\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrintm(t *testing.T) {
	out := runMain(t,
		ast.Expr(ast.Call("printm",
			ast.Mat([]float64{1, 2.5}, []float64{3, 4}),
			ast.Int(3),
			ast.Mat(),
		)),
		ast.Print(ast.Str("done")),
	)
	if out.err != nil {
		t.Fatalf("unexpected error: %v", out.err)
	}
	want := "[\n  [1, 2.5],\n  [3, 4]\n]\n[\n]\ndone\n"
	if out.stdout != want {
		t.Fatalf("expected %q, got %q", want, out.stdout)
	}
	if out.stderr != "Runtime error: printm() expects a matrix argument\n" {
		t.Fatalf("unexpected diagnostics %q", out.stderr)
	}
}

func TestParseInput(t *testing.T) {
	cases := []struct {
		line string
		want runtime.Value
	}{
		{"42", runtime.IntValue{Val: 42}},
		{"-7", runtime.IntValue{Val: -7}},
		{"  12", runtime.IntValue{Val: 12}},
		{"", runtime.IntValue{Val: 0}},
		{"3.5", runtime.FloatValue{Val: 3.5}},
		{"1e3", runtime.FloatValue{Val: 1000}},
		{"12abc", runtime.StringValue{Val: "12abc"}},
		{"hello world", runtime.StringValue{Val: "hello world"}},
		{"   ", runtime.StringValue{Val: "   "}},
	}
	for _, tc := range cases {
		if got := ParseInput(tc.line); got != tc.want {
			t.Fatalf("%q: expected %#v, got %#v", tc.line, tc.want, got)
		}
	}
}

func TestReadBuiltin(t *testing.T) {
	var stdout bytes.Buffer
	interp := New(
		WithStdout(&stdout),
		WithStdin(NewLineReader(strings.NewReader("5\r\n2.5\nname\nlast"))),
	)
	prog := ast.Prog(ast.Fn("main", ast.TypeVoid, nil,
		ast.Var(ast.TypeInt, "a", ast.Call("read")),
		ast.Var(ast.TypeFloat, "b", ast.Call("read")),
		ast.Print(ast.Bin(ast.OpAdd, ast.ID("a"), ast.ID("b"))),
		ast.Print(ast.Call("read")),
		ast.Print(ast.Call("read")),
		ast.Print(ast.Call("read")),
	))
	if err := interp.EvaluateProgram(prog); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if diff := cmp.Diff([]string{"7.5", "name", "last", "void"}, lines); diff != "" {
		t.Fatalf("read output mismatch (-want +got):\n%s", diff)
	}
}

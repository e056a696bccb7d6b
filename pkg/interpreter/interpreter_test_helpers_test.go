package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"mlang/interpreter-go/pkg/ast"
)

type runOutput struct {
	stdout string
	stderr string
	err    error
}

func runProgram(t *testing.T, program *ast.Program, opts ...Option) runOutput {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []Option{
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithStdin(NewLineReader(strings.NewReader(""))),
	}
	interp := New(append(base, opts...)...)
	err := interp.EvaluateProgram(program)
	return runOutput{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// runMain wraps statements in a main function and runs the program.
func runMain(t *testing.T, body ...ast.Statement) runOutput {
	t.Helper()
	return runProgram(t, ast.Prog(ast.Fn("main", ast.TypeVoid, nil, body...)))
}

func mustRun(t *testing.T, body ...ast.Statement) string {
	t.Helper()
	out := runMain(t, body...)
	if out.err != nil {
		t.Fatalf("unexpected error: %v", out.err)
	}
	return out.stdout
}

func expectKind(t *testing.T, err error, kind ErrorKind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error", kind)
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	if rerr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%s)", kind, rerr.Kind, rerr.Message)
	}
	if message != "" && rerr.Message != message {
		t.Fatalf("expected message %q, got %q", message, rerr.Message)
	}
}

package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"mlang/interpreter-go/pkg/ast"
)

const greetingTree = `{"type":"Program","declarations":[
  {"type":"FunctionDeclaration","name":"main","returnType":{"base":"void"},"params":[],
   "body":{"type":"StatementList","statements":[
     {"type":"ExpressionStatement","expression":{"type":"FunctionCall",
      "callee":{"type":"Identifier","name":"print"},
      "arguments":[{"type":"StringLiteral","value":"hello"}]}}]}}]}`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add("trees/main.json"); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "mlang",
			Email: "mlang@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func mainName(t *testing.T, program *ast.Program) string {
	t.Helper()
	if len(program.Declarations) != 1 {
		t.Fatalf("expected one declaration, got %d", len(program.Declarations))
	}
	fn, ok := program.Declarations[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected function declaration, got %T", program.Declarations[0])
	}
	return fn.Name
}

func TestLoadProgramFromDisk(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "main.json")
	writeFile(t, jsonPath, greetingTree)
	yamlPath := filepath.Join(dir, "main.yml")
	writeFile(t, yamlPath, `
type: Program
declarations:
  - type: FunctionDeclaration
    name: main
    returnType: {base: void}
    body: {type: StatementList, statements: []}
`)
	for _, path := range []string{jsonPath, yamlPath} {
		program, err := LoadProgram(path)
		if err != nil {
			t.Fatalf("LoadProgram(%s): %v", path, err)
		}
		if got := mainName(t, program); got != "main" {
			t.Fatalf("%s: expected main, got %s", path, got)
		}
	}
	if _, err := LoadProgram(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGitSourceLoadProgram(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(dir, "trees", "main.json"), greetingTree)
	first := commitAll(t, repo, "init")
	writeFile(t, filepath.Join(dir, "trees", "main.json"), `{"type":"Program","declarations":[]}`)
	commitAll(t, repo, "empty")

	ctx := context.Background()
	head := &GitSource{Repo: dir}
	program, err := head.LoadProgram(ctx, "trees/main.json")
	if err != nil {
		t.Fatalf("LoadProgram at HEAD: %v", err)
	}
	if len(program.Declarations) != 0 {
		t.Fatalf("expected empty program at HEAD, got %d declarations", len(program.Declarations))
	}

	pinned := &GitSource{Repo: dir, Rev: first}
	program, err = pinned.LoadProgram(ctx, "trees/main.json")
	if err != nil {
		t.Fatalf("LoadProgram at %s: %v", first, err)
	}
	if got := mainName(t, program); got != "main" {
		t.Fatalf("expected main at first commit, got %s", got)
	}

	if _, err := head.ReadFile(ctx, "trees/absent.json"); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := (&GitSource{Repo: dir, Rev: "no-such-branch"}).ReadFile(ctx, "trees/main.json"); err == nil {
		t.Fatalf("expected error for unknown revision")
	}
}

func TestConfigLoadEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.json"), greetingTree)
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "name: demo\nentry: main.json\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	program, err := cfg.LoadEntry(context.Background())
	if err != nil {
		t.Fatalf("LoadEntry: %v", err)
	}
	if got := mainName(t, program); got != "main" {
		t.Fatalf("expected main, got %s", got)
	}
}

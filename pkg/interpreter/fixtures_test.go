package interpreter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		t.Run(entry.Name(), func(t *testing.T) {
			result, err := RunFixture(dir)
			if err != nil {
				t.Fatalf("fixture %s: %v", dir, err)
			}
			if !result.Passed() {
				t.Fatalf("fixture %s (%s):\n%s", dir, result.Description, result.Diff)
			}
		})
		ran++
	}
	if ran == 0 {
		t.Fatalf("no fixtures found under %s", root)
	}
}

func TestRunFixtureReportsMismatch(t *testing.T) {
	dir := t.TempDir()
	manifest := "expect:\n  stdout: [\"wrong\"]\n"
	program := `{"type":"Program","declarations":[{"type":"ExpressionStatement","expression":{"type":"FunctionCall","callee":{"type":"Identifier","name":"print"},"arguments":[{"type":"IntegerLiteral","value":1}]}}]}`
	if err := os.WriteFile(filepath.Join(dir, "manifest.yml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "program.json"), []byte(program), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	result, err := RunFixture(dir)
	if err != nil {
		t.Fatalf("run fixture: %v", err)
	}
	if result.Passed() {
		t.Fatalf("expected mismatch to be reported")
	}
}

func TestReadFixtureManifestRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "manifest.yml"), []byte("expected: {}\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := ReadFixtureManifest(dir); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

package interpreter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"mlang/interpreter-go/pkg/ast"
)

// FixtureManifest describes one golden program: the tree to run, its input,
// and the observable results expected from it.
type FixtureManifest struct {
	Description string         `yaml:"description"`
	Entry       string         `yaml:"entry"`
	Stdin       string         `yaml:"stdin"`
	Runtime     FixtureRuntime `yaml:"runtime"`
	Expect      FixtureExpect  `yaml:"expect"`
}

type FixtureRuntime struct {
	RecursionLimit int  `yaml:"recursion_limit"`
	BlockScoping   bool `yaml:"block_scoping"`
}

type FixtureExpect struct {
	Stdout []string `yaml:"stdout"`
	Stderr []string `yaml:"stderr"`
	Exit   int      `yaml:"exit"`
}

// FixtureResult is the outcome of replaying a fixture directory.
type FixtureResult struct {
	Dir         string
	Description string
	Diff        string
}

func (r FixtureResult) Passed() bool {
	return r.Diff == ""
}

// ReadFixtureManifest loads manifest.yml from dir.
func ReadFixtureManifest(dir string) (FixtureManifest, error) {
	path := filepath.Join(dir, "manifest.yml")
	file, err := os.Open(path)
	if err != nil {
		return FixtureManifest{}, fmt.Errorf("fixture: open %s: %w", path, err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var manifest FixtureManifest
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return FixtureManifest{}, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	if manifest.Entry == "" {
		manifest.Entry = "program.json"
	}
	return manifest, nil
}

// ReadProgramFile decodes a serialized tree, choosing the format by extension.
func ReadProgramFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}
	prog, err := ast.DecodeFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// RunFixture replays the fixture in dir. The returned error covers problems
// loading the fixture; mismatched output is reported through the result.
func RunFixture(dir string) (FixtureResult, error) {
	manifest, err := ReadFixtureManifest(dir)
	if err != nil {
		return FixtureResult{Dir: dir}, err
	}
	program, err := ReadProgramFile(filepath.Join(dir, manifest.Entry))
	if err != nil {
		return FixtureResult{Dir: dir}, err
	}

	var stdout, stderr bytes.Buffer
	interp := New(
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithStdin(NewLineReader(strings.NewReader(manifest.Stdin))),
		WithConfig(Config{
			RecursionLimit: manifest.Runtime.RecursionLimit,
			BlockScoping:   manifest.Runtime.BlockScoping,
		}),
	)
	exit := interp.Run(program)

	result := FixtureResult{Dir: dir, Description: manifest.Description}
	var diffs []string
	if diff := cmp.Diff(manifest.Expect.Stdout, splitLines(stdout.String()), cmpopts.EquateEmpty()); diff != "" {
		diffs = append(diffs, "stdout (-want +got):\n"+diff)
	}
	if diff := cmp.Diff(manifest.Expect.Stderr, splitLines(stderr.String()), cmpopts.EquateEmpty()); diff != "" {
		diffs = append(diffs, "stderr (-want +got):\n"+diff)
	}
	if exit != manifest.Expect.Exit {
		diffs = append(diffs, fmt.Sprintf("exit status: want %d, got %d", manifest.Expect.Exit, exit))
	}
	result.Diff = strings.Join(diffs, "\n")
	return result, nil
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

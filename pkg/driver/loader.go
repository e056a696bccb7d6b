package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/interpreter"
)

// LoadProgram reads a serialized syntax tree from disk.
func LoadProgram(path string) (*ast.Program, error) {
	return interpreter.ReadProgramFile(path)
}

// GitSource locates program trees inside a git repository. Repo may be a
// local working copy or a clone URL; Rev defaults to HEAD.
type GitSource struct {
	Repo string
	Rev  string
}

func (s *GitSource) revision() plumbing.Revision {
	if s.Rev == "" {
		return plumbing.Revision(plumbing.HEAD)
	}
	return plumbing.Revision(s.Rev)
}

func (s *GitSource) open(ctx context.Context) (*git.Repository, error) {
	if info, err := os.Stat(s.Repo); err == nil && info.IsDir() {
		log.LogVf("opening git repository %s", s.Repo)
		return git.PlainOpenWithOptions(s.Repo, &git.PlainOpenOptions{DetectDotGit: true})
	}
	log.Infof("cloning %s", s.Repo)
	return git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:  s.Repo,
		Tags: git.AllTags,
	})
}

// ReadFile returns the contents of path at the configured revision.
func (s *GitSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if s == nil || s.Repo == "" {
		return nil, errors.New("git source: repository not set")
	}
	repo, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("git source %s: %w", s.Repo, err)
	}
	hash, err := repo.ResolveRevision(s.revision())
	if err != nil {
		return nil, fmt.Errorf("git source %s: resolve %s: %w", s.Repo, s.revision(), err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("git source %s: commit %s: %w", s.Repo, hash, err)
	}
	file, err := commit.File(filepath.ToSlash(path))
	if err != nil {
		return nil, fmt.Errorf("git source %s@%s: %s: %w", s.Repo, hash.String()[:7], path, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("git source %s: read %s: %w", s.Repo, path, err)
	}
	log.LogVf("loaded %s from %s@%s", path, s.Repo, hash)
	return []byte(contents), nil
}

// LoadProgram decodes a syntax tree stored at path in the repository.
func (s *GitSource) LoadProgram(ctx context.Context, path string) (*ast.Program, error) {
	data, err := s.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	program, err := ast.DecodeFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return program, nil
}

// LoadEntry loads the program named by the config, from git when a source is
// configured and from disk otherwise.
func (c *Config) LoadEntry(ctx context.Context) (*ast.Program, error) {
	if c.Source != nil {
		return c.Source.LoadProgram(ctx, c.EntryPath())
	}
	return LoadProgram(c.EntryPath())
}

package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/log"
	"golang.org/x/sync/errgroup"

	"mlang/interpreter-go/pkg/interpreter"
)

// FixtureManifestName marks a directory as a fixture.
const FixtureManifestName = "manifest.yml"

// DiscoverFixtures walks roots and returns every directory holding a fixture
// manifest, sorted.
func DiscoverFixtures(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != FixtureManifestName {
				return nil
			}
			dir := filepath.Dir(path)
			if _, ok := seen[dir]; !ok {
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover fixtures in %s: %w", root, err)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RunFixtures executes fixture directories with at most jobs running at once.
// Results are returned in the order of dirs.
func RunFixtures(ctx context.Context, dirs []string, jobs int) ([]interpreter.FixtureResult, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]interpreter.FixtureResult, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for idx, dir := range dirs {
		idx, dir := idx, dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.LogVf("running fixture %s", dir)
			res, err := interpreter.RunFixture(dir)
			if err != nil {
				log.Errf("fixture %s: %v", dir, err)
				return fmt.Errorf("fixture %s: %w", dir, err)
			}
			if !res.Passed() {
				log.Warnf("fixture %s failed", dir)
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	passed := 0
	for _, res := range results {
		if res.Passed() {
			passed++
		}
	}
	log.Infof("fixtures: %d/%d passed", passed, len(results))
	return results, nil
}

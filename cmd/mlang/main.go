package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/driver"
	"mlang/interpreter-go/pkg/interpreter"
)

var errConfigNotFound = errors.New(driver.ConfigFileName + " not found")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries the process streams and the exit status chosen by the command
// that ran.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	exit   int
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return c.exit
}

type runOptions struct {
	config         string
	gitRepo        string
	gitRev         string
	recursionLimit int
	blockScoping   bool
	verbose        bool
}

func (c *cli) rootCommand() *cobra.Command {
	opts := &runOptions{}
	root := &cobra.Command{
		Use:           "mlang [tree-file]",
		Short:         "Run mlang syntax trees",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEntry(cmd, opts, args)
		},
	}
	bindRunFlags(root, opts)

	runOpts := &runOptions{}
	runCmd := &cobra.Command{
		Use:   "run [tree-file]",
		Short: "Execute a serialized program tree",
		Long: "Execute a serialized program tree. Without an argument the entry named by " +
			driver.ConfigFileName + " in the current directory (or a parent) is run.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEntry(cmd, runOpts, args)
		},
	}
	bindRunFlags(runCmd, runOpts)

	var jobs int
	var verbose bool
	testCmd := &cobra.Command{
		Use:   "test <fixture-dirs>...",
		Short: "Replay golden fixtures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLogLevel(log.Verbose)
			}
			return c.runFixtures(cmd.Context(), args, jobs)
		},
	}
	testCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "number of fixtures to run concurrently")
	testCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace fixture execution")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mlang %s\n", driver.Version)
		},
	}

	root.AddCommand(runCmd, testCmd, versionCmd)
	return root
}

func bindRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "path to "+driver.ConfigFileName)
	flags.StringVar(&opts.gitRepo, "git", "", "load the tree from this git repository (path or URL)")
	flags.StringVar(&opts.gitRev, "rev", "", "git revision to load from (default HEAD)")
	flags.IntVar(&opts.recursionLimit, "recursion-limit", interpreter.DefaultRecursionLimit, "maximum call depth")
	flags.BoolVar(&opts.blockScoping, "block-scoping", false, "give if/while/for bodies their own scope")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "trace evaluation")
}

func (c *cli) runEntry(cmd *cobra.Command, opts *runOptions, args []string) error {
	if opts.verbose {
		log.SetLogLevel(log.Verbose)
	}
	cfg, err := c.resolveConfig(opts, args)
	if err != nil {
		return err
	}
	program, err := c.loadProgram(cmd.Context(), cfg, opts, args)
	if err != nil {
		return err
	}

	settings := interpreter.DefaultConfig()
	if cfg != nil {
		settings = cfg.InterpreterConfig()
	}
	flags := cmd.Flags()
	if flags.Changed("recursion-limit") {
		if opts.recursionLimit < 1 {
			return fmt.Errorf("--recursion-limit must be at least 1, got %d", opts.recursionLimit)
		}
		settings.RecursionLimit = opts.recursionLimit
	}
	if flags.Changed("block-scoping") {
		settings.BlockScoping = opts.blockScoping
	}

	input, closeInput := newInputReader(c.stdin)
	defer closeInput()
	interp := interpreter.New(
		interpreter.WithStdout(c.stdout),
		interpreter.WithStderr(c.stderr),
		interpreter.WithStdin(input),
		interpreter.WithConfig(settings),
	)
	c.exit = interp.Run(program)
	return nil
}

// resolveConfig loads the project config named by --config, or the nearest
// one when no tree file was given. A tree file run without --config uses a
// config found beside it when there is one.
func (c *cli) resolveConfig(opts *runOptions, args []string) (*driver.Config, error) {
	if opts.config != "" {
		return driver.LoadConfig(opts.config)
	}
	start := "."
	if len(args) == 1 && opts.gitRepo == "" {
		start = filepath.Dir(args[0])
	}
	path, err := findConfig(start)
	if err != nil {
		if errors.Is(err, errConfigNotFound) && (len(args) == 1 || opts.gitRepo != "") {
			return nil, nil
		}
		return nil, err
	}
	cfg, err := driver.LoadConfig(path)
	if err != nil {
		if len(args) == 1 {
			fmt.Fprintf(c.stderr, "warning: unable to load %s (%v); running %s with defaults\n", path, err, args[0])
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *cli) loadProgram(ctx context.Context, cfg *driver.Config, opts *runOptions, args []string) (*ast.Program, error) {
	if opts.gitRepo != "" {
		source := &driver.GitSource{Repo: opts.gitRepo, Rev: opts.gitRev}
		entry := ""
		switch {
		case len(args) == 1:
			entry = args[0]
		case cfg != nil:
			entry = cfg.Entry
		default:
			return nil, errors.New("--git requires a tree path inside the repository")
		}
		return source.LoadProgram(ctx, entry)
	}
	if len(args) == 1 {
		return driver.LoadProgram(strings.TrimSpace(args[0]))
	}
	if cfg == nil {
		return nil, fmt.Errorf("mlang run requires a tree file (%v)", errConfigNotFound)
	}
	return cfg.LoadEntry(ctx)
}

func (c *cli) runFixtures(ctx context.Context, roots []string, jobs int) error {
	dirs, err := driver.DiscoverFixtures(roots)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no fixtures found under %s", strings.Join(roots, ", "))
	}
	results, err := driver.RunFixtures(ctx, dirs, jobs)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Passed() {
			fmt.Fprintf(c.stdout, "ok   %s\n", res.Dir)
			continue
		}
		failed++
		fmt.Fprintf(c.stdout, "FAIL %s\n%s\n", res.Dir, res.Diff)
	}
	fmt.Fprintf(c.stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		c.exit = 1
	}
	return nil
}

func findConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ConfigFileName, origin, errConfigNotFound)
		}
		dir = parent
	}
}

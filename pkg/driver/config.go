package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"mlang/interpreter-go/pkg/interpreter"
)

// Version is the interpreter release checked against a project's requires
// field.
const Version = "v0.1.0"

// ConfigFileName is the project file looked up by default.
const ConfigFileName = "mlang.yml"

// Config represents the parsed contents of mlang.yml.
type Config struct {
	Path     string
	Name     string
	Entry    string
	Requires string
	Runtime  RuntimeConfig
	Source   *GitSource
}

// RuntimeConfig mirrors the interpreter knobs exposed in the project file.
type RuntimeConfig struct {
	RecursionLimit int
	BlockScoping   bool
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses mlang.yml from disk, returning a validated config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()
	return decodeConfig(file, absPath)
}

func decodeConfig(r io.Reader, absPath string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", absPath)
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg, issues := raw.toConfig(absPath)
	if err := cfg.validate(issues); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(issues []string) error {
	errs := ValidationError{Issues: issues}
	if c.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if c.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	}
	if c.Requires != "" {
		switch {
		case !semver.IsValid(c.Requires):
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires %q is not a valid semantic version", c.Requires))
		case semver.Compare(c.Requires, Version) > 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires %s but this interpreter is %s", c.Requires, Version))
		}
	}
	if c.Source != nil && c.Source.Repo == "" {
		errs.Issues = append(errs.Issues, "source.git must be provided when source is set")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Dir is the directory holding the config file.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// EntryPath resolves the entry relative to the config directory. Entries
// loaded from git are paths inside the repository and are returned as is.
func (c *Config) EntryPath() string {
	if c.Source != nil || filepath.IsAbs(c.Entry) {
		return c.Entry
	}
	return filepath.Join(c.Dir(), c.Entry)
}

// InterpreterConfig converts the runtime section into interpreter settings.
func (c *Config) InterpreterConfig() interpreter.Config {
	cfg := interpreter.DefaultConfig()
	if c.Runtime.RecursionLimit > 0 {
		cfg.RecursionLimit = c.Runtime.RecursionLimit
	}
	cfg.BlockScoping = c.Runtime.BlockScoping
	return cfg
}

type configFile struct {
	Name     string      `yaml:"name"`
	Entry    string      `yaml:"entry"`
	Requires string      `yaml:"requires"`
	Runtime  runtimeYAML `yaml:"runtime"`
	Source   *sourceYAML `yaml:"source"`
}

type runtimeYAML struct {
	RecursionLimit *int `yaml:"recursion_limit"`
	BlockScoping   bool `yaml:"block_scoping"`
}

// sourceYAML accepts either a bare repository string or a mapping with git
// and rev keys.
type sourceYAML struct {
	Git string `yaml:"git"`
	Rev string `yaml:"rev"`
}

func (s *sourceYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&s.Git)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("config: source must be a string or a mapping")
	}
	type plain sourceYAML
	var out plain
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		switch key {
		case "git":
			if err := value.Content[i+1].Decode(&out.Git); err != nil {
				return err
			}
		case "rev":
			if err := value.Content[i+1].Decode(&out.Rev); err != nil {
				return err
			}
		default:
			return fmt.Errorf("config: source: unknown key %q", key)
		}
	}
	*s = sourceYAML(out)
	return nil
}

func (cf configFile) toConfig(path string) (*Config, []string) {
	var issues []string
	cfg := &Config{
		Path:     path,
		Name:     strings.TrimSpace(cf.Name),
		Entry:    strings.TrimSpace(cf.Entry),
		Requires: normalizeVersion(cf.Requires),
		Runtime:  RuntimeConfig{BlockScoping: cf.Runtime.BlockScoping},
	}
	if limit := cf.Runtime.RecursionLimit; limit != nil {
		if *limit < 1 {
			issues = append(issues, fmt.Sprintf("runtime.recursion_limit must be at least 1, got %d", *limit))
		}
		cfg.Runtime.RecursionLimit = *limit
	}
	if cf.Source != nil {
		cfg.Source = &GitSource{
			Repo: strings.TrimSpace(cf.Source.Git),
			Rev:  strings.TrimSpace(cf.Source.Rev),
		}
	}
	return cfg, issues
}

// normalizeVersion adds the "v" prefix semver expects.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

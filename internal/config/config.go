// Package config loads the per-profile weekplan configuration.
//
// A profile lives in a home directory holding config.yaml and, by default,
// the task database. Values are layered: built-in defaults, then the file,
// then WEEKPLAN_* environment variables. The merged result is checked
// against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/weekplan/internal/kv"
	"github.com/roach88/weekplan/internal/persist"
)

//go:embed schema.cue
var schemaSource string

//go:embed default.yaml
var defaultFile []byte

const (
	// FileName is the config file inside the home directory.
	FileName = "config.yaml"
	// CurrentVersion is the only accepted config version.
	CurrentVersion = 1

	EnvHome       = "WEEKPLAN_HOME"
	EnvBackend    = "WEEKPLAN_BACKEND"
	EnvStorageKey = "WEEKPLAN_STORAGE_KEY"
	EnvLogLevel   = "WEEKPLAN_LOG_LEVEL"
)

// ErrInvalid is wrapped by every error describing a bad config value.
var ErrInvalid = errors.New("invalid config")

// Config is the merged profile configuration.
type Config struct {
	Version int     `yaml:"version" json:"version"`
	Storage Storage `yaml:"storage" json:"storage"`
	Log     Log     `yaml:"log" json:"log"`

	// Home is the directory the config was resolved against.
	Home string `yaml:"-" json:"-"`
}

// Storage selects the KV backend holding the task blob.
type Storage struct {
	Backend string `yaml:"backend" json:"backend"`
	Path    string `yaml:"path" json:"path"`
	Key     string `yaml:"key" json:"key"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ResolveHome picks the profile directory: flag, then $WEEKPLAN_HOME, then
// ~/.weekplan.
func ResolveHome(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvHome); env != "" {
		return filepath.Abs(env)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".weekplan"), nil
}

// Default returns the built-in configuration for home.
func Default(home string) *Config {
	return &Config{
		Version: CurrentVersion,
		Storage: Storage{
			Backend: string(kv.BackendSQLite),
			Key:     persist.DefaultKey,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Home: home,
	}
}

// Path returns the config file location inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads home/config.yaml over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(home string) (*Config, error) {
	return load(home, os.Getenv)
}

func load(home string, getenv func(string) string) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(Path(home))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := decode(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(getenv)
	cfg.resolvePath()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses data over cfg. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvBackend); v != "" {
		c.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv(EnvStorageKey); v != "" {
		c.Storage.Key = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// resolvePath fills the default storage path and anchors relative ones at Home.
func (c *Config) resolvePath() {
	if c.Storage.Path == "" {
		switch kv.Backend(c.Storage.Backend) {
		case kv.BackendSQLite:
			c.Storage.Path = filepath.Join(c.Home, "weekplan.db")
		case kv.BackendFile:
			c.Storage.Path = filepath.Join(c.Home, "weekplan.json")
		}
		return
	}
	if !filepath.IsAbs(c.Storage.Path) && c.Home != "" {
		c.Storage.Path = filepath.Join(c.Home, c.Storage.Path)
	}
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	return nil
}

// describe flattens a CUE error list into one line per problem.
func describe(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Backend returns the configured KV backend.
func (c *Config) Backend() (kv.Backend, error) {
	return kv.ParseBackend(c.Storage.Backend)
}

// SlogLevel maps Log.Level onto slog. Unknown levels fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WriteDefault writes the commented default config into home, creating the
// directory. An existing file is kept unless force is set. It reports the
// path and whether it wrote.
func WriteDefault(home string, force bool) (string, bool, error) {
	path := Path(home)
	if err := os.MkdirAll(home, 0o755); err != nil {
		return path, false, fmt.Errorf("failed to create home directory: %w", err)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}
	if err := os.WriteFile(path, defaultFile, 0o644); err != nil {
		return path, false, fmt.Errorf("failed to write config: %w", err)
	}
	return path, true, nil
}

package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config carries the execution-verifier settings. The zero value is not
// usable; start from DefaultConfig or LoadConfig.
type Config struct {
	Runner  RunnerConfig  `toml:"runner"`
	Staging StagingConfig `toml:"staging"`
	Cache   CacheConfig   `toml:"cache"`
}

// RunnerConfig describes the external runner invocation. The artifact path
// is appended to Command as the final argument.
type RunnerConfig struct {
	Command   []string `toml:"command"`
	Extension string   `toml:"extension"`
}

// StagingConfig locates the root under which per-test staging directories
// are created.
type StagingConfig struct {
	Root string `toml:"root"`
}

// CacheConfig toggles the exec-result disk cache.
type CacheConfig struct {
	Exec bool `toml:"exec"`
}

// DefaultConfig returns the settings used without a morph.toml.
func DefaultConfig() Config {
	return Config{
		Runner: RunnerConfig{
			Command:   []string{"jest", "--testMatch"},
			Extension: ".test.js",
		},
		Staging: StagingConfig{
			Root: filepath.Join(os.TempDir(), "morph-exec"),
		},
	}
}

// FindMorphToml walks up from startDir to locate morph.toml.
func FindMorphToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "morph.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig discovers morph.toml upward from startDir and decodes it over
// the defaults. Missing manifest means defaults; a malformed one is an error.
func LoadConfig(startDir string) (Config, error) {
	cfg := DefaultConfig()
	path, ok, err := FindMorphToml(startDir)
	if err != nil {
		return cfg, err
	}
	if !ok {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	if len(cfg.Runner.Command) == 0 {
		return cfg, fmt.Errorf("%s: runner.command must not be empty", path)
	}
	if cfg.Runner.Extension == "" {
		cfg.Runner.Extension = DefaultConfig().Runner.Extension
	}
	if cfg.Staging.Root == "" {
		cfg.Staging.Root = DefaultConfig().Staging.Root
	}
	return cfg, nil
}

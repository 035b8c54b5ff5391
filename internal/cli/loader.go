package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses yaml values like "50ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// FileConfig is the yaml configuration accepted by --config. Flags override
// values loaded from the file.
type FileConfig struct {
	Database      string   `yaml:"database"`
	PollInterval  Duration `yaml:"pollInterval"`
	JournalSize   int      `yaml:"journalSize"`
	LogOperations bool     `yaml:"logOperations"`
}

// LoadConfig reads a yaml config file. A missing path returns an empty
// config.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// resolveDatabase picks the dsn from the flag, falling back to the config
// file.
func resolveDatabase(opts *RootOptions, cfg *FileConfig) (string, error) {
	if opts.Database != "" {
		return opts.Database, nil
	}
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	return "", &ExitError{Code: ExitCommandError, Message: "no database given: pass --db or set database in the config file"}
}

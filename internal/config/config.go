package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPrompt     = ": "
	DefaultPIDMarker  = "$$"
	DefaultMaxHistory = 1000
	DefaultConfigFile = "smallsh.yml"
	historyFileName   = ".smallsh_history"
)

type Config struct {
	Prompt      string `yaml:"prompt" validate:"required"`
	HomeDir     string `yaml:"home_dir"`
	HistoryFile string `yaml:"history_file"`
	History     bool   `yaml:"history"`
	MaxHistory  int    `yaml:"max_history" validate:"gte=1"`
	PIDMarker   string `yaml:"pid_marker" validate:"len=2"`
	Trace       bool   `yaml:"trace"`
	Color       bool   `yaml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:     DefaultPrompt,
		History:    true,
		MaxHistory: DefaultMaxHistory,
		PIDMarker:  DefaultPIDMarker,
		Color:      true,
	}
}

// Load reads file from fsys on top of the defaults. A missing file is
// not an error.
func Load(fsys afero.Fs, file string) (*Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", file, err)
	default:
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", file, err)
		}
	}

	// Without a home directory only a bare cd fails, and history stays
	// off unless a file is named.
	if cfg.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.HomeDir = home
		}
	}

	if cfg.HistoryFile == "" {
		if cfg.HomeDir == "" {
			cfg.History = false
		} else {
			cfg.HistoryFile = filepath.Join(cfg.HomeDir, historyFileName)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", file, err)
	}

	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})

	return validate.Struct(c)
}

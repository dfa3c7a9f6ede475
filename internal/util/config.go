package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the configuration file used when -config is not given.
const ConfigEnv = "GLOOM_CONFIG"

type Configuration struct {
	Version   string `yaml:"-" toml:"-"`
	BuildDate string `yaml:"-" toml:"-"`
	Commit    string `yaml:"-" toml:"-"`

	LogLevel     string `yaml:"log_level" toml:"log_level"`
	LogFile      string `yaml:"log_file" toml:"log_file"`
	DebugJsonAST bool   `yaml:"debug_ast" toml:"debug_ast"`
	DebugTxtAST  bool   `yaml:"debug_ast_text" toml:"debug_ast_text"`
	Prompt       string `yaml:"prompt" toml:"prompt"`
	HistoryFile  string `yaml:"history_file" toml:"history_file"`

	Transcript TranscriptConfig `yaml:"transcript" toml:"transcript"`
}

type TranscriptConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: "NONE",
		Prompt:   "gloom> ",
	}
}

// LoadConfiguration reads a YAML (.yml, .yaml) or TOML (.toml) file over the
// defaults. An empty path returns the defaults.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q for %s", ext, path)
	}
	return cfg, nil
}

// ConfigPath picks the flag value, falling back to the environment.
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ConfigEnv)
}

// Package config loads relict configuration from TOML, YAML, or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for relict.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Policy widens or narrows the built-in exemptions
	Policy PolicyConfig `koanf:"policy" toml:"policy"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls which detectors run.
type AnalysisConfig struct {
	Fields     bool `koanf:"fields" toml:"fields"`
	Parameters bool `koanf:"parameters" toml:"parameters"`

	// MaxFileSize skips files above this many bytes; 0 disables the cap.
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"`

	// Workers caps the analysis pool; 0 uses 2x NumCPU.
	Workers int `koanf:"workers" toml:"workers"`
}

// PolicyConfig widens the tracked declaration set beyond the defaults.
type PolicyConfig struct {
	// TrackInternalFields also tracks internal/package-private fields,
	// not just private ones.
	TrackInternalFields bool `koanf:"track_internal_fields" toml:"track_internal_fields"`

	// TrackAttributedParams also tracks parameters carrying attributes,
	// annotations, or decorators.
	TrackAttributedParams bool `koanf:"track_attributed_params" toml:"track_attributed_params"`

	// ExcludeNames lists declaration names that are never reported,
	// whatever their kind.
	ExcludeNames []string `koanf:"exclude_names" toml:"exclude_names"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" toml:"patterns"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Dirs       []string `koanf:"dirs" toml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon, sarif
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Fields:      true,
			Parameters:  true,
			MaxFileSize: 0,
			Workers:     0,
		},
		Policy: PolicyConfig{
			TrackInternalFields:   false,
			TrackAttributedParams: false,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_test.go",
				"*.test.ts",
				"*.spec.ts",
				"*.min.js",
				"*.g.cs",
				"*.designer.cs",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".relict",
				"dist",
				"build",
				"bin",
				"obj",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file. The file is validated against the
// embedded schema before unmarshalling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := validate(k.Raw()); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile returns the first config file found in the standard
// locations, or empty string if none exists.
func FindConfigFile() string {
	configNames := []string{
		"relict.toml",
		"relict.yaml",
		"relict.yml",
		"relict.json",
		".relict.toml",
		".relict.yaml",
		".relict.yml",
		".relict.json",
	}

	searchDirs := []string{".", ".relict"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := FindConfigFile(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

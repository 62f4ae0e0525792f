package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	StagingDir    string `toml:"staging_dir"`
	ExportDir     string `toml:"export_dir"`
	LogDir        string `toml:"log_dir"`
	ProvenanceDir string `toml:"provenance_dir"`
	DeliveriesDB  string `toml:"deliveries_db"`
}

// Export contains archive shape and run sizing.
type Export struct {
	Variant             string   `toml:"variant"`
	Workers             int      `toml:"workers"`
	AssemblyWorkers     int      `toml:"assembly_workers"`
	BatchSize           int      `toml:"batch_size"`
	MinObservationCount int      `toml:"min_observation_count"`
	IncludeEmof         bool     `toml:"include_emof"`
	IncludeMultimedia   bool     `toml:"include_multimedia"`
	CoreFields          []string `toml:"core_fields"`
	OccurrenceFields    []string `toml:"occurrence_fields"`
	CombinedIdentifier  string   `toml:"combined_identifier"`
	StaleStagingHours   int      `toml:"stale_staging_hours"`
}

// Provider describes one data provider taking part in an export.
type Provider struct {
	ID             int    `toml:"id"`
	Identifier     string `toml:"identifier"`
	Name           string `toml:"name"`
	VerbatimSource string `toml:"verbatim_source"`
	Enabled        *bool  `toml:"enabled"`
}

// IsEnabled reports whether the provider participates; providers are enabled unless set false.
func (p Provider) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Elasticsearch contains connection settings for the observation index.
type Elasticsearch struct {
	URL            string `toml:"url"`
	Index          string `toml:"index"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Mongo contains connection settings for the provenance document store.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Source selects where observation batches are read from.
type Source struct {
	Kind      string `toml:"kind"`
	NDJSONDir string `toml:"ndjson_dir"`
}

// Provenance selects where eml documents are read from.
type Provenance struct {
	Kind string `toml:"kind"`
}

// Telemetry contains metrics output settings.
type Telemetry struct {
	TextfilePath string `toml:"textfile_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dwcexport.
//
// Configuration sections by subsystem:
//   - Paths: staging, export, log and provenance directories plus the delivery ledger
//   - Export: archive variant, column selection, worker counts, low-volume floor
//   - Providers: the data providers to export
//   - Elasticsearch / Source: where observations come from
//   - Mongo / Provenance: where eml documents come from
//   - Telemetry: metrics textfile
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Export        Export        `toml:"export"`
	Providers     []Provider    `toml:"providers"`
	Elasticsearch Elasticsearch `toml:"elasticsearch"`
	Mongo         Mongo         `toml:"mongo"`
	Source        Source        `toml:"source"`
	Provenance    Provenance    `toml:"provenance"`
	Telemetry     Telemetry     `toml:"telemetry"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dwcexport/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, "", false, fmt.Errorf("load environment files: %w", err)
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadEnvFiles loads ENV_FILE when set, otherwise .env.local then .env.
// Missing files are ignored; variables already in the environment win.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dwcexport.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories an export run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.ExportDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.DeliveriesDB); c.Paths.DeliveriesDB != "" && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnabledProviders returns providers that are not explicitly disabled, in config order.
func (c *Config) EnabledProviders() []Provider {
	out := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.IsEnabled() {
			out = append(out, p)
		}
	}
	return out
}

// LockPath returns the run lock file guarding the export directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.ExportDir, ".dwcexport.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dwcexport/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "dwcexport", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Paths.DeliveriesDB != filepath.Join(tempHome, ".local", "share", "dwcexport", "deliveries.db") {
		t.Fatalf("unexpected deliveries db: %q", cfg.Paths.DeliveriesDB)
	}
	if cfg.Export.Variant != config.VariantOccurrence {
		t.Fatalf("expected occurrence variant by default, got %q", cfg.Export.Variant)
	}
	if cfg.Export.CombinedIdentifier != "sos" {
		t.Fatalf("unexpected combined identifier %q", cfg.Export.CombinedIdentifier)
	}
	if !cfg.Export.IncludeEmof || !cfg.Export.IncludeMultimedia {
		t.Fatal("expected extensions enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigAndEnvFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())
	t.Setenv("DWCEXPORT_ES_PASSWORD", "s3cret")
	t.Setenv("DWCEXPORT_MONGO_URI", "mongodb://example:27017")

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
staging_dir = "~/staging"
export_dir = "~/out"

[export]
variant = "EVENT"
workers = 8
core_fields = ["eventID", "eventDate", " locality ", "eventDate"]
occurrence_fields = ["occurrenceID", "scientificName"]

[[providers]]
id = 1
identifier = "ProvA"

[[providers]]
id = 2
identifier = "ProvB"
name = "Provider B"
enabled = false

[provenance]
kind = "mongo"

[logging]
format = "JSON"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StagingDir != filepath.Join(tempHome, "staging") {
		t.Fatalf("unexpected staging dir %q", cfg.Paths.StagingDir)
	}
	if cfg.Export.Variant != config.VariantEvent {
		t.Fatalf("expected variant normalized to event, got %q", cfg.Export.Variant)
	}
	if got := strings.Join(cfg.Export.CoreFields, ","); got != "eventID,eventDate,locality" {
		t.Fatalf("unexpected core fields %q", got)
	}
	if cfg.Elasticsearch.Password != "s3cret" {
		t.Fatalf("expected password from env, got %q", cfg.Elasticsearch.Password)
	}
	if cfg.Mongo.URI != "mongodb://example:27017" {
		t.Fatalf("expected mongo uri from env, got %q", cfg.Mongo.URI)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if cfg.Providers[0].Name != "ProvA" {
		t.Fatalf("expected name to default to identifier, got %q", cfg.Providers[0].Name)
	}
	enabled := cfg.EnabledProviders()
	if len(enabled) != 1 || enabled[0].Identifier != "ProvA" {
		t.Fatalf("unexpected enabled providers %+v", enabled)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	envFile := filepath.Join(dir, "custom.env")
	if err := os.WriteFile(envFile, []byte("DWCEXPORT_ES_API_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("DWCEXPORT_ES_API_KEY", "")
	os.Unsetenv("DWCEXPORT_ES_API_KEY")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Elasticsearch.APIKey != "from-dotenv" {
		t.Fatalf("expected api key from env file, got %q", cfg.Elasticsearch.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"workers", func(c *config.Config) { c.Export.Workers = 0 }, "export.workers"},
		{"batch size", func(c *config.Config) { c.Export.BatchSize = -1 }, "export.batch_size"},
		{"min count", func(c *config.Config) { c.Export.MinObservationCount = -1 }, "min_observation_count"},
		{"variant", func(c *config.Config) { c.Export.Variant = "taxon" }, "export.variant"},
		{"unknown field", func(c *config.Config) { c.Export.CoreFields = []string{"nope"} }, "nope"},
		{"occurrence fields on occurrence variant", func(c *config.Config) {
			c.Export.OccurrenceFields = []string{"scientificName"}
		}, "occurrence_fields"},
		{"duplicate provider id", func(c *config.Config) {
			c.Providers = []config.Provider{{ID: 1, Identifier: "a"}, {ID: 1, Identifier: "b"}}
		}, "duplicated"},
		{"duplicate identifier", func(c *config.Config) {
			c.Providers = []config.Provider{{ID: 1, Identifier: "a"}, {ID: 2, Identifier: "a"}}
		}, "duplicated"},
		{"identifier collides with combined", func(c *config.Config) {
			c.Providers = []config.Provider{{ID: 1, Identifier: "sos"}}
		}, "combined_identifier"},
		{"es without url", func(c *config.Config) { c.Elasticsearch.URL = "" }, "elasticsearch.url"},
		{"mongo without uri", func(c *config.Config) { c.Provenance.Kind = config.ProvenanceMongo }, "mongo.uri"},
		{"ndjson without dir", func(c *config.Config) { c.Source.Kind = config.SourceNDJSON }, "ndjson_dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	cfg := config.Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Identifier == "" {
		t.Fatalf("expected one sample provider, got %+v", cfg.Providers)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.ExportDir = filepath.Join(base, "export")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DeliveriesDB = filepath.Join(base, "db", "deliveries.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.ExportDir, cfg.Paths.LogDir, filepath.Join(base, "db")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		t.Setenv("PWD", abs)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing: failed to restore working directory: " + err.Error())
		}
	})
}

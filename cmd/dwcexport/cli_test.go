package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dwcexport/internal/config"
	"dwcexport/internal/testsupport"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\nstaging_dir = %q\nexport_dir = %q\nlog_dir = %q\nprovenance_dir = %q\ndeliveries_db = %q\n\n",
		cfg.Paths.StagingDir, cfg.Paths.ExportDir, cfg.Paths.LogDir, cfg.Paths.ProvenanceDir, cfg.Paths.DeliveriesDB)
	fmt.Fprintf(&b, "[export]\nvariant = %q\nbatch_size = %d\n\n", cfg.Export.Variant, cfg.Export.BatchSize)
	fmt.Fprintf(&b, "[source]\nkind = %q\nndjson_dir = %q\n\n", cfg.Source.Kind, cfg.Source.NDJSONDir)
	fmt.Fprintf(&b, "[provenance]\nkind = %q\n\n[logging]\nlevel = \"error\"\n", cfg.Provenance.Kind)
	for _, p := range cfg.Providers {
		fmt.Fprintf(&b, "\n[[providers]]\nid = %d\nidentifier = %q\nname = %q\n", p.ID, p.Identifier, p.Name)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

type cliEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t,
		testsupport.WithProvider(1, "ProvA"),
		testsupport.WithProvider(2, "ProvB"),
	)
	for _, dir := range []string{cfg.Source.NDJSONDir, cfg.Paths.ProvenanceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	testsupport.WriteNDJSON(t, filepath.Join(cfg.Source.NDJSONDir, "ProvA.ndjson"),
		testsupport.Occurrence(1, "A1", ""),
		testsupport.Occurrence(1, "A2", ""),
	)
	testsupport.WriteNDJSON(t, filepath.Join(cfg.Source.NDJSONDir, "ProvB.ndjson"),
		testsupport.Occurrence(2, "B1", ""),
	)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliEnv{cfg: cfg, configPath: configPath}
}

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target in output, got %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "Providers: 2 enabled of 2") {
		t.Fatalf("unexpected output: %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[export]\nvariant = \"checklist\"\n"), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, bad); err == nil {
		t.Fatal("expected invalid variant to fail validation")
	}
}

func TestFieldsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"fields", "--variant", "event"}, "")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if !strings.Contains(out, "eventID") {
		t.Fatalf("expected eventID in event catalog, got %q", out)
	}

	out, _, err = runCLI(t, []string{"--json", "fields"}, "")
	if err != nil {
		t.Fatalf("fields --json: %v", err)
	}
	var list []fieldJSON
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if len(list) == 0 || list[0].Name != "occurrenceID" {
		t.Fatalf("expected occurrenceID first, got %+v", list[:min(len(list), 1)])
	}

	if _, _, err := runCLI(t, []string{"fields", "--variant", "checklist"}, ""); err == nil {
		t.Fatal("expected unknown variant to fail")
	}
}

func TestExportValidateAndDeliveries(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"--json", "export"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Providers) != 2 {
		t.Fatalf("expected 2 provider outcomes, got %+v", report.Providers)
	}
	var archivePath string
	for _, p := range report.Providers {
		if p.Outcome != "delivered" {
			t.Fatalf("expected %s delivered, got %+v", p.Provider, p)
		}
		if p.Provider == "ProvA" {
			archivePath = p.Path
			if p.Observations != 2 {
				t.Fatalf("expected 2 observations for ProvA, got %d", p.Observations)
			}
		}
	}
	if report.Combined.Outcome != "delivered" {
		t.Fatalf("expected combined archive delivered, got %+v", report.Combined)
	}

	out, _, err = runCLI(t, []string{"export"}, env.configPath)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !strings.Contains(out, "unchanged") || !strings.Contains(out, "0 archive(s) delivered") {
		t.Fatalf("expected unchanged second run, got %q", out)
	}

	samplePath := filepath.Join(t.TempDir(), "sample.zip")
	out, _, err = runCLI(t, []string{"validate", archivePath, "--take", "1", "--out", samplePath}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "no findings") {
		t.Fatalf("expected clean validation, got %q", out)
	}
	entries := testsupport.ReadZip(t, samplePath)
	if rows := testsupport.DataLines(entries["occurrence.csv"]); len(rows) != 1 {
		t.Fatalf("expected 1 sampled row, got %d", len(rows))
	}

	out, _, err = runCLI(t, []string{"--json", "deliveries", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("deliveries list: %v", err)
	}
	var ledger []deliveryJSON
	if err := json.Unmarshal([]byte(out), &ledger); err != nil {
		t.Fatalf("decode deliveries: %v", err)
	}
	if len(ledger) != 3 {
		t.Fatalf("expected 3 deliveries (two providers and combined), got %+v", ledger)
	}

	out, _, err = runCLI(t, []string{"deliveries", "forget", "ProvA"}, env.configPath)
	if err != nil {
		t.Fatalf("deliveries forget: %v", err)
	}
	if !strings.Contains(out, "Forgot occurrence delivery of ProvA") {
		t.Fatalf("unexpected forget output: %q", out)
	}

	out, _, err = runCLI(t, []string{"deliveries", "history", "ProvA"}, env.configPath)
	if err != nil {
		t.Fatalf("deliveries history: %v", err)
	}
	if !strings.Contains(out, archivePath) {
		t.Fatalf("expected history to keep the delivery, got %q", out)
	}

	out, _, err = runCLI(t, []string{"--json", "export"}, env.configPath)
	if err != nil {
		t.Fatalf("third export: %v", err)
	}
	report = reportJSON{}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	for _, p := range report.Providers {
		want := "unchanged"
		if p.Provider == "ProvA" {
			want = "delivered"
		}
		if p.Outcome != want {
			t.Fatalf("expected %s %s after forget, got %s", p.Provider, want, p.Outcome)
		}
	}
}

func TestStagingCommands(t *testing.T) {
	env := setupCLIEnv(t)
	leftover := filepath.Join(env.cfg.Paths.StagingDir, "run-abandoned", "1")
	if err := os.MkdirAll(leftover, 0o755); err != nil {
		t.Fatalf("mkdir leftover: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(leftover, "occurrence-1-000000.csv"), 128)

	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	if !strings.Contains(out, "abandoned") {
		t.Fatalf("expected leftover run in list, got %q", out)
	}

	out, _, err = runCLI(t, []string{"staging", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	if !strings.Contains(out, "No staging directories to clean") {
		t.Fatalf("expected fresh directory to survive, got %q", out)
	}

	out, _, err = runCLI(t, []string{"staging", "clean", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean --all: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Fatalf("expected removal, got %q", out)
	}
	if _, err := os.Stat(filepath.Dir(leftover)); !os.IsNotExist(err) {
		t.Fatalf("expected run directory removed, stat err=%v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[OK]") {
		t.Fatalf("expected passing checks, got %q", out)
	}

	if err := os.RemoveAll(env.cfg.Source.NDJSONDir); err != nil {
		t.Fatalf("remove ndjson dir: %v", err)
	}
	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatalf("expected missing ndjson dir to fail, got %q", out)
	}
	if !strings.Contains(out, "[ERROR]") {
		t.Fatalf("expected an error line, got %q", out)
	}
}

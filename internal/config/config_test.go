package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEGNALIBRO_DB", "")
	t.Setenv("SEGNALIBRO_PRIMARY", "")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath == "" {
		t.Error("expected a default db path")
	}
	if cfg.PrimaryID != "1" {
		t.Errorf("PrimaryID = %q, want %q", cfg.PrimaryID, "1")
	}
}

func TestLoadReadsFile(t *testing.T) {
	t.Setenv("SEGNALIBRO_DB", "")
	t.Setenv("SEGNALIBRO_PRIMARY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "db_path = \"/tmp/marks.db\"\nprimary_id = \"42\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/marks.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/marks.db")
	}
	if cfg.PrimaryID != "42" {
		t.Errorf("PrimaryID = %q, want %q", cfg.PrimaryID, "42")
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = \"/tmp/from-file.db\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SEGNALIBRO_DB", "/tmp/from-env.db")
	t.Setenv("SEGNALIBRO_PRIMARY", "7")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("DBPath = %q, want the env value", cfg.DBPath)
	}
	if cfg.PrimaryID != "7" {
		t.Errorf("PrimaryID = %q, want the env value", cfg.PrimaryID)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = [broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := load(path); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLineAndColumn(t *testing.T) {
	src := "x :a 1.\ny :b 2."
	tests := []struct {
		pos          int
		line, column int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{8, 2, 1},
		{11, 2, 4},
		{100, 2, 8},
	}
	for i, tt := range tests {
		line, col := GetLineAndColumn(src, tt.pos)
		if line != tt.line || col != tt.column {
			t.Fatalf("tests[%d] - position wrong. expected=%d:%d, got=%d:%d",
				i, tt.line, tt.column, line, col)
		}
	}
}

func TestGetContextLines(t *testing.T) {
	src := "a :b.\nc :d.\ne :f +."
	got := GetContextLines(src, 3, 7)
	want := "       1 | a :b.\n" +
		"       2 | c :d.\n" +
		"  >    3 | e :f +.\n" +
		"                 ^ unexpected here"
	if got != want {
		t.Fatalf("context wrong.\nexpected=\n%s\ngot=\n%s", want, got)
	}

	// column past the end of the line must not panic
	if out := GetContextLines("x", 1, 40); !strings.Contains(out, "^ unexpected here") {
		t.Fatalf("missing caret: %q", out)
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "gloom.yaml")
	tml := filepath.Join(dir, "gloom.toml")

	if err := os.WriteFile(yml, []byte(`
log_level: DEBUG
prompt: "> "
transcript:
  driver: sqlite3
  dsn: out.db
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tml, []byte(`
log_level = "WARN"
debug_ast = true

[transcript]
driver = "postgres"
dsn = "postgres://localhost/gloom"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(yml)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if cfg.LogLevel != "DEBUG" || cfg.Prompt != "> " || cfg.Transcript.Driver != "sqlite3" || cfg.Transcript.DSN != "out.db" {
		t.Fatalf("yaml config wrong: %+v", cfg)
	}

	cfg, err = LoadConfiguration(tml)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	if cfg.LogLevel != "WARN" || !cfg.DebugJsonAST || cfg.Transcript.Driver != "postgres" {
		t.Fatalf("toml config wrong: %+v", cfg)
	}
	if cfg.Prompt != "gloom> " {
		t.Fatalf("default prompt lost: %q", cfg.Prompt)
	}

	if _, err := LoadConfiguration(filepath.Join(dir, "gloom.ini")); err == nil {
		t.Fatalf("missing file loaded without error")
	}
	cfg, err = LoadConfiguration("")
	if err != nil || cfg.LogLevel != "NONE" {
		t.Fatalf("defaults wrong: %+v, %v", cfg, err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(ConfigEnv, "/etc/gloom.yaml")
	if ConfigPath("") != "/etc/gloom.yaml" {
		t.Fatalf("env fallback not used")
	}
	if ConfigPath("local.toml") != "local.toml" {
		t.Fatalf("flag did not win")
	}
}

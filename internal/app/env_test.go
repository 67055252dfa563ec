package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")
	t.Setenv("BAZ", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nexport BAR=\"beta gamma\"\nBAZ='x=y'\nmalformed\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta gamma" {
		t.Fatalf("BAR=%q, want unquoted value", got)
	}
	if got := os.Getenv("BAZ"); got != "x=y" {
		t.Fatalf("BAZ=%q, want x=y", got)
	}
}

func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestParseDotenv_KeepsOrder(t *testing.T) {
	vars, err := parseDotenv(strings.NewReader("A=1\nB=2\nA=3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 3 || vars[2] != [2]string{"A", "3"} {
		t.Fatalf("unexpected vars: %v", vars)
	}
}

func TestApplyEnvOverrides_BeatsFileValues(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("EXTRACT_PARALLEL", "off")
	t.Setenv("CACHE_MAX_AGE", "bogus")

	cfg := Config{LLMModel: "file-model", Parallel: true, CacheMaxAge: time.Hour}
	ApplyEnvOverrides(&cfg)
	if cfg.LLMModel != "env-model" {
		t.Fatalf("LLMModel=%q, want env-model", cfg.LLMModel)
	}
	if cfg.Parallel {
		t.Fatalf("EXTRACT_PARALLEL=off should disable parallel")
	}
	if cfg.CacheMaxAge != time.Hour {
		t.Fatalf("unparsable duration must leave value unchanged")
	}
}

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/quizextract/internal/app"
	"github.com/hyperifyio/quizextract/internal/extract"
)

// Smoke test: run writes the course JSON for a simple document.
func TestRun_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "quiz.txt")
	out := filepath.Join(dir, "course.json")
	if err := os.WriteFile(in, []byte("1. Name a primary color.\nA) Red\nB) Green\nC) Blue\nD) Yellow\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := app.DefaultConfig()
	cfg.InputPath = in
	cfg.OutputPath = out
	cfg.CacheDir = filepath.Join(dir, "cache")
	if err := run(cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file, err=%v", err)
	}
	var doc struct {
		Count     int `json:"count"`
		Questions []struct {
			Options       []string `json:"options"`
			CorrectAnswer int      `json:"correct_answer"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Count != 1 || len(doc.Questions[0].Options) != 4 || doc.Questions[0].CorrectAnswer != 0 {
		t.Fatalf("unexpected output: %s", b)
	}
}

func TestRun_NoQuestions_Exit2(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prose.txt")
	if err := os.WriteFile(in, []byte("Just prose.\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := app.DefaultConfig()
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(dir, "out.json")
	cfg.CacheDir = filepath.Join(dir, "cache")
	err := run(cfg)
	if !errors.Is(err, extract.ErrNoQuestionsFound) {
		t.Fatalf("expected ErrNoQuestionsFound, got %v", err)
	}
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode(err))
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != 0 {
		t.Fatal("nil error must exit 0")
	}
	if exitCode(fmt.Errorf("wrapped: %w", extract.ErrNoTextExtracted)) != 2 {
		t.Fatal("no text must exit 2")
	}
	if exitCode(errors.New("disk full")) != 1 {
		t.Fatal("other failures must exit 1")
	}
}

func TestParseConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "quiz.yaml")
	yml := "input: from-file.pdf\ncourse:\n  title: File title\n  description: File description\nextract:\n  timeout: 10s\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COURSE_TITLE", "Env title")
	t.Setenv("COURSE_DESCRIPTION", "")
	t.Setenv("EXTRACT_TIMEOUT", "")
	t.Setenv("QUIZ_INPUT", "")

	cfg, err := parseConfig([]string{"-config", cfgPath, "-env", "", "-timeout", "5s"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.InputPath != "from-file.pdf" {
		t.Fatalf("file input not applied: %q", cfg.InputPath)
	}
	if cfg.Title != "Env title" {
		t.Fatalf("env must beat file, got %q", cfg.Title)
	}
	if cfg.Description != "File description" {
		t.Fatalf("file value lost: %q", cfg.Description)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("flag must beat file, got %v", cfg.Timeout)
	}

	cfg, err = parseConfig([]string{"-config", cfgPath, "-env", "", "-title", "Flag title", "positional.txt"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Title != "Flag title" || cfg.InputPath != "positional.txt" {
		t.Fatalf("flags must win: %+v", cfg)
	}
}

func TestParseConfig_MissingInput(t *testing.T) {
	t.Setenv("QUIZ_INPUT", "")
	if _, err := parseConfig([]string{"-env", ""}, io.Discard); err == nil {
		t.Fatalf("expected validation error without input")
	}
}

func TestParseConfig_Version(t *testing.T) {
	var buf strings.Builder
	_, err := parseConfig([]string{"-version"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.HasPrefix(buf.String(), "quizextract ") {
		t.Fatalf("unexpected banner %q", buf.String())
	}
}

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperifyio/quizextract/internal/quiz"
	"github.com/hyperifyio/quizextract/internal/source"
)

// Course is the JSON document handed to the course-creation step.
type Course struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []quiz.Question `json:"questions"`
	Count       int             `json:"count"`
	Source      SourceInfo      `json:"source"`
	Strategies  map[string]int  `json:"strategies,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// SourceInfo records which input the questions came from.
type SourceInfo struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	SHA256 string `json:"sha256"`
	Pages  int    `json:"pages"`
}

// buildCourse frames an extraction result. The title falls back to the
// document title, then to the file name.
func buildCourse(cfg Config, doc source.Document, res quiz.Result, counts map[string]int, now time.Time) Course {
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Title)
	}
	if title == "" {
		base := filepath.Base(doc.Name)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return Course{
		Title:       title,
		Description: strings.TrimSpace(cfg.Description),
		Questions:   res.Questions,
		Count:       res.Count,
		Source: SourceInfo{
			Path:   doc.Name,
			Kind:   string(doc.Kind),
			SHA256: doc.SHA256,
			Pages:  len(doc.Pages),
		},
		Strategies:  counts,
		GeneratedAt: now.UTC().Truncate(time.Second),
	}
}

// writeCourse writes c as indented JSON, creating parent directories.
func writeCourse(path string, c Course) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode course: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

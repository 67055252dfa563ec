package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// Kind is the detected input format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

// Document is a loaded input: its pages plus provenance.
type Document struct {
	Name   string
	Kind   Kind
	Title  string
	SHA256 string
	Pages  []quiz.RawPage
}

// LoadFile reads path and converts it into pages.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(path, data)
}

// Load converts data into pages. The format is taken from the file
// extension, falling back to content sniffing.
func Load(name string, data []byte) (Document, error) {
	sum := sha256.Sum256(data)
	doc := Document{Name: name, Kind: Detect(name, data), SHA256: hex.EncodeToString(sum[:])}
	switch doc.Kind {
	case KindPDF:
		pages, err := PDFPages(data)
		if err != nil {
			return Document{}, fmt.Errorf("pdf %s: %w", name, err)
		}
		doc.Pages = pages
	case KindHTML:
		h := FromHTML(data)
		doc.Title = h.Title
		doc.Pages = []quiz.RawPage{{Index: 0, Text: h.Text}}
	default:
		doc.Pages = TextPages(string(data))
	}
	return doc, nil
}

// Detect guesses the format of data.
func Detect(name string, data []byte) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm":
		return KindHTML
	case ".txt", ".text":
		return KindText
	}
	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return KindPDF
	}
	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html")) {
		return KindHTML
	}
	return KindText
}

// TextPages splits plain text on form feeds, one page per segment.
func TextPages(text string) []quiz.RawPage {
	parts := strings.Split(text, "\f")
	out := make([]quiz.RawPage, 0, len(parts))
	for i, p := range parts {
		out = append(out, quiz.RawPage{Index: i, Text: p})
	}
	return out
}

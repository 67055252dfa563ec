package strategy

import (
	"errors"
	"testing"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

func TestFoldBlocks_SkipsPanickingBlock(t *testing.T) {
	blocks := numberedBlocks([]string{"good one", "boom", "good two"})
	out := foldBlocks("test", blocks, func(b string) (quiz.Candidate, error) {
		if b == "boom" {
			panic("unbalanced delimiter")
		}
		return quiz.Candidate{Text: b, Options: []string{"x", "y"}}, nil
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving blocks, got %d", len(out))
	}
	if out[0].Text != "good one" || out[1].Text != "good two" {
		t.Fatalf("unexpected order: %+v", out)
	}
	for _, c := range out {
		if c.Strategy != "test" {
			t.Fatalf("strategy not stamped: %+v", c)
		}
	}
}

func TestParseOne_FillsBlockError(t *testing.T) {
	b := block{ID: "7", Text: "What is 2+2?\nSelect one:\n3\n4\n"}
	_, err := parseOne("structured", b, func(s string) (quiz.Candidate, error) {
		return parseBlock(s, true)
	})
	var be *BlockError
	if !errors.As(err, &be) {
		t.Fatalf("expected BlockError, got %v", err)
	}
	if be.Strategy != "structured" || be.Block != "7" || be.Reason == "" {
		t.Fatalf("incomplete block error: %+v", be)
	}
	if be.Error() != "structured: block 7: missing scoring annotation" {
		t.Fatalf("unexpected message: %q", be.Error())
	}
}

func TestParseBlock_NoQuestionIsNotMalformed(t *testing.T) {
	_, err := parseBlock("just some prose\nwith no options\n", false)
	if !errors.Is(err, errNoQuestion) {
		t.Fatalf("expected errNoQuestion, got %v", err)
	}
}

func TestParseBlock_LetteredOptionsStopAtRestart(t *testing.T) {
	c, err := parseBlock("1. First question here?\nA) one\nB) two\nA) again\nB) more\n", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "First question here?" {
		t.Fatalf("unexpected stem: %q", c.Text)
	}
	if len(c.Options) != 2 || c.Options[1] != "two" {
		t.Fatalf("unexpected options: %v", c.Options)
	}
}

func TestRegistries(t *testing.T) {
	var names []string
	for _, s := range Primary(false) {
		names = append(names, s.Name())
	}
	want := []string{"structured", "multiline", "continuous", "page"}
	if len(names) != len(want) {
		t.Fatalf("unexpected primary list: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("primary order: got %v want %v", names, want)
		}
	}
	fb := Fallback()
	if len(fb) != 2 || fb[0].Name() != "simple" || fb[1].Name() != "numbered" {
		t.Fatalf("unexpected fallback list")
	}
}

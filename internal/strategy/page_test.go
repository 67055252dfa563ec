package strategy

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

func samplePages() []quiz.RawPage {
	return []quiz.RawPage{
		{Index: 0, Text: "1. What is the capital of France?\nA) Paris\nB) Rome\n2. What is the capital of Spain?\nA) Madrid\nB) Lisbon\n"},
		{Index: 1, Text: ""},
		{Index: 2, Text: "Q: Which planet is known as the red planet?\nA) Mars\nB) Venus\nC) Jupiter\nhttps://example.com/quiz 12/05/2024\n"},
	}
}

func TestPageByPage_NumberedAndQ(t *testing.T) {
	out := PageByPage{}.Extract(Document{Pages: samplePages()})
	if len(out) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(out), out)
	}
	want := []string{
		"What is the capital of France?",
		"What is the capital of Spain?",
		"Which planet is known as the red planet?",
	}
	for i, w := range want {
		if out[i].Text != w {
			t.Fatalf("candidate %d: got %q want %q", i, out[i].Text, w)
		}
	}
	if got := out[2].Options; len(got) != 3 || got[2] != "Jupiter" {
		t.Fatalf("footer leaked into options: %v", got)
	}
}

func TestPageByPage_ParallelMatchesSequential(t *testing.T) {
	pages := samplePages()
	for i := 0; i < 5; i++ {
		pages = append(pages, samplePages()...)
	}
	seq := PageByPage{}.Extract(Document{Pages: pages})
	par := PageByPage{Parallel: true}.Extract(Document{Pages: pages})
	if !reflect.DeepEqual(seq, par) {
		t.Fatalf("parallel output differs from sequential")
	}
}

func TestPageByPage_DoesNotStitchAcrossPages(t *testing.T) {
	pages := []quiz.RawPage{
		{Index: 0, Text: "3. A question that spans two pages?\n"},
		{Index: 1, Text: "A) First\nB) Second\n"},
	}
	if out := (PageByPage{}).Extract(Document{Pages: pages}); len(out) != 0 {
		t.Fatalf("expected nothing across a page break, got %+v", out)
	}
}

func TestPageByPage_FallsBackToWholeText(t *testing.T) {
	out := PageByPage{}.Extract(Document{Text: "1. Name a primary color.\nA) Red\nB) Green\nC) Blue\nD) Yellow\n"})
	if len(out) != 1 || len(out[0].Options) != 4 {
		t.Fatalf("unexpected candidates: %+v", out)
	}
}

func TestPageByPage_LookaheadWindow(t *testing.T) {
	filler := strings.Repeat("filler ", 90) + "\n"
	if len(filler) <= pageWindow {
		t.Fatalf("filler must exceed the window")
	}
	const options = "A) Everest\nB) K2\n"
	cases := []struct {
		name   string
		stem   string
		filler string
		want   int
	}{
		{"Q stem inside window", "Q: What is the tallest mountain on Earth?\n", "", 1},
		{"Q stem beyond window", "Q: What is the tallest mountain on Earth?\n", filler, 0},
		{"numbered stem inside window", "1. What is the tallest mountain on Earth?\n", "", 1},
		{"numbered stem beyond window", "1. What is the tallest mountain on Earth?\n", filler, 0},
	}
	p := PageByPage{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := tc.stem + tc.filler + options
			var got int
			if strings.HasPrefix(tc.stem, "Q:") {
				got = len(p.qPrefixed(text))
			} else {
				got = len(p.numbered(0, text))
			}
			if got != tc.want {
				t.Fatalf("got %d candidates, want %d", got, tc.want)
			}
		})
	}
}

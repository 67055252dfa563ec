package strategy

import (
	"testing"
)

func TestContinuous_InlineOptions(t *testing.T) {
	text := "Some intro. What is the largest ocean? A) Atlantic B) Pacific C) Indian D) Arctic\n"
	out := Continuous{}.Extract(Document{Text: text})
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(out), out)
	}
	if out[0].Text != "What is the largest ocean?" {
		t.Fatalf("unexpected stem: %q", out[0].Text)
	}
	want := []string{"Atlantic", "Pacific", "Indian", "Arctic"}
	for i, w := range want {
		if out[0].Options[i] != w {
			t.Fatalf("option %d: got %q want %q", i, out[0].Options[i], w)
		}
	}
}

func TestContinuous_EmitsInternalDuplicates(t *testing.T) {
	text := "1. Which of the following is a prime number? A) 4 B) 6 C) 7 D) 9"
	out := Continuous{}.Extract(Document{Text: text})
	if len(out) != 3 {
		t.Fatalf("expected one candidate per matching pattern, got %d: %+v", len(out), out)
	}
	for _, c := range out {
		if c.Text != "Which of the following is a prime number?" {
			t.Fatalf("unexpected stem: %q", c.Text)
		}
	}
}

func TestContinuous_RunsDoNotSwallowNextQuestion(t *testing.T) {
	text := "What is 1+1?\nA) 2 B) 3\nWhat is 2+2?\nA) 4 B) 5\n"
	out := Continuous{}.Extract(Document{Text: text})
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(out), out)
	}
	if out[0].Options[1] != "3" || out[1].Text != "What is 2+2?" || out[1].Options[0] != "4" {
		t.Fatalf("unexpected candidates: %+v", out)
	}
}

func TestFindOptionRuns_StopsAtInlineStem(t *testing.T) {
	runs := findOptionRuns("A) yes B) no 2. Is it?")
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if got := runs[0].options; len(got) != 2 || got[1] != "no" {
		t.Fatalf("unexpected options: %v", got)
	}
}

func TestFindOptionRuns_RequiresAFirst(t *testing.T) {
	if runs := findOptionRuns("see B) this and C) that"); len(runs) != 0 {
		t.Fatalf("expected no runs, got %+v", runs)
	}
}

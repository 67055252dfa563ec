package dispatch

import (
	"reflect"
	"testing"

	"github.com/hyperifyio/quizextract/internal/quiz"
	"github.com/hyperifyio/quizextract/internal/strategy"
)

type fakeStrategy struct {
	name  string
	out   []quiz.Candidate
	panic bool
	calls *int
}

func (f fakeStrategy) Name() string { return f.name }

func (f fakeStrategy) Extract(strategy.Document) []quiz.Candidate {
	if f.calls != nil {
		*f.calls++
	}
	if f.panic {
		panic("bad input")
	}
	return f.out
}

func cand(text string) quiz.Candidate {
	return quiz.Candidate{Text: text, Options: []string{"a", "b"}}
}

func TestDispatch_OrderAndPanicIsolation(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		d := &Dispatcher{
			Primary: []strategy.Strategy{
				fakeStrategy{name: "first", out: []quiz.Candidate{cand("one"), cand("two")}},
				fakeStrategy{name: "broken", panic: true},
				fakeStrategy{name: "third", out: []quiz.Candidate{cand("three")}},
			},
			Parallel: parallel,
		}
		rep := d.Dispatch(strategy.Document{Text: "x"})
		if len(rep.Batches) != 3 {
			t.Fatalf("parallel=%v: expected 3 batches, got %d", parallel, len(rep.Batches))
		}
		if !rep.Batches[1].Failed || len(rep.Batches[1].Candidates) != 0 {
			t.Fatalf("parallel=%v: panicking strategy not isolated: %+v", parallel, rep.Batches[1])
		}
		var texts []string
		for _, c := range flatten(rep.Groups()) {
			texts = append(texts, c.Text)
		}
		if !reflect.DeepEqual(texts, []string{"one", "two", "three"}) {
			t.Fatalf("parallel=%v: unexpected order %v", parallel, texts)
		}
	}
}

func TestDispatch_FallbackOnlyWhenStructuredEmpty(t *testing.T) {
	calls := 0
	fb := []strategy.Strategy{fakeStrategy{name: "simple", out: []quiz.Candidate{cand("fb")}, calls: &calls}}

	d := &Dispatcher{
		Primary:  []strategy.Strategy{fakeStrategy{name: "structured", out: []quiz.Candidate{cand("s")}}},
		Fallback: fb,
	}
	d.Dispatch(strategy.Document{})
	if calls != 0 {
		t.Fatalf("fallback must not run when structured found questions")
	}

	d.Primary = []strategy.Strategy{
		fakeStrategy{name: "structured"},
		fakeStrategy{name: "multiline", out: []quiz.Candidate{cand("m")}},
	}
	rep := d.Dispatch(strategy.Document{})
	if calls != 1 {
		t.Fatalf("fallback should run once, ran %d times", calls)
	}
	counts := rep.Counts()
	if counts["multiline"] != 1 || counts["simple"] != 1 || counts["structured"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if last := rep.Batches[len(rep.Batches)-1]; last.Strategy != "simple" {
		t.Fatalf("fallback batch must come last, got %q", last.Strategy)
	}
}

func TestNew_RealStrategiesScenarioB(t *testing.T) {
	text := "Q: What is the capital of Nigeria?\nA) Lagos\nB) Abuja\nC) Kano\n"
	seq := New(false).Dispatch(strategy.Document{Text: text})
	par := New(true).Dispatch(strategy.Document{Text: text})
	if !reflect.DeepEqual(flatten(seq.Groups()), flatten(par.Groups())) {
		t.Fatalf("parallel dispatch differs from sequential")
	}
	if len(flatten(seq.Groups())) == 0 {
		t.Fatalf("expected candidates for a simple Q/A document")
	}
	for _, c := range flatten(seq.Groups()) {
		if c.Text != "What is the capital of Nigeria?" {
			t.Fatalf("unexpected stem %q from %s", c.Text, c.Strategy)
		}
	}
}

func flatten(groups [][]quiz.Candidate) []quiz.Candidate {
	var out []quiz.Candidate
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

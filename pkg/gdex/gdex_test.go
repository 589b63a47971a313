package gdex

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/score"
	"github.com/cognicore/gdex/pkg/gdex/sense"
	"github.com/cognicore/gdex/pkg/gdex/stoplist"
)

var corpus = []string{
	"השחקן בעט בכדור חזק לעבר השער של הקבוצה היריבה.",
	"הילד בעט בכדור בחצר בית הספר אחרי השיעור.",
	"החלוץ בעט בכדור ישר לשער וכבש את השער.",
	"השוער בעט בכדור רחוק אל מרכז המגרש.",
	"המנהל בעט בהצעה של העובדים בלי לקרוא אותה.",
	"הממשלה בעטה ברעיון החדש של האופוזיציה.",
	"הוא בעט בהצעה הנדיבה של החברה הגדולה.",
	"היא בעטה בעבודה הקודמת ועברה לעיר אחרת.",
	"מזג האוויר היה נעים מאוד היום.",
	"הספרייה נסגרה מוקדם בגלל החג.",
}

func TestRunRejectsEmptyLemma(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Run(context.Background(), "", corpus); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunWithoutMatches(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(context.Background(), "מחשב", corpus)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.CorpusSize != len(corpus) || len(res.Matching) != 0 || len(res.Examples) != 0 {
		t.Fatalf("expected an empty result, got %+v", res)
	}
}

func TestRunEndToEnd(t *testing.T) {
	e, err := New(Options{
		Stoplist:  stoplist.NewManager([]string{"של"}),
		TopN:      5,
		Diversify: true,
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(context.Background(), "בעט", corpus)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Matching) != 8 {
		t.Fatalf("expected 8 matching sentences, got %d", len(res.Matching))
	}
	matching := map[string]bool{}
	for _, s := range res.Matching {
		matching[s] = true
	}

	if len(res.Cooccurrences) == 0 || res.Cooccurrences[0].Word != "בכדור" || res.Cooccurrences[0].Count != 4 {
		t.Fatalf("unexpected top co-occurrence %+v", res.Cooccurrences)
	}
	if len(res.Bigrams) == 0 || res.Bigrams[0].Right != "בכדור" {
		t.Fatalf("unexpected bigrams %+v", res.Bigrams)
	}

	if len(res.Senses) == 0 {
		t.Fatalf("expected at least one sense")
	}
	for _, s := range res.Senses {
		for _, ex := range s.Examples {
			if !matching[ex] {
				t.Fatalf("sense %d holds a non-matching sentence %q", s.ID, ex)
			}
		}
	}

	if len(res.Examples) == 0 || len(res.Examples) > 5 {
		t.Fatalf("expected 1..5 examples, got %d", len(res.Examples))
	}
	seen := map[string]bool{}
	for i, ex := range res.Examples {
		if !matching[ex.Sentence] || seen[ex.Sentence] {
			t.Fatalf("example %d is invalid or repeated: %q", i, ex.Sentence)
		}
		seen[ex.Sentence] = true
		if ex.Score < 0 || ex.Score > 1 || ex.Lemma != "בעט" {
			t.Fatalf("bad example %+v", ex)
		}
	}

	if got := e.Examples("בעט", -1); len(got) == 0 {
		t.Fatalf("inventory should hold the last run")
	}
	for _, w := range e.Patterns("בעט", -1) {
		if w == "של" {
			t.Fatalf("stopword leaked into patterns")
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() Result {
		e, err := New(Options{Diversify: true, TopN: 4})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res, err := e.Run(context.Background(), "בעט", corpus)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if len(a.Examples) != len(b.Examples) {
		t.Fatalf("example counts differ")
	}
	for i := range a.Examples {
		if a.Examples[i] != b.Examples[i] {
			t.Fatalf("example %d differs: %+v vs %+v", i, a.Examples[i], b.Examples[i])
		}
	}
}

type fakeClusterer struct {
	calls int
	opts  sense.Options
}

func (f *fakeClusterer) Senses(lemma string, sentences []string, opts sense.Options, window int, filter colloc.FilterOptions) ([]sense.Sense, error) {
	f.calls++
	f.opts = opts
	return []sense.Sense{{
		ID:           0,
		Examples:     sentences,
		Collocations: colloc.Ranked{{Word: "בכדור", Count: 4}},
		Count:        len(sentences),
	}}, nil
}

func TestRunUsesInjectedCollaborators(t *testing.T) {
	fc := &fakeClusterer{}
	scorer, err := score.NewScorer(score.DefaultWeights())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	e, err := New(Options{Clusterer: fc, Scorer: scorer, NumClusters: 2, MaxPerCluster: 3, TopN: 3, Diversify: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(context.Background(), "בעט", corpus)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fc.calls != 1 || fc.opts.NumClusters != 2 || fc.opts.MaxPerCluster != 3 {
		t.Fatalf("clusterer not called as configured: %+v", fc)
	}
	if len(res.Examples) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(res.Examples))
	}
	for _, ex := range res.Examples {
		if ex.Cluster != score.Unclustered {
			t.Fatalf("scorer without disambiguator should not assign clusters: %+v", ex)
		}
	}
	if got := e.Patterns("בעט", 0); len(got) != 1 || got[0] != "בכדור" {
		t.Fatalf("unexpected patterns %v", got)
	}
	if got := res.Clusters(); len(got[0]) != 8 {
		t.Fatalf("unexpected clusters %v", got)
	}
}

func TestRunCanceled(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx, "בעט", corpus); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type failingClusterer struct{}

func (failingClusterer) Senses(string, []string, sense.Options, int, colloc.FilterOptions) ([]sense.Sense, error) {
	return nil, internalerr.ErrInvalidInput
}

func TestRunErrorReturnsEmptyResult(t *testing.T) {
	e, err := New(Options{Clusterer: failingClusterer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(context.Background(), "בעט", corpus)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if res.Lemma != "" || res.CorpusSize != 0 || res.Matching != nil || res.Cooccurrences != nil || res.Bigrams != nil {
		t.Fatalf("expected an empty result on error, got %+v", res)
	}
	if got := e.Patterns("בעט", 0); len(got) != 0 {
		t.Fatalf("failed run should not populate the inventory, got %v", got)
	}
}

package score

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/sense"
)

const eps = 1e-9

func newScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights(), opts...)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

// good builds a twelve word sentence ending in a period with a distinct
// final word.
func good(last string) string {
	return "הילדים שיחקו בחצר הגדולה של בית הספר אחרי השיעור ביום שלישי " + last + "."
}

func TestPerfectSentenceScoresOne(t *testing.T) {
	words := []string{"אבגד", "הוזח", "טיכל", "מנסע", "פצקר", "שתאב", "גדהו", "זחטי",
		"כלמנ", "סעפצ", "קרשת", "אבדה", "וזטי", "כמנס", "עפקר"}
	sentence := strings.Join(words, " ") + "."
	common := make(map[string]struct{})
	for _, w := range strings.Fields(sentence) {
		common[w] = struct{}{}
	}

	got := newScorer(t).ScoreSentence(sentence, "אבגד", common)
	if math.Abs(got-1) > eps {
		t.Fatalf("score = %v, want 1", got)
	}
}

func TestShortIncompleteSentence(t *testing.T) {
	s := newScorer(t)
	// length .3*.2 + complexity 1*.15 + completeness .3*.2 + neutral common .7*.2 + informativeness .5*.25
	got := s.ScoreSentence("בית גדול", "בית", nil)
	if math.Abs(got-0.535) > eps {
		t.Fatalf("score = %v, want 0.535", got)
	}

	b := s.ScoreBreakdown("בית גדול", "בית", nil)
	if math.Abs(b.Common-0.14) > eps || math.Abs(b.Total-got) > eps {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestEmptySentence(t *testing.T) {
	got := newScorer(t).ScoreSentence("", "בית", map[string]struct{}{"בית": {}})
	if math.Abs(got-0.32) > eps {
		t.Fatalf("score = %v, want 0.32", got)
	}
}

func TestNoRepeatedWordsScoresNeutralCommon(t *testing.T) {
	s := newScorer(t)
	sentence := "הקבוצה צברה נקודה אחת במשחק האחרון נגד היריבה מהצפון אתמול."
	want := s.ScoreSentence(sentence, "נקודה", nil)

	got := s.ScoreExamples([]string{sentence}, "נקודה")
	if len(got) != 1 || math.Abs(got[0].Score-want) > eps {
		t.Fatalf("batch score = %+v, want %v", got, want)
	}
	if b := s.ScoreBreakdown(sentence, "נקודה", map[string]struct{}{}); math.Abs(b.Common-0.14) > eps {
		t.Fatalf("empty common set: common = %v, want 0.14", b.Common)
	}
	if kept := s.FilterByQuality([]string{sentence}, "נקודה", 0.9); len(kept) != 1 {
		t.Fatalf("expected sentence to pass 0.9, got %v", kept)
	}
}

func TestCriteria(t *testing.T) {
	if LengthScore(Extract(strings.Repeat("א ", 8))) != 0.7 {
		t.Errorf("eight words should score 0.7")
	}
	if LengthScore(Extract(strings.Repeat("א ", 31))) != 0.3 {
		t.Errorf("31 words should score 0.3")
	}
	if ComplexityScore(Extract("אבגדהוזחטי")) != 0.5 {
		t.Errorf("ten rune words should score 0.5")
	}
	for _, s := range []string{"מה קרה?", "שלום!", "ראה להלן:", "הנה;", "ויאמר׃"} {
		if CompletenessScore(Extract(s)) != 1 {
			t.Errorf("%q should be complete", s)
		}
	}
	if CompletenessScore(Extract("בלי סוף ")) != 0.3 {
		t.Errorf("unterminated sentence should score 0.3")
	}
	if InformativenessScore(Extract("א א א א ב")) != 0.5 {
		t.Errorf("repetitive sentence should score 0.5")
	}
}

func TestCommonWords(t *testing.T) {
	common := CommonWords([]string{"אב גד", "אב הו", "זח"})
	if len(common) != 1 {
		t.Fatalf("expected one common word, got %v", common)
	}
	if _, ok := common["אב"]; !ok {
		t.Fatalf("expected אב to be common")
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights: %v", err)
	}
	w := DefaultWeights()
	w.Length = 0.5
	if _, err := NewScorer(w); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sum != 1, got %v", err)
	}
	w = DefaultWeights()
	w.Length, w.Common = -0.1, 0.5
	if err := w.Validate(); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative weight, got %v", err)
	}
	if _, err := NewScorer(DefaultWeights(), WithNearDuplicate(1.5)); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for threshold, got %v", err)
	}
}

func TestScoreExamplesRanksAndIsStable(t *testing.T) {
	s := newScorer(t)
	in := []string{"קצר", good("א"), "קצר", good("ב")}
	got := s.ScoreExamples(in, "הילדים")
	if len(got) != len(in) {
		t.Fatalf("got %d results, want %d", len(got), len(in))
	}
	wantIdx := []int{1, 3, 0, 2}
	for i, sc := range got {
		if sc.Index != wantIdx[i] || sc.Sentence != in[sc.Index] {
			t.Fatalf("position %d: got index %d, want %d", i, sc.Index, wantIdx[i])
		}
		if sc.Score < 0 || sc.Score > 1 {
			t.Fatalf("score %v out of range", sc.Score)
		}
		if i > 0 && got[i-1].Score < sc.Score {
			t.Fatalf("results not sorted descending")
		}
	}

	again := s.ScoreExamples(in, "הילדים")
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("scoring is not idempotent at %d", i)
		}
	}
}

func TestScoreExamplesParallelMatchesSerial(t *testing.T) {
	s := newScorer(t)
	var in []string
	for i := 0; i < 600; i++ {
		switch i % 3 {
		case 0:
			in = append(in, good(strings.Repeat("ז", i%7+1)))
		case 1:
			in = append(in, "משפט קצר")
		default:
			in = append(in, "משפט בינוני בלי סוף ברור")
		}
	}
	want := s.ScoreExamples(in, "משפט")
	got, err := s.ScoreExamplesParallel(context.Background(), in, "משפט", 4)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("mismatch at %d: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestScoreExamplesParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newScorer(t).ScoreExamplesParallel(ctx, []string{"א"}, "א", 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFilterByQuality(t *testing.T) {
	in := []string{"קצר", good("א"), good("ב")}
	got := newScorer(t).FilterByQuality(in, "הילדים", 0.8)
	if len(got) != 2 || got[0] != in[1] || got[1] != in[2] {
		t.Fatalf("unexpected filter result %v", got)
	}
}

func TestAtLeastKeepsRankedPrefix(t *testing.T) {
	ranked := []Scored{{Score: 0.9, Index: 2}, {Score: 0.7, Index: 0}, {Score: 0.7, Index: 3}, {Score: 0.4, Index: 1}}
	if got := AtLeast(ranked, 0.7); len(got) != 3 || got[2].Index != 3 {
		t.Fatalf("unexpected prefix %+v", got)
	}
	if got := AtLeast(ranked, 0.95); len(got) != 0 {
		t.Fatalf("expected nothing above 0.95, got %+v", got)
	}
	if got := AtLeast(nil, 0); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestGenerateRejectsNonPositiveTopN(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := newScorer(t).Generate("א", []string{"א"}, n, false); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Fatalf("topN=%d: expected ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestGenerateWithoutDiversity(t *testing.T) {
	in := []string{"קצר", good("א"), "קצר מאוד", good("ב"), good("ג")}
	got, err := newScorer(t).Generate("הילדים", in, 2, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 2 || got[0].Sentence != in[1] || got[1].Sentence != in[3] {
		t.Fatalf("unexpected examples %+v", got)
	}
	for _, ex := range got {
		if ex.Cluster != Unclustered || ex.Lemma != "הילדים" {
			t.Fatalf("unexpected provenance %+v", ex)
		}
	}

	all, err := newScorer(t).Generate("הילדים", in, 50, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(all) != len(in) {
		t.Fatalf("expected every sentence when topN exceeds input, got %d", len(all))
	}
}

type fakeSenses struct {
	clusters sense.Clusters
	labels   []int
	calls    int
}

func (f *fakeSenses) Assign(lemma string, sentences []string, opts sense.Options) (sense.Clusters, []int) {
	f.calls++
	return f.clusters, f.labels
}

// modulo assigns sentence i to cluster i%k.
func modulo(sentences []string, k int) *fakeSenses {
	f := &fakeSenses{clusters: sense.Clusters{}}
	for i, s := range sentences {
		f.clusters[i%k] = append(f.clusters[i%k], s)
		f.labels = append(f.labels, i%k)
	}
	return f
}

func TestGenerateDiversifiesAcrossClusters(t *testing.T) {
	// cluster 0 holds the strong sentences, cluster 1 the weak ones
	in := []string{good("א"), "חלש", good("ב"), "חלש מאוד", good("ג"), "חלש עוד"}
	senses := modulo(in, 2)
	s := newScorer(t, WithDisambiguator(senses, sense.Options{}))

	got, err := s.Generate("הילדים", in, 4, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d examples, want 4", len(got))
	}
	perCluster := map[int]int{}
	for _, ex := range got {
		perCluster[ex.Cluster]++
	}
	if perCluster[0] != 2 || perCluster[1] != 2 {
		t.Fatalf("expected two examples per cluster, got %v", perCluster)
	}
	if got[0].Cluster != 0 || got[2].Cluster != 1 {
		t.Fatalf("clusters should be visited in ascending order: %+v", got)
	}

	plain, err := s.Generate("הילדים", in, 4, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if senses.calls != 1 {
		t.Fatalf("non-diverse generation should not cluster, calls=%d", senses.calls)
	}
	weak := 0
	for _, ex := range plain {
		if !strings.HasSuffix(ex.Sentence, ".") {
			weak++
		}
	}
	if weak != 1 {
		t.Fatalf("plain ranking should include one weak sentence, got %d", weak)
	}
}

func TestGenerateBackfillsUnclustered(t *testing.T) {
	in := []string{good("א"), good("ב"), good("ג"), good("ד"), good("ה"), good("ו")}
	s := newScorer(t, WithDisambiguator(modulo(in, 2), sense.Options{}))

	got, err := s.Generate("הילדים", in, 5, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d examples, want 5", len(got))
	}
	// 5/2 = 2 slots per cluster, the fifth comes from the backfill
	if got[4].Cluster != Unclustered {
		t.Fatalf("last example should be backfilled, got %+v", got[4])
	}
	seen := map[string]bool{}
	for _, ex := range got {
		if seen[ex.Sentence] {
			t.Fatalf("sentence selected twice: %q", ex.Sentence)
		}
		seen[ex.Sentence] = true
	}
}

func TestGenerateMoreClustersThanSlots(t *testing.T) {
	in := []string{good("א"), good("ב"), good("ג")}
	s := newScorer(t, WithDisambiguator(modulo(in, 3), sense.Options{}))

	got, err := s.Generate("הילדים", in, 2, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 2 || got[0].Cluster != 0 || got[1].Cluster != 1 {
		t.Fatalf("unexpected examples %+v", got)
	}
}

func TestGenerateFallbackGrouping(t *testing.T) {
	in := []string{"חלש", good("א"), good("ב")}
	senses := &fakeSenses{clusters: sense.Clusters{0: in[:2]}}
	s := newScorer(t, WithDisambiguator(senses, sense.Options{}))

	got, err := s.Generate("הילדים", in, 3, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d examples, want 3", len(got))
	}
	if got[0].Sentence != in[1] || got[0].Cluster != 0 || got[1].Sentence != in[0] || got[1].Cluster != 0 {
		t.Fatalf("fallback cluster members should come first: %+v", got)
	}
	if got[2].Sentence != in[2] || got[2].Cluster != Unclustered {
		t.Fatalf("remaining sentence should be backfilled: %+v", got[2])
	}
}

func TestGenerateDropsNearDuplicates(t *testing.T) {
	dup := good("א")
	other := "משפט שונה לגמרי עם מילים אחרות שאינן חוזרות בכלל בשום מקום."
	in := []string{dup, dup, other}

	plain, err := newScorer(t).Generate("הילדים", in, 2, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plain[0].Sentence != dup || plain[1].Sentence != dup {
		t.Fatalf("expected duplicates without the filter, got %+v", plain)
	}

	got, err := newScorer(t, WithNearDuplicate(0.99)).Generate("הילדים", in, 2, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 2 || got[0].Sentence != dup || got[1].Sentence != other {
		t.Fatalf("expected duplicate dropped, got %+v", got)
	}
}

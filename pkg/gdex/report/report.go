// Package report turns an engine result into a persisted, shareable
// report.
package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/gdex/pkg/gdex"
)

// TimestampLayout formats report timestamps in file names.
const TimestampLayout = "20060102_150405"

// Builder constructs reports with monotonic ULID identifiers.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewBuilder creates a report builder.
func NewBuilder() *Builder {
	return &Builder{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Report is the serialisable summary of one run.
type Report struct {
	ID               string        `json:"id"`
	Lemma            string        `json:"lemma"`
	CreatedAt        time.Time     `json:"created_at"`
	CorpusSize       int           `json:"corpus_size"`
	MatchingCount    int           `json:"matching_sentences_count"`
	Clusters         []Cluster     `json:"clusters"`
	TopCooccurrences []Collocation `json:"top_cooccurrences"`
	Bigrams          []Bigram      `json:"bigrams,omitempty"`
	Examples         []Example     `json:"examples"`
}

// Cluster summarises one sense cluster.
type Cluster struct {
	ID              int           `json:"id"`
	Size            int           `json:"size"`
	TopCollocations []Collocation `json:"top_collocations"`
}

// Collocation is a word with its count.
type Collocation struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Bigram is an adjacent pair involving the lemma.
type Bigram struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Count int    `json:"count"`
}

// Example is a selected sentence.
type Example struct {
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
	Cluster  int     `json:"sense_cluster"`
	Lemma    string  `json:"lemma"`
}

// Build summarises res. corpusSize overrides res.CorpusSize when positive.
func (b *Builder) Build(res gdex.Result, corpusSize int, now time.Time) Report {
	if corpusSize <= 0 {
		corpusSize = res.CorpusSize
	}
	r := Report{
		ID:               b.newID(now),
		Lemma:            res.Lemma,
		CreatedAt:        now,
		CorpusSize:       corpusSize,
		MatchingCount:    len(res.Matching),
		Clusters:         make([]Cluster, 0, len(res.Senses)),
		TopCooccurrences: make([]Collocation, 0, len(res.Cooccurrences)),
		Examples:         make([]Example, 0, len(res.Examples)),
	}
	for _, s := range res.Senses {
		c := Cluster{ID: s.ID, Size: s.Count, TopCollocations: make([]Collocation, 0, len(s.Collocations))}
		for _, col := range s.Collocations {
			c.TopCollocations = append(c.TopCollocations, Collocation{Word: col.Word, Count: col.Count})
		}
		r.Clusters = append(r.Clusters, c)
	}
	for _, col := range res.Cooccurrences {
		r.TopCooccurrences = append(r.TopCooccurrences, Collocation{Word: col.Word, Count: col.Count})
	}
	for _, bg := range res.Bigrams {
		r.Bigrams = append(r.Bigrams, Bigram{Left: bg.Left, Right: bg.Right, Count: bg.Count})
	}
	for _, ex := range res.Examples {
		r.Examples = append(r.Examples, Example{Sentence: ex.Sentence, Score: ex.Score, Cluster: ex.Cluster, Lemma: ex.Lemma})
	}
	return r
}

func (b *Builder) newID(now time.Time) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
}

// WriteJSON writes r as indented JSON with non-ASCII text left as is.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(rd io.Reader) (Report, error) {
	var r Report
	err := json.NewDecoder(rd).Decode(&r)
	return r, err
}

var rule = strings.Repeat("=", 60)

// WriteText writes a human-readable version of r.
func (r Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	section := func(title string) {
		fmt.Fprintf(&sb, "%s\n%s\n%s\n\n", rule, title, rule)
	}

	fmt.Fprintf(&sb, "%s\nGDEX Results for: %s\nGenerated: %s\n%s\n\n",
		rule, r.Lemma, r.CreatedAt.Format("2006-01-02 15:04:05"), rule)
	fmt.Fprintf(&sb, "Corpus size: %s sentences\n", thousands(r.CorpusSize))
	fmt.Fprintf(&sb, "Matching sentences: %d\n", r.MatchingCount)
	fmt.Fprintf(&sb, "Sense clusters: %d\n\n", len(r.Clusters))

	section("SENSE CLUSTERS")
	for _, c := range r.Clusters {
		fmt.Fprintf(&sb, "Cluster %d: %d sentences\n", c.ID, c.Size)
		parts := make([]string, len(c.TopCollocations))
		for i, col := range c.TopCollocations {
			parts[i] = fmt.Sprintf("%s (%d)", col.Word, col.Count)
		}
		fmt.Fprintf(&sb, "Top collocations: %s\n\n", strings.Join(parts, ", "))
	}

	section("TOP CO-OCCURRING WORDS")
	for _, col := range r.TopCooccurrences {
		fmt.Fprintf(&sb, "  %s: %d\n", col.Word, col.Count)
	}
	sb.WriteString("\n")

	section("TOP EXAMPLES (GDEX)")
	for i, ex := range r.Examples {
		fmt.Fprintf(&sb, "[Example %d] (Score: %.2f, Cluster: %d)\n%s\n\n", i+1, ex.Score, ex.Cluster, ex.Sentence)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FileName returns dir/gdex_results_<lemma>_<timestamp>.<ext>.
func (r Report) FileName(dir, ext string) string {
	lemma := strings.NewReplacer("/", "_", `\`, "_").Replace(r.Lemma)
	name := fmt.Sprintf("gdex_results_%s_%s.%s", lemma, r.CreatedAt.Format(TimestampLayout), strings.TrimPrefix(ext, "."))
	return filepath.Join(dir, name)
}

func thousands(n int) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

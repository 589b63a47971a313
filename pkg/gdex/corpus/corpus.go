// Package corpus loads and cleans the sentence corpora the engine runs on.
package corpus

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLineBytes = 1 << 20

// LoadLines reads one sentence per line. Lines in the numbered
// `N<TAB>"sentence"` form lose the number and the surrounding quotes.
// Blank lines are skipped. maxLines bounds the raw lines read; 0 reads
// everything.
func LoadLines(r io.Reader, maxLines int) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []string
	for read := 0; sc.Scan(); read++ {
		if maxLines > 0 && read >= maxLines {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, sentence, ok := strings.Cut(line, "\t"); ok {
			line = strings.Trim(sentence, `"`)
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Normalize applies NFKC, removes nonspacing marks such as niqqud and
// cantillation, and collapses runs of whitespace.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = norm.NFKC.String(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// Dedupe drops sentences whose normalized text was already seen, keeping
// the first occurrence.
func Dedupe(sentences []string) []string {
	seen := make(map[uint64][]string, len(sentences))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		key := Normalize(s)
		h := xxhash.Sum64String(key)
		dup := false
		for _, prev := range seen[h] {
			if prev == key {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], key)
		out = append(out, s)
	}
	return out
}

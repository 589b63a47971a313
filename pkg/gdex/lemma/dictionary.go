package lemma

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// proclitics are the single-letter Hebrew prefixes: and, the, in, as, to,
// from, that.
const proclitics = "והבכלמש"

// Entry is one dictionary line.
type Entry struct {
	Form  string
	Lemma string
	POS   string
}

// Dictionary is a table-driven lemmatizer. Unknown forms are their own
// lemma.
type Dictionary struct {
	forms map[string]Entry
	strip bool
}

// NewDictionary builds a dictionary from entries. With stripPrefixes set,
// an unknown form loses up to two leading proclitics when the remainder is
// a known form.
func NewDictionary(entries []Entry, stripPrefixes bool) *Dictionary {
	d := &Dictionary{forms: make(map[string]Entry, len(entries)), strip: stripPrefixes}
	for _, e := range entries {
		d.forms[e.Form] = e
	}
	return d
}

// ParseDictionary reads `form|lemma[|pos]` lines. Blank lines and lines
// starting with # are skipped.
func ParseDictionary(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("dictionary line %d: want form|lemma[|pos], got %q", lineNo, line)
		}
		e := Entry{Form: parts[0], Lemma: parts[1]}
		if len(parts) > 2 {
			e.POS = parts[2]
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadDictionary reads a dictionary file.
func LoadDictionary(path string, stripPrefixes bool) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ParseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewDictionary(entries, stripPrefixes), nil
}

// Len returns the number of known forms.
func (d *Dictionary) Len() int { return len(d.forms) }

// Lemmas lemmatizes each whitespace token after trimming surrounding
// punctuation. It never fails.
func (d *Dictionary) Lemmas(sentence string) ([]string, error) {
	fields := strings.Fields(sentence)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Mn, r)
		})
		if tok == "" {
			continue
		}
		out = append(out, d.Lemma(tok))
	}
	return out, nil
}

// Lemma returns the lemma of a single form.
func (d *Dictionary) Lemma(form string) string {
	if e, ok := d.lookup(form); ok {
		return e.Lemma
	}
	return form
}

// POS returns the part of speech recorded for form, if any. Proclitics are
// stripped as in Lemma.
func (d *Dictionary) POS(form string) (string, bool) {
	e, ok := d.lookup(form)
	if !ok || e.POS == "" {
		return "", false
	}
	return e.POS, true
}

func (d *Dictionary) lookup(form string) (Entry, bool) {
	if e, ok := d.forms[form]; ok {
		return e, true
	}
	if !d.strip {
		return Entry{}, false
	}
	rest := form
	for range 2 {
		r, size := utf8.DecodeRuneInString(rest)
		if !strings.ContainsRune(proclitics, r) || size == len(rest) {
			break
		}
		rest = rest[size:]
		if e, ok := d.forms[rest]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

package colloc

// DefaultContentPOS are the parts of speech kept as collocates.
var DefaultContentPOS = []string{"NOUN", "PROPN", "VERB", "ADJ", "ADV"}

// Tagger looks up the part of speech of a surface form.
type Tagger interface {
	POS(form string) (string, bool)
}

// ContentWords rejects words whose known part of speech is not a content
// class. Untagged words pass.
type ContentWords struct {
	tagger  Tagger
	allowed map[string]struct{}
}

// NewContentWords builds the filter. Without allowed tags it keeps
// DefaultContentPOS.
func NewContentWords(t Tagger, allowed ...string) *ContentWords {
	if len(allowed) == 0 {
		allowed = DefaultContentPOS
	}
	set := make(map[string]struct{}, len(allowed))
	for _, pos := range allowed {
		set[pos] = struct{}{}
	}
	return &ContentWords{tagger: t, allowed: set}
}

// IsStop implements StopFilter.
func (c *ContentWords) IsStop(word string) bool {
	pos, ok := c.tagger.POS(word)
	if !ok {
		return false
	}
	_, keep := c.allowed[pos]
	return !keep
}

// AnyStop reports a word as stop when any of its filters does.
type AnyStop []StopFilter

// IsStop implements StopFilter.
func (a AnyStop) IsStop(word string) bool {
	for _, f := range a {
		if f != nil && f.IsStop(word) {
			return true
		}
	}
	return false
}

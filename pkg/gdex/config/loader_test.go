package config

import (
	"path/filepath"
	"testing"
)

func TestBuildWithoutFiles(t *testing.T) {
	comp, err := (&Loader{}).Build(Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if comp.Clusterer == nil || comp.Scorer == nil || comp.Stoplist == nil {
		t.Fatalf("missing components: %+v", comp)
	}
	if comp.Lemmatizer != nil {
		t.Fatalf("lemmatizer should be nil without a dictionary")
	}
	if comp.Clusterer.Seed != 42 || comp.Clusterer.MaxK != 8 {
		t.Fatalf("clusterer not configured: %+v", comp.Clusterer)
	}
	if comp.Filter.DominanceThreshold != 0.5 || comp.Filter.Stoplist == nil {
		t.Fatalf("filter not configured: %+v", comp.Filter)
	}
}

func TestBuildResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stop.yaml", "terms: [של]\n")
	writeFile(t, dir, "lexicon.txt", "ספרים|ספר|NOUN\n")

	cfg := Default()
	cfg.Stoplist = "stop.yaml"
	cfg.Dictionary = "lexicon.txt"
	cfg.StripPrefixes = true

	comp, err := (&Loader{BaseDir: dir}).Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !comp.Stoplist.IsStop("של") {
		t.Fatalf("stoplist not loaded")
	}
	lemmas, err := comp.Lemmatizer.Lemmas("בספרים")
	if err != nil || len(lemmas) != 1 || lemmas[0] != "ספר" {
		t.Fatalf("dictionary not loaded: %v %v", lemmas, err)
	}
}

func TestBuildFiltersFunctionWordsWithDictionary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lexicon.txt", "ספרים|ספר|NOUN\nשל|של|ADP\nקרא|קרא|VERB\n")

	cfg := Default()
	cfg.Dictionary = "lexicon.txt"
	cfg.StripPrefixes = true
	comp, err := (&Loader{BaseDir: dir}).Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for word, want := range map[string]bool{"של": true, "ושל": true, "בספרים": false, "קרא": false, "מחר": false} {
		if got := comp.Filter.Stoplist.IsStop(word); got != want {
			t.Errorf("IsStop(%q) = %v, want %v", word, got, want)
		}
	}
	if comp.Stoplist.IsStop("של") {
		t.Errorf("part-of-speech filter must not leak into the stoplist")
	}
}

func TestBuildMissingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, cfg := range []*Config{
		func() *Config { c := Default(); c.Stoplist = filepath.Join(dir, "none.yaml"); return c }(),
		func() *Config { c := Default(); c.Dictionary = filepath.Join(dir, "none.txt"); return c }(),
	} {
		if _, err := (&Loader{}).Build(cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

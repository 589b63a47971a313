package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls LoadFiles.
type Options struct {
	MaxLines  int       // per line-oriented file, 0 = unlimited
	Format    string    // "lines", "text" or "html"; empty or "auto" goes by extension
	Normalize bool      // apply Normalize to every sentence
	Dedupe    bool      // drop duplicates across all files
	Splitter  *Splitter // nil uses NewSplitter
}

// Glob expands a doublestar pattern such as "corpora/**/*.txt" into the
// sorted list of matching regular files.
func Glob(pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(base, filepath.FromSlash(m))
	}
	sort.Strings(out)
	return out, nil
}

// LoadFiles reads every path and concatenates the sentences in path order.
// Unless opts.Format says otherwise, .html and .htm files are parsed as
// HTML, .txt and .tsv files as one sentence per line, anything else as
// prose.
func LoadFiles(paths []string, opts Options) ([]string, error) {
	sp := opts.Splitter
	if sp == nil {
		sp = NewSplitter()
	}

	var all []string
	for _, path := range paths {
		got, err := loadFile(path, opts.Format, sp, opts.MaxLines)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		all = append(all, got...)
	}
	if opts.Normalize {
		for i := range all {
			all[i] = Normalize(all[i])
		}
	}
	if opts.Dedupe {
		all = Dedupe(all)
	}
	return all, nil
}

func loadFile(path, format string, sp *Splitter, maxLines int) ([]string, error) {
	if format == "" || format == "auto" {
		format = formatOf(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "html":
		return sp.LoadHTML(f)
	case "lines":
		return LoadLines(f, maxLines)
	case "text":
		return sp.SplitText(f)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "html"
	case ".txt", ".tsv":
		return "lines"
	default:
		return "text"
	}
}

package corpus

import (
	"io"
	"os"
	"strings"

	"github.com/neurosnap/sentences"
	"golang.org/x/net/html"
)

// Splitter breaks prose into sentences.
type Splitter struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewSplitter returns a splitter using the default punctuation rules.
func NewSplitter() *Splitter {
	return &Splitter{tok: sentences.NewSentenceTokenizer(sentences.NewStorage())}
}

// LoadSplitter returns a splitter trained with a punkt model file.
func LoadSplitter(path string) (*Splitter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, err
	}
	return &Splitter{tok: sentences.NewSentenceTokenizer(storage)}, nil
}

// Split returns the non-empty sentences of text.
func (s *Splitter) Split(text string) []string {
	var out []string
	for _, sent := range s.tok.Tokenize(text) {
		if t := strings.Join(strings.Fields(sent.Text), " "); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitText reads r as prose and splits it into sentences.
func (s *Splitter) SplitText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.Split(string(data)), nil
}

// LoadHTML extracts the text of every block element outside script and
// style, then splits each block into sentences.
func (s *Splitter) LoadHTML(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []string
	var buf strings.Builder
	flush := func() {
		out = append(out, s.Split(buf.String())...)
		buf.Reset()
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blocks[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()
	return out, nil
}

var blocks = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"article": true, "section": true, "br": true, "pre": true, "dd": true, "dt": true,
}

package sense

import "errors"

var (
	errTooFew    = errors.New("sense: too few sentences to cluster")
	errNoBackend = errors.New("sense: no vectorizer or partitioner configured")
)

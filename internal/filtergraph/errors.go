package filtergraph

import (
	"errors"
	"strings"
)

// ErrInvalidGraph is the sentinel wrapped by InvalidGraphError, for
// errors.Is checks.
var ErrInvalidGraph = errors.New("invalid filter graph")

// InvalidGraphError reports every validation problem found in a graph.
// Validation is exhaustive: a single compile attempt surfaces all violations
// at once instead of failing on the first.
type InvalidGraphError struct {
	Problems []string
}

func (e *InvalidGraphError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ErrInvalidGraph.Error()
	}
	return ErrInvalidGraph.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *InvalidGraphError) Unwrap() error { return ErrInvalidGraph }

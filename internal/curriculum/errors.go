package curriculum

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCycleDetected     = errors.New("cycle detected")
	ErrDanglingReference = errors.New("dangling reference")
	ErrSelfReference     = errors.New("self reference")
	ErrDuplicateSubject  = errors.New("duplicate subject")
	ErrInvalidTerm       = errors.New("invalid term")
	ErrUnknownState      = errors.New("unknown subject state")
	ErrUnknownClass      = errors.New("unknown requirement class")
	ErrUnknownSubject    = errors.New("unknown subject")
)

// Problem is one structural issue found while loading a degree.
type Problem struct {
	Kind   error
	Detail string
}

func (p Problem) Error() string {
	return fmt.Sprintf("%v: %s", p.Kind, p.Detail)
}

func (p Problem) Unwrap() error { return p.Kind }

// GraphError collects every problem found while loading a degree.
type GraphError struct {
	DegreeID string
	Problems []Problem
}

func (e *GraphError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("degree %q graph validation failed:\n  %s", e.DegreeID, strings.Join(msgs, "\n  "))
}

// Unwrap exposes each problem so errors.Is matches any of their kinds.
func (e *GraphError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}

// Has reports whether any problem is of the given kind.
func (e *GraphError) Has(kind error) bool {
	for _, p := range e.Problems {
		if errors.Is(p.Kind, kind) {
			return true
		}
	}
	return false
}

package curriculum

import (
	"fmt"
	"strings"
)

// validateDegree performs all structural checks on a degree.
// Returns a *GraphError describing every problem found, or nil if valid.
func validateDegree(d Degree) error {
	var problems []Problem
	add := func(kind error, format string, args ...any) {
		problems = append(problems, Problem{Kind: kind, Detail: fmt.Sprintf(format, args...)})
	}

	idSet := make(map[string]bool, len(d.Subjects))
	for _, s := range d.Subjects {
		if s.ID == "" {
			add(ErrUnknownSubject, "subject %q has an empty ID", s.Name)
			continue
		}
		if idSet[s.ID] {
			add(ErrDuplicateSubject, "subject ID %q appears more than once", s.ID)
		}
		idSet[s.ID] = true
		if s.Term <= 0 {
			add(ErrInvalidTerm, "subject %q has term %d, must be > 0", s.ID, s.Term)
		}
	}

	// Only well-formed edges take part in cycle detection.
	var usable []Edge
	for i, e := range d.Edges {
		ok := true
		if !e.Class.Valid() {
			add(ErrUnknownClass, "edge %d (%s -> %s) has class %d", i, e.SubjectID, e.PrerequisiteID, int(e.Class))
			ok = false
		}
		if !e.MinState.Valid() {
			add(ErrUnknownState, "edge %d (%s -> %s) has minimum state %d", i, e.SubjectID, e.PrerequisiteID, int(e.MinState))
			ok = false
		}
		if e.SubjectID == e.PrerequisiteID {
			add(ErrSelfReference, "subject %q lists itself as a prerequisite", e.SubjectID)
			continue
		}
		if !idSet[e.SubjectID] {
			add(ErrDanglingReference, "edge %d names nonexistent subject %q", i, e.SubjectID)
			ok = false
		}
		if !idSet[e.PrerequisiteID] {
			add(ErrDanglingReference, "subject %q references nonexistent prerequisite %q", e.SubjectID, e.PrerequisiteID)
			ok = false
		}
		if ok {
			usable = append(usable, e)
		}
	}

	if cycle := findEnrollCycle(d.Subjects, usable); cycle != nil {
		add(ErrCycleDetected, "enrollment prerequisites form a cycle: %s", strings.Join(cycle, " -> "))
	}

	if len(problems) > 0 {
		return &GraphError{DegreeID: d.ID, Problems: problems}
	}
	return nil
}

// findEnrollCycle runs a depth-first search over ToEnroll edges and returns the
// first cycle found as a closed path (first element repeated at the end), or nil.
// Subjects and edges are visited in load order so the reported cycle is stable.
func findEnrollCycle(subjects []Subject, edges []Edge) []string {
	adj := make(map[string][]string)
	for _, e := range edges {
		if e.Class == ClassToEnroll {
			adj[e.SubjectID] = append(adj[e.SubjectID], e.PrerequisiteID)
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(subjects))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch color[next] {
			case grey:
				// Back edge: the cycle is the stack suffix starting at next.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle = append(append([]string{}, stack[i:]...), next)
						return true
					}
				}
			case white:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, s := range subjects {
		if color[s.ID] == white && visit(s.ID) {
			return cycle
		}
	}
	return nil
}

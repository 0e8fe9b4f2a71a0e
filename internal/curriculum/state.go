package curriculum

import (
	"fmt"
	"strings"
)

// State is a student's standing in a subject.
type State int

const (
	StatePending     State = iota // No progress recorded
	StateInProgress                // Enrolled and attending the course
	StateRegularized               // Course requirements passed, final exam pending
	StateApproved                  // Final exam passed
)

var stateNames = [...]string{
	StatePending:     "Pending",
	StateInProgress:  "InProgress",
	StateRegularized: "Regularized",
	StateApproved:    "Approved",
}

// AllStates returns every state in rank order.
func AllStates() []State {
	return []State{StatePending, StateInProgress, StateRegularized, StateApproved}
}

// Valid reports whether s is one of the four defined states.
func (s State) Valid() bool {
	return s >= StatePending && s <= StateApproved
}

// Rank returns the position of s in the total order. Higher ranks subsume lower ones.
func Rank(s State) int {
	return int(s)
}

// Satisfies reports whether a subject recorded at actual meets a requirement of required.
func Satisfies(actual, required State) bool {
	return Rank(actual) >= Rank(required)
}

// Next returns the immediate successor of s in the forward chain.
// Approved has no successor.
func (s State) Next() (State, bool) {
	if !s.Valid() || s == StateApproved {
		return s, false
	}
	return State(Rank(s) + 1), true
}

// Terminal reports whether no further transitions leave s.
func (s State) Terminal() bool {
	_, ok := s.Next()
	return !ok
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Label returns a human-readable label for display.
func (s State) Label() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateInProgress:
		return "In progress"
	case StateRegularized:
		return "Regularized"
	case StateApproved:
		return "Approved"
	default:
		return "Unknown"
	}
}

// ParseState parses a state name. Matching is case-insensitive and ignores
// separators, so "in_progress", "In Progress" and "InProgress" are equivalent.
func ParseState(name string) (State, error) {
	key := normalizeName(name)
	for _, s := range AllStates() {
		if normalizeName(stateNames[s]) == key {
			return s, nil
		}
	}
	return StatePending, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *State) UnmarshalText(b []byte) error {
	parsed, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Class tags a prerequisite edge with what it gates.
type Class int

const (
	ClassToEnroll  Class = iota // Gates enrolling in the dependent subject
	ClassToSitExam              // Gates sitting the dependent subject's final exam
)

// AllClasses returns both requirement classes.
func AllClasses() []Class {
	return []Class{ClassToEnroll, ClassToSitExam}
}

func (c Class) Valid() bool {
	return c == ClassToEnroll || c == ClassToSitExam
}

func (c Class) String() string {
	switch c {
	case ClassToEnroll:
		return "ToEnroll"
	case ClassToSitExam:
		return "ToSitExam"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Label returns a human-readable label for display.
func (c Class) Label() string {
	switch c {
	case ClassToEnroll:
		return "to enroll"
	case ClassToSitExam:
		return "to sit exam"
	default:
		return "unknown"
	}
}

// ParseClass parses a requirement class name.
func ParseClass(name string) (Class, error) {
	for _, c := range AllClasses() {
		if normalizeName(c.String()) == normalizeName(name) {
			return c, nil
		}
	}
	return ClassToEnroll, fmt.Errorf("%w: %q", ErrUnknownClass, name)
}

func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClass, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func normalizeName(s string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

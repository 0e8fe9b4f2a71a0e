// Package transition decides whether a requested change of a subject's state
// is legal and produces the resulting progress record. It never persists.
package transition

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/eligibility"
	"github.com/abhisek/syllabus/internal/progress"
)

// gate names which eligibility check a transition must pass.
type gate int

const (
	gateNone gate = iota
	gateEnroll
	gateExam
)

type rule struct {
	to   curriculum.State
	gate gate
}

// rules is the forward-only state machine, indexed by the current state.
// Approved has no entry and is terminal.
var rules = map[curriculum.State]rule{
	curriculum.StatePending:     {to: curriculum.StateInProgress, gate: gateEnroll},
	curriculum.StateInProgress:  {to: curriculum.StateRegularized, gate: gateNone},
	curriculum.StateRegularized: {to: curriculum.StateApproved, gate: gateExam},
}

// Validator checks requested transitions against an eligibility report.
type Validator struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithIDGenerator sets the generator used for new record IDs.
func WithIDGenerator(gen func() string) Option {
	return func(v *Validator) { v.newID = gen }
}

// NewValidator creates a Validator. By default records are stamped with the
// current UTC time and new records get a random UUID.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Allowed returns the single state reachable from the current one, if any.
func Allowed(from curriculum.State) (curriculum.State, bool) {
	r, ok := rules[from]
	return r.to, ok
}

// RequestTransition validates moving subjectID to target for studentID using
// the student's eligibility report. On success it returns the record to be
// persisted; on rejection it returns an *Error.
func (v *Validator) RequestTransition(studentID, subjectID string, target curriculum.State, report *eligibility.Report) (progress.Record, error) {
	if report == nil {
		return progress.Record{}, fmt.Errorf("%w: student %q subject %q", ErrMissingReport, studentID, subjectID)
	}
	if report.StudentID != "" && report.StudentID != studentID {
		return progress.Record{}, fmt.Errorf("%w: report for %q, request for %q", ErrStudentMismatch, report.StudentID, studentID)
	}

	verdict, err := report.Verdict(subjectID)
	if err != nil {
		return progress.Record{}, err
	}

	reject := func(kind error, unmet []curriculum.Requirement) (progress.Record, error) {
		return progress.Record{}, &Error{
			Kind:      kind,
			StudentID: studentID,
			SubjectID: subjectID,
			From:      verdict.State,
			To:        target,
			Unmet:     slices.Clone(unmet),
		}
	}

	r, ok := rules[verdict.State]
	if !ok {
		return reject(ErrTerminalState, nil)
	}
	if !target.Valid() || target != r.to {
		return reject(ErrIllegalStateJump, nil)
	}

	switch r.gate {
	case gateEnroll:
		if !verdict.CanEnroll {
			return reject(ErrPrerequisitesNotMet, verdict.UnmetEnroll)
		}
	case gateExam:
		if !verdict.CanSitExam {
			return reject(ErrExamPrerequisitesNotMet, verdict.UnmetExam)
		}
	}

	id := verdict.RecordID
	if id == "" {
		id = v.newID()
	}
	return progress.Record{
		ID:        id,
		StudentID: studentID,
		SubjectID: subjectID,
		State:     target,
		Version:   verdict.Version + 1,
		UpdatedAt: v.now(),
	}, nil
}

package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/syllabus/internal/curriculum"
)

var (
	ErrIllegalStateJump        = errors.New("illegal state jump")
	ErrTerminalState           = fmt.Errorf("%w: subject already approved", ErrIllegalStateJump)
	ErrPrerequisitesNotMet     = errors.New("enrollment prerequisites not met")
	ErrExamPrerequisitesNotMet = errors.New("exam prerequisites not met")
	ErrStudentMismatch         = errors.New("eligibility report belongs to another student")
	ErrMissingReport           = errors.New("missing eligibility report")
)

// Error is a rejected transition. Kind is one of the package sentinels;
// Unmet lists the prerequisites that blocked it, if any.
type Error struct {
	Kind      error
	StudentID string
	SubjectID string
	From      curriculum.State
	To        curriculum.State
	Unmet     []curriculum.Requirement
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("student %q subject %q: %s -> %s: %v", e.StudentID, e.SubjectID, e.From, e.To, e.Kind)
	if len(e.Unmet) == 0 {
		return msg
	}
	parts := make([]string, len(e.Unmet))
	for i, r := range e.Unmet {
		parts[i] = fmt.Sprintf("%s at %s", r.SubjectID, r.State)
	}
	return msg + " (requires " + strings.Join(parts, ", ") + ")"
}

func (e *Error) Unwrap() error { return e.Kind }

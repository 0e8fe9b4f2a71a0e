// Package eligibility computes, for one student and one degree, which
// subjects the student may enroll in and which final exams they may sit.
//
// Eligibility of a subject depends only on the recorded states of its direct
// prerequisites, never on whether those prerequisites are themselves eligible,
// so a report is produced in a single pass over subjects and edges.
package eligibility

import (
	"fmt"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/progress"
)

// Verdict is the eligibility of one subject for one student.
type Verdict struct {
	SubjectID string           `json:"subject_id"`
	State     curriculum.State `json:"state"`
	Version   int64            `json:"version"`
	RecordID  string           `json:"record_id,omitempty"`

	// Prerequisite satisfaction per requirement class.
	EnrollPrereqsMet bool                     `json:"enroll_prereqs_met"`
	ExamPrereqsMet   bool                     `json:"exam_prereqs_met"`
	UnmetEnroll      []curriculum.Requirement `json:"unmet_enroll"`
	UnmetExam        []curriculum.Requirement `json:"unmet_exam"`

	// Gates from the subject's own state.
	OwnStateAllowsEnroll bool `json:"own_state_allows_enroll"`
	OwnStateAllowsExam   bool `json:"own_state_allows_exam"`

	CanEnroll  bool `json:"can_enroll"`
	CanSitExam bool `json:"can_sit_exam"`
}

// Report maps every subject of a degree to its verdict.
type Report struct {
	DegreeID  string    `json:"degree_id"`
	StudentID string    `json:"student_id"`
	Verdicts  []Verdict `json:"subjects"`
	index     map[string]int
}

// Resolve evaluates every subject of g against the student's snapshot.
// Verdicts follow the graph's subject order. Resolve does not mutate its
// inputs and is safe to call concurrently.
func Resolve(g *curriculum.Graph, snap progress.Snapshot) *Report {
	subjects := g.Subjects()
	rep := &Report{
		DegreeID:  g.ID(),
		StudentID: snap.StudentID,
		Verdicts:  make([]Verdict, 0, len(subjects)),
		index:     make(map[string]int, len(subjects)),
	}

	for _, s := range subjects {
		v := Verdict{
			SubjectID:   s.ID,
			State:       snap.State(s.ID),
			UnmetEnroll: unmet(g.Prerequisites(s.ID, curriculum.ClassToEnroll), snap),
			UnmetExam:   unmet(g.Prerequisites(s.ID, curriculum.ClassToSitExam), snap),
		}
		if r, ok := snap.Record(s.ID); ok {
			v.Version = r.Version
			v.RecordID = r.ID
		}

		v.EnrollPrereqsMet = len(v.UnmetEnroll) == 0
		v.ExamPrereqsMet = len(v.UnmetExam) == 0
		v.OwnStateAllowsEnroll = !curriculum.Satisfies(v.State, curriculum.StateRegularized)
		v.OwnStateAllowsExam = curriculum.Satisfies(v.State, curriculum.StateRegularized) &&
			!curriculum.Satisfies(v.State, curriculum.StateApproved)
		v.CanEnroll = v.EnrollPrereqsMet && v.OwnStateAllowsEnroll
		v.CanSitExam = v.ExamPrereqsMet && v.OwnStateAllowsExam

		rep.index[s.ID] = len(rep.Verdicts)
		rep.Verdicts = append(rep.Verdicts, v)
	}

	return rep
}

// unmet returns the requirements of edges whose prerequisite has not been
// recorded at the required state. The result is never nil.
func unmet(edges []curriculum.Edge, snap progress.Snapshot) []curriculum.Requirement {
	out := []curriculum.Requirement{}
	for _, e := range edges {
		if !curriculum.Satisfies(snap.State(e.PrerequisiteID), e.MinState) {
			out = append(out, e.Requirement())
		}
	}
	return out
}

// Verdict returns the verdict for a subject.
func (r *Report) Verdict(subjectID string) (Verdict, error) {
	i, ok := r.lookup(subjectID)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %q in degree %q", curriculum.ErrUnknownSubject, subjectID, r.DegreeID)
	}
	return r.Verdicts[i], nil
}

func (r *Report) lookup(subjectID string) (int, bool) {
	if r.index == nil {
		// Reports decoded from JSON have no index.
		for i, v := range r.Verdicts {
			if v.SubjectID == subjectID {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := r.index[subjectID]
	return i, ok
}

// Enrollable returns the IDs of subjects the student can enroll in now.
func (r *Report) Enrollable() []string {
	var out []string
	for _, v := range r.Verdicts {
		if v.CanEnroll {
			out = append(out, v.SubjectID)
		}
	}
	return out
}

// Examinable returns the IDs of subjects whose final exam the student can sit now.
func (r *Report) Examinable() []string {
	var out []string
	for _, v := range r.Verdicts {
		if v.CanSitExam {
			out = append(out, v.SubjectID)
		}
	}
	return out
}

// Summary counts subjects per state.
func (r *Report) Summary() map[curriculum.State]int {
	out := make(map[curriculum.State]int, len(curriculum.AllStates()))
	for _, st := range curriculum.AllStates() {
		out[st] = 0
	}
	for _, v := range r.Verdicts {
		out[v.State]++
	}
	return out
}

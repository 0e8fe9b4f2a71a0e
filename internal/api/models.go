package api

import (
	"strings"
	"time"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/tracker"
)

type StateResponse struct {
	Name  curriculum.State `json:"name"`
	Label string           `json:"label"`
	Rank  int              `json:"rank"`
}

type CreateStudentRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DegreeID string `json:"degree_id"`
}

// Validate trims fields and checks the required ones.
func (r *CreateStudentRequest) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.DegreeID = strings.TrimSpace(r.DegreeID)
	if r.ID == "" || r.DegreeID == "" {
		return badRequest{msg: "id and degree_id are required"}
	}
	return nil
}

type UpdateStatusRequest struct {
	State string `json:"state"`
}

// DegreeResponse is a degree with its subjects in term order.
type DegreeResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Subjects   []curriculum.Subject `json:"subjects"`
	Edges      []curriculum.Edge    `json:"edges"`
	StudyOrder []string             `json:"study_order"`
}

func FromGraph(g *curriculum.Graph) DegreeResponse {
	d := g.Degree()
	edges := d.Edges
	if edges == nil {
		edges = []curriculum.Edge{}
	}
	return DegreeResponse{
		ID:         g.ID(),
		Name:       g.Name(),
		Subjects:   g.Subjects(),
		Edges:      edges,
		StudyOrder: g.TopologicalOrder(),
	}
}

// SubjectStatus is one subject of a student's report.
type SubjectStatus struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Term        int                      `json:"term"`
	State       curriculum.State         `json:"state"`
	Version     int64                    `json:"version"`
	CanEnroll   bool                     `json:"can_enroll"`
	CanSitExam  bool                     `json:"can_sit_exam"`
	UnmetEnroll []curriculum.Requirement `json:"unmet_enroll"`
	UnmetExam   []curriculum.Requirement `json:"unmet_exam"`
}

type ReportResponse struct {
	StudentID string                   `json:"student_id"`
	DegreeID  string                   `json:"degree_id"`
	Subjects  []SubjectStatus          `json:"subjects"`
	Summary   map[curriculum.State]int `json:"summary"`
}

func FromReport(sr *tracker.StudentReport) ReportResponse {
	resp := ReportResponse{
		StudentID: sr.Student.ID,
		DegreeID:  sr.Graph.ID(),
		Subjects:  make([]SubjectStatus, 0, len(sr.Report.Verdicts)),
		Summary:   sr.Report.Summary(),
	}
	for _, v := range sr.Report.Verdicts {
		s, err := sr.Graph.Subject(v.SubjectID)
		if err != nil {
			continue
		}
		resp.Subjects = append(resp.Subjects, SubjectStatus{
			ID:          s.ID,
			Name:        s.Name,
			Term:        s.Term,
			State:       v.State,
			Version:     v.Version,
			CanEnroll:   v.CanEnroll,
			CanSitExam:  v.CanSitExam,
			UnmetEnroll: v.UnmetEnroll,
			UnmetExam:   v.UnmetExam,
		})
	}
	return resp
}

type TransitionResponse struct {
	Sequence  int64            `json:"sequence"`
	SubjectID string           `json:"subject_id"`
	From      curriculum.State `json:"from"`
	To        curriculum.State `json:"to"`
	Version   int64            `json:"version"`
	At        time.Time        `json:"at"`
}

func FromEvent(ev store.TransitionEvent) TransitionResponse {
	return TransitionResponse{
		Sequence:  ev.Sequence,
		SubjectID: ev.SubjectID,
		From:      ev.From,
		To:        ev.To,
		Version:   ev.Version,
		At:        ev.At,
	}
}

package curriculum

// Subject is a course within a degree.
type Subject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Term     int    `json:"term"`
	DegreeID string `json:"-"`
}

// Edge is a directed requirement from a dependent subject to one of its prerequisites.
type Edge struct {
	SubjectID      string `json:"subject"`
	PrerequisiteID string `json:"prerequisite"`
	Class          Class  `json:"class"`
	MinState       State  `json:"min_state"`
}

// Requirement is the prerequisite side of an edge: which subject, at what state.
type Requirement struct {
	SubjectID string `json:"subject_id"`
	State     State  `json:"state"`
}

// Requirement returns the prerequisite subject and minimum state named by the edge.
func (e Edge) Requirement() Requirement {
	return Requirement{SubjectID: e.PrerequisiteID, State: e.MinState}
}

// Degree is a named curriculum: its subjects and their prerequisite edges.
type Degree struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Subjects []Subject `json:"subjects"`
	Edges    []Edge    `json:"edges"`
}

package curriculum

// SampleDegree returns a small systems-engineering curriculum used by
// `syllabus degree seed` and by tests that need a realistic graph.
func SampleDegree() Degree {
	return Degree{
		ID:   "ing-sistemas",
		Name: "Ingeniería en Sistemas",
		Subjects: []Subject{
			{ID: "aga", Name: "Álgebra y Geometría Analítica", Term: 1},
			{ID: "am1", Name: "Análisis Matemático I", Term: 1},
			{ID: "fis1", Name: "Física I", Term: 1},
			{ID: "am2", Name: "Análisis Matemático II", Term: 2},
			{ID: "fis2", Name: "Física II", Term: 2},
			{ID: "an", Name: "Análisis Numérico", Term: 3},
			{ID: "pye", Name: "Probabilidad y Estadística", Term: 3},
		},
		Edges: []Edge{
			{SubjectID: "am2", PrerequisiteID: "am1", Class: ClassToEnroll, MinState: StateRegularized},
			{SubjectID: "am2", PrerequisiteID: "am1", Class: ClassToSitExam, MinState: StateApproved},
			{SubjectID: "fis2", PrerequisiteID: "fis1", Class: ClassToEnroll, MinState: StateRegularized},
			{SubjectID: "fis2", PrerequisiteID: "am1", Class: ClassToEnroll, MinState: StateRegularized},
			{SubjectID: "fis2", PrerequisiteID: "fis1", Class: ClassToSitExam, MinState: StateApproved},
			{SubjectID: "an", PrerequisiteID: "am2", Class: ClassToEnroll, MinState: StateRegularized},
			{SubjectID: "an", PrerequisiteID: "aga", Class: ClassToEnroll, MinState: StateApproved},
			{SubjectID: "an", PrerequisiteID: "am2", Class: ClassToSitExam, MinState: StateApproved},
			{SubjectID: "pye", PrerequisiteID: "am1", Class: ClassToEnroll, MinState: StateApproved},
		},
	}
}

package curriculum

import (
	"fmt"
	"slices"
	"sort"
)

// Graph is an immutable, validated prerequisite graph for one degree.
// It is safe for concurrent use.
type Graph struct {
	id         string
	name       string
	subjects   []Subject
	byID       map[string]int
	prereqs    map[string]*classEdges
	dependents map[string][]string
	byTerm     map[int][]Subject
	terms      []int
	edges      []Edge
	order      []string
}

// classEdges holds a subject's outgoing edges split by requirement class.
type classEdges struct {
	enroll []Edge
	exam   []Edge
}

func (c *classEdges) of(class Class) []Edge {
	if c == nil {
		return nil
	}
	if class == ClassToSitExam {
		return c.exam
	}
	return c.enroll
}

// Load validates a degree and builds its graph. Validation failures are
// returned as a *GraphError listing every problem found.
func Load(d Degree) (*Graph, error) {
	if err := validateDegree(d); err != nil {
		return nil, err
	}

	gr := &Graph{
		id:         d.ID,
		name:       d.Name,
		byID:       make(map[string]int, len(d.Subjects)),
		prereqs:    make(map[string]*classEdges, len(d.Subjects)),
		dependents: make(map[string][]string),
		byTerm:     make(map[int][]Subject),
		edges:      slices.Clone(d.Edges),
	}

	// Stable sort keeps load order within a term.
	gr.subjects = make([]Subject, len(d.Subjects))
	for i, s := range d.Subjects {
		s.DegreeID = d.ID
		gr.subjects[i] = s
	}
	sort.SliceStable(gr.subjects, func(i, j int) bool {
		return gr.subjects[i].Term < gr.subjects[j].Term
	})

	for i, s := range gr.subjects {
		gr.byID[s.ID] = i
		if len(gr.byTerm[s.Term]) == 0 {
			gr.terms = append(gr.terms, s.Term)
		}
		gr.byTerm[s.Term] = append(gr.byTerm[s.Term], s)
	}

	for _, e := range d.Edges {
		ce := gr.prereqs[e.SubjectID]
		if ce == nil {
			ce = &classEdges{}
			gr.prereqs[e.SubjectID] = ce
		}
		if e.Class == ClassToSitExam {
			ce.exam = append(ce.exam, e)
		} else {
			ce.enroll = append(ce.enroll, e)
		}
		if !slices.Contains(gr.dependents[e.PrerequisiteID], e.SubjectID) {
			gr.dependents[e.PrerequisiteID] = append(gr.dependents[e.PrerequisiteID], e.SubjectID)
		}
	}

	gr.buildOrder()
	return gr, nil
}

// buildOrder computes a topological order over ToEnroll edges with Kahn's
// algorithm. Ties go to the subject that comes first in reporting order.
func (g *Graph) buildOrder() {
	inDegree := make([]int, len(g.subjects))
	next := make([][]int, len(g.subjects))
	for _, e := range g.edges {
		if e.Class != ClassToEnroll {
			continue
		}
		from, to := g.byID[e.PrerequisiteID], g.byID[e.SubjectID]
		next[from] = append(next[from], to)
		inDegree[to]++
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	g.order = make([]string, 0, len(g.subjects))
	for len(ready) > 0 {
		slices.Sort(ready)
		i := ready[0]
		ready = ready[1:]
		g.order = append(g.order, g.subjects[i].ID)
		for _, j := range next[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
}

// ID returns the degree ID.
func (g *Graph) ID() string { return g.id }

// Name returns the degree name.
func (g *Graph) Name() string { return g.name }

// Degree returns a copy of the degree the graph was loaded from, with subjects
// in reporting order.
func (g *Graph) Degree() Degree {
	return Degree{
		ID:       g.id,
		Name:     g.name,
		Subjects: g.Subjects(),
		Edges:    slices.Clone(g.edges),
	}
}

// Subjects returns all subjects ordered by term, then by load order within a term.
func (g *Graph) Subjects() []Subject {
	return slices.Clone(g.subjects)
}

// Len returns the number of subjects.
func (g *Graph) Len() int { return len(g.subjects) }

// Has reports whether the degree contains the subject.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Subject returns a subject by ID.
func (g *Graph) Subject(id string) (Subject, error) {
	i, ok := g.byID[id]
	if !ok {
		return Subject{}, fmt.Errorf("%w: %q in degree %q", ErrUnknownSubject, id, g.id)
	}
	return g.subjects[i], nil
}

// Prerequisites returns the edges of the given class leaving the subject, in
// load order. Unknown subjects have no prerequisites.
func (g *Graph) Prerequisites(id string, class Class) []Edge {
	return slices.Clone(g.prereqs[id].of(class))
}

// Dependents returns IDs of subjects with at least one edge pointing at id.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// Terms returns the distinct term numbers in ascending order.
func (g *Graph) Terms() []int {
	return slices.Clone(g.terms)
}

// ByTerm returns the subjects of one term in load order.
func (g *Graph) ByTerm(term int) []Subject {
	return slices.Clone(g.byTerm[term])
}

// TopologicalOrder returns subject IDs so that every subject comes after all
// of its enrollment prerequisites.
func (g *Graph) TopologicalOrder() []string {
	return slices.Clone(g.order)
}

// Roots returns the subjects with no enrollment prerequisites.
func (g *Graph) Roots() []Subject {
	var out []Subject
	for _, s := range g.subjects {
		if len(g.prereqs[s.ID].of(ClassToEnroll)) == 0 {
			out = append(out, s)
		}
	}
	return out
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/eligibility"
	"github.com/abhisek/syllabus/internal/ui/theme"
)

// ReportView renders a student's subjects grouped by term with their state
// and what they may do next.
type ReportView struct {
	Graph  *curriculum.Graph
	Report *eligibility.Report
	Title  string
	Width  int
}

// View renders the report.
func (v ReportView) View(styles theme.Styles) string {
	var b strings.Builder

	if v.Title != "" {
		b.WriteString(styles.Title.Render(v.Title))
		b.WriteString("\n\n")
	}

	idWidth, nameWidth := 0, 0
	for _, s := range v.Graph.Subjects() {
		idWidth = max(idWidth, lipgloss.Width(s.ID))
		nameWidth = max(nameWidth, lipgloss.Width(s.Name))
	}
	stateWidth := 0
	for _, st := range curriculum.AllStates() {
		stateWidth = max(stateWidth, lipgloss.Width(st.Label()))
	}

	for _, term := range v.Graph.Terms() {
		b.WriteString(styles.Heading.Render(fmt.Sprintf("Term %d", term)))
		b.WriteString("\n")
		for _, s := range v.Graph.ByTerm(term) {
			verdict, err := v.Report.Verdict(s.ID)
			if err != nil {
				continue
			}
			b.WriteString("  ")
			b.WriteString(styles.Body.Render(pad(s.ID, idWidth)))
			b.WriteString("  ")
			b.WriteString(styles.Body.Render(pad(s.Name, nameWidth)))
			b.WriteString("  ")
			b.WriteString(styles.State(verdict.State))
			b.WriteString(strings.Repeat(" ", stateWidth-lipgloss.Width(verdict.State.Label())))
			b.WriteString("  ")
			b.WriteString(NextStep(verdict, styles))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	summary := v.Report.Summary()
	bar := ProgressBar{
		Label: "Approved",
		Done:  summary[curriculum.StateApproved],
		Total: len(v.Report.Verdicts),
		Width: max(v.Width, 40),
	}
	b.WriteString(bar.View(styles))
	return b.String()
}

// NextStep describes what a student may do with a subject, or what blocks it.
func NextStep(v eligibility.Verdict, styles theme.Styles) string {
	switch {
	case v.State == curriculum.StateApproved:
		return styles.Yes.Render("done")
	case v.State == curriculum.StateInProgress:
		return styles.Hint.Render("attending")
	case v.CanEnroll:
		return styles.Yes.Render("can enroll")
	case v.CanSitExam:
		return styles.Yes.Render("can sit exam")
	case v.OwnStateAllowsEnroll:
		return styles.No.Render("needs " + Requirements(v.UnmetEnroll))
	default:
		return styles.No.Render("exam needs " + Requirements(v.UnmetExam))
	}
}

// Requirements formats requirements as "am1 (Regularized), aga (Approved)".
func Requirements(reqs []curriculum.Requirement) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = fmt.Sprintf("%s (%s)", r.SubjectID, r.State.Label())
	}
	return strings.Join(parts, ", ")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/eligibility"
	"github.com/abhisek/syllabus/internal/progress"
	"github.com/abhisek/syllabus/internal/ui/theme"
)

func TestProgressBar_Percent(t *testing.T) {
	assert.Equal(t, 0.0, ProgressBar{Done: 3, Total: 0}.Percent())
	assert.Equal(t, 0.5, ProgressBar{Done: 2, Total: 4}.Percent())
	assert.Equal(t, 1.0, ProgressBar{Done: 9, Total: 4}.Percent())
}

func TestProgressBar_View(t *testing.T) {
	out := ProgressBar{Label: "Approved", Done: 1, Total: 4, Width: 40}.View(theme.New(false))
	assert.True(t, strings.HasPrefix(out, "Approved  "))
	assert.Contains(t, out, "1/4  25%")
}

func TestReportView_Plain(t *testing.T) {
	g, err := curriculum.Load(curriculum.SampleDegree())
	require.NoError(t, err)
	snap, err := progress.FromStates("s1", map[string]curriculum.State{
		"am1": curriculum.StateRegularized,
		"aga": curriculum.StateApproved,
	})
	require.NoError(t, err)
	rep := eligibility.Resolve(g, snap)

	out := ReportView{Graph: g, Report: rep, Title: "Ada", Width: 60}.View(theme.New(false))
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Ada", lines[0])
	assert.Contains(t, out, "Term 1")
	assert.Contains(t, out, "Term 3")

	line := func(id string) string {
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), id+" ") {
				return l
			}
		}
		t.Fatalf("no line for %s in:\n%s", id, out)
		return ""
	}
	assert.Contains(t, line("aga"), "done")
	assert.Contains(t, line("am1"), "can sit exam")
	assert.Contains(t, line("am2"), "can enroll")
	assert.Contains(t, line("pye"), "needs am1 (Approved)")
	assert.Contains(t, out, "1/7")
}

func TestRequirements(t *testing.T) {
	got := Requirements([]curriculum.Requirement{
		{SubjectID: "am1", State: curriculum.StateRegularized},
		{SubjectID: "aga", State: curriculum.StateApproved},
	})
	assert.Equal(t, "am1 (Regularized), aga (Approved)", got)
}

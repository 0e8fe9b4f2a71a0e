package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllabus/internal/ui/theme"
)

// ProgressBar displays a horizontal completion bar, e.g. approved subjects
// out of the degree total.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// Percent returns Done/Total clamped to [0, 1]. An empty degree is 0%.
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	pct := float64(p.Done) / float64(p.Total)
	return min(max(pct, 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View(styles theme.Styles) string {
	var result string

	if p.Label != "" {
		result += styles.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	counterWidth := len(fmt.Sprintf("  %d/%d %3d%%", p.Done, p.Total, 100))

	barWidth := p.Width - labelWidth - counterWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	result += styles.Filled.Render(strings.Repeat("█", filled))
	result += styles.Empty.Render(strings.Repeat("░", empty))
	result += styles.Hint.Render(fmt.Sprintf("  %d/%d %3d%%", p.Done, p.Total, int(p.Percent()*100)))

	return result
}

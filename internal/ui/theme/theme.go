package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllabus/internal/curriculum"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Styles is the set of styles used by terminal output. The zero value
// renders plain text.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
	Yes      lipgloss.Style
	No       lipgloss.Style
	Filled   lipgloss.Style
	Empty    lipgloss.Style
	states   map[curriculum.State]lipgloss.Style
	colorful bool
}

// New returns the colored styles, or plain ones when color is false.
func New(color bool) Styles {
	if !color {
		return Styles{}
	}
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary),

		Body: lipgloss.NewStyle().
			Foreground(Text),

		Hint: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true),

		Yes: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		No: lipgloss.NewStyle().
			Foreground(Error),

		Filled: lipgloss.NewStyle().Foreground(Secondary),
		Empty:  lipgloss.NewStyle().Foreground(Border),

		states: map[curriculum.State]lipgloss.Style{
			curriculum.StatePending:     lipgloss.NewStyle().Foreground(TextDim),
			curriculum.StateInProgress:  lipgloss.NewStyle().Foreground(Accent),
			curriculum.StateRegularized: lipgloss.NewStyle().Foreground(Secondary),
			curriculum.StateApproved:    lipgloss.NewStyle().Foreground(Success).Bold(true),
		},
		colorful: true,
	}
}

// Colorful reports whether the styles emit color.
func (s Styles) Colorful() bool { return s.colorful }

// State renders a state label in its color.
func (s Styles) State(st curriculum.State) string {
	style, ok := s.states[st]
	if !ok {
		return st.Label()
	}
	return style.Render(st.Label())
}

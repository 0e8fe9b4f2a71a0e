package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/spf13/cobra"
)

var degreeCmd = &cobra.Command{
	Use:   "degree",
	Short: "Manage degrees and their prerequisite graphs",
}

var degreeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored degrees",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		degrees, err := rt.tracker.Degrees(cmd.Context())
		if err != nil {
			return err
		}
		if len(degrees) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No degrees. Import one with `syllabus degree import FILE` or `syllabus degree seed`.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-40s  %8s\n", "ID", "Name", "Subjects")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, d := range degrees {
			fmt.Fprintf(out, "%-20s  %-40s  %8d\n", d.ID, truncate(d.Name, 40), d.Subjects)
		}
		fmt.Fprintf(out, "\n%d degrees\n", len(degrees))
		return nil
	},
}

var degreeShowCmd = &cobra.Command{
	Use:   "show DEGREE",
	Short: "Show a degree's subjects by term with their prerequisites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		g, err := rt.tracker.Graph(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), describeGraph(g, rt))
		return nil
	},
}

var degreeImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a degree from a JSON curriculum file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := curriculum.LoadFile(args[0])
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.tracker.ImportDegree(cmd.Context(), g.Degree()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s): %d subjects in %d terms\n",
			g.ID(), g.Name(), g.Len(), len(g.Terms()))
		return nil
	},
}

var degreeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the built-in sample degree",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		d, err := rt.tracker.SeedSample(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (%s)\n", d.ID, d.Name)
		return nil
	},
}

func init() {
	degreeCmd.AddCommand(degreeListCmd)
	degreeCmd.AddCommand(degreeShowCmd)
	degreeCmd.AddCommand(degreeImportCmd)
	degreeCmd.AddCommand(degreeSeedCmd)
}

func describeGraph(g *curriculum.Graph, rt *runtime) string {
	var b strings.Builder
	b.WriteString(rt.styles.Title.Render(fmt.Sprintf("%s (%s)", g.Name(), g.ID())))
	b.WriteString("\n\n")

	for _, term := range g.Terms() {
		b.WriteString(rt.styles.Heading.Render(fmt.Sprintf("Term %d", term)))
		b.WriteString("\n")
		for _, s := range g.ByTerm(term) {
			fmt.Fprintf(&b, "  %-10s %s\n", s.ID, s.Name)
			for _, class := range curriculum.AllClasses() {
				edges := g.Prerequisites(s.ID, class)
				if len(edges) == 0 {
					continue
				}
				parts := make([]string, len(edges))
				for i, e := range edges {
					parts[i] = fmt.Sprintf("%s (%s)", e.PrerequisiteID, e.MinState.Label())
				}
				b.WriteString(rt.styles.Hint.Render(fmt.Sprintf("    %s: %s", class.Label(), strings.Join(parts, ", "))))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(rt.styles.Heading.Render("Study order"))
	b.WriteString("\n  ")
	b.WriteString(strings.Join(g.TopologicalOrder(), " → "))
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

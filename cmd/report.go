package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/syllabus/internal/ui/components"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show which subjects a student may enroll in or sit the exam for",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		asJSON, _ := cmd.Flags().GetBool("json")
		if studentID == "" {
			return fmt.Errorf("--student is required")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sr, err := rt.tracker.Report(cmd.Context(), studentID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sr.Report)
		}

		title := sr.Student.ID
		if sr.Student.Name != "" {
			title = sr.Student.Name + " (" + sr.Student.ID + ")"
		}
		view := components.ReportView{
			Graph:  sr.Graph,
			Report: sr.Report,
			Title:  title + " · " + sr.Graph.Name(),
			Width:  72,
		}
		fmt.Fprintln(out, view.View(rt.styles))
		return nil
	},
}

func init() {
	reportCmd.Flags().String("student", "", "Student ID")
	reportCmd.Flags().Bool("json", false, "Print the eligibility report as JSON")
}

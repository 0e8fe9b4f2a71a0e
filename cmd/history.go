package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a student's accepted state transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		limit, _ := cmd.Flags().GetInt("limit")
		if studentID == "" {
			return fmt.Errorf("--student is required")
		}
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.tracker.History(cmd.Context(), studentID, limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No transitions recorded.")
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(out, "%5d  %s  %-10s %s → %s\n",
				ev.Sequence, ev.At.Local().Format(time.DateTime), ev.SubjectID,
				rt.styles.State(ev.From), rt.styles.State(ev.To))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("student", "", "Student ID")
	historyCmd.Flags().Int("limit", 0, "Show only the most recent transitions (0 for all)")
}

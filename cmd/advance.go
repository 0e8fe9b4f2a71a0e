package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/transition"
	"github.com/abhisek/syllabus/internal/ui/components"
	"github.com/spf13/cobra"
)

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Move a subject to its next state",
	Long: "Move a subject one step along Pending → InProgress → Regularized → Approved.\n" +
		"Without --to the next state in the chain is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		subjectID, _ := cmd.Flags().GetString("subject")
		to, _ := cmd.Flags().GetString("to")
		if studentID == "" || subjectID == "" {
			return fmt.Errorf("--student and --subject are required")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		var target curriculum.State
		if to != "" {
			if target, err = curriculum.ParseState(to); err != nil {
				return err
			}
		} else {
			sr, err := rt.tracker.Report(cmd.Context(), studentID)
			if err != nil {
				return err
			}
			v, err := sr.Report.Verdict(subjectID)
			if err != nil {
				return err
			}
			next, ok := transition.Allowed(v.State)
			if !ok {
				return fmt.Errorf("%s is already %s", subjectID, v.State.Label())
			}
			target = next
		}

		rec, err := rt.tracker.Advance(cmd.Context(), studentID, subjectID, target)
		if err != nil {
			var terr *transition.Error
			if errors.As(err, &terr) && len(terr.Unmet) > 0 {
				return fmt.Errorf("%s cannot move to %s: requires %s",
					subjectID, target.Label(), components.Requirements(terr.Unmet))
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (version %d)\n", rec.SubjectID, rt.styles.State(rec.State), rec.Version)
		return nil
	},
}

func init() {
	advanceCmd.Flags().String("student", "", "Student ID")
	advanceCmd.Flags().String("subject", "", "Subject ID")
	advanceCmd.Flags().String("to", "", "Target state (Pending, InProgress, Regularized, Approved)")
}

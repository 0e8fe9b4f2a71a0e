package cmd

import (
	"fmt"

	"github.com/abhisek/syllabus/internal/store"
	"github.com/spf13/cobra"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

var studentAddCmd = &cobra.Command{
	Use:   "add ID",
	Short: "Register a student in a degree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		degreeID, _ := cmd.Flags().GetString("degree")
		name, _ := cmd.Flags().GetString("name")
		if degreeID == "" {
			return fmt.Errorf("--degree is required")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.tracker.AddStudent(cmd.Context(), store.Student{ID: args[0], Name: name, DegreeID: degreeID})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added student %s to %s\n", st.ID, st.DegreeID)
		return nil
	},
}

func init() {
	studentAddCmd.Flags().String("degree", "", "Degree ID the student is enrolled in")
	studentAddCmd.Flags().String("name", "", "Display name")

	studentCmd.AddCommand(studentAddCmd)
}

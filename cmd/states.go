package cmd

import (
	"fmt"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/ui/theme"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List subject states in order",
	Run: func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		styles := theme.New(!noColor)
		for _, s := range curriculum.AllStates() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %-12s %s\n", curriculum.Rank(s), s, styles.State(s))
		}
	},
}

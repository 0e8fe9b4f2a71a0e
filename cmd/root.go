package cmd

import (
	"github.com/abhisek/syllabus/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Track degree progress and subject eligibility",
	Long: "Syllabus — keeps a degree's prerequisite graph and each student's subject states,\n" +
		"and answers which subjects a student may enroll in or sit the final exam for.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SYLLABUS_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides SYLLABUS_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides SYLLABUS_LOG_FORMAT)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(degreeCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SYLLABUS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, fromEnv string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if fromEnv != "" {
		return fromEnv, store.EnsureDir(fromEnv)
	}
	return store.DefaultDBPath()
}

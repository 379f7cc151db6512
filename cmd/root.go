package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathtrail",
	Short: "AI math word-problem practice server",
	Long:  "MathTrail — a web app that generates primary-school math word problems with an AI model and tracks practice history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().String("port", "", "HTTP port (overrides PORT env var)")
	rootCmd.Flags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")

	rootCmd.AddCommand(versionCmd)
}

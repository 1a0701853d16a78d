package cmd

import (
	"github.com/abhisek/dyscreen/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dyscreen",
	Short: "Dyslexia screening for young readers",
	Long:  "dyscreen: a terminal app that runs listening, seeing and word screening tests for children and reports risk levels.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database file, or DSN for postgres (overrides DYSCREEN_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides DYSCREEN_API_URL env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(minigameCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database location using --db flag (highest
// priority), then DYSCREEN_DB env var, then the default XDG path. Postgres
// takes the value as a DSN and needs no directory.
func resolveDBPath(cmd *cobra.Command, driver, fromEnv string) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = fromEnv
	}
	if driver == store.DriverPostgres {
		return p, nil
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/app"
	"github.com/abhisek/dyscreen/internal/catalog"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, start catalog.TestType) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.loggedIn() && e.tracker.SessionID() != "" {
		// Best effort: progress from other devices shows up on the home screen.
		if _, _, err := e.coordinator().Syncer().Sync(cmd.Context()); err != nil {
			e.log.Warn("startup sync failed", "error", err)
		}
	}

	return app.Run(e.deps(), start)
}

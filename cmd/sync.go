package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull test progress from the backend session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireLogin(); err != nil {
			return err
		}

		sess, ok, err := e.coordinator().Syncer().Sync(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No session yet. Start one with `dyscreen session start`.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced session %s (total score %d).\n", sess.ID, sess.TotalScore)
		printProgress(cmd, e.tracker.Snapshot())
		return nil
	},
}

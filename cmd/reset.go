package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/catalog"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local test progress",
	Long:  "Forget local progress, stored answers and results. The backend session is left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		if err := e.tracker.Reset(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		for _, t := range catalog.AllTests() {
			if err := e.store.Answers().Clear(ctx, t); err != nil {
				return err
			}
		}
		if err := e.store.Results().Clear(ctx); err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("logout"); all {
			if err := e.creds.Clear(ctx); err != nil {
				return err
			}
		}
		e.log.Info("local progress reset")
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("logout", false, "Also forget stored credentials")
}

package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show which tests are done",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		printProgress(cmd, e.tracker.Snapshot())
		if next, ok := e.tracker.NextIncomplete(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Next test: %s (%s)\n", next.DisplayName(), next)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "All tests are done.")
		}
		return nil
	},
}

func printProgress(cmd *cobra.Command, state progress.State) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TEST", "DONE", "SCORE", "RATING", "COMPLETED AT")
	for _, tt := range catalog.AllTests() {
		ts := state.Tests[tt]
		done, score, rating, at := "no", "-", "-", "-"
		if ts.Completed {
			done = "yes"
			score = strconv.Itoa(ts.Score)
			rating = strconv.Itoa(ts.DifficultyRating)
			if !ts.CompletedAt.IsZero() {
				at = ts.CompletedAt.Local().Format("2006-01-02 15:04")
			}
		}
		t.Row(tt.DisplayName(), done, score, rating, at)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())

	session := state.CurrentSessionID
	if session == "" {
		session = "none"
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Session:", session)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/catalog"
)

var playCmd = &cobra.Command{
	Use:       "play [auditory|visual|language]",
	Short:     "Start a screening test",
	Long:      "Start a screening test in the terminal UI. Without an argument the next unfinished test is opened.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(catalog.Auditory), string(catalog.Visual), string(catalog.Language)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, nextTest(cmd))
		}
		t, err := catalog.ParseTestType(args[0])
		if err != nil {
			return err
		}
		return runApp(cmd, t)
	},
}

// nextTest peeks at local progress; an empty result opens the home screen.
func nextTest(cmd *cobra.Command) catalog.TestType {
	e, err := openEnv(cmd)
	if err != nil {
		return ""
	}
	defer e.Close()
	next, ok := e.tracker.NextIncomplete()
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "All tests are done. Opening the home screen.")
		return ""
	}
	return next
}

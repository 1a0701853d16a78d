package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/api"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage screening sessions",
}

// withProfile is withLogin that also needs a selected profile.
func withProfile(cmd *cobra.Command, fn func(e *env) error) error {
	return withLogin(cmd, func(e *env) error {
		if e.creds.Current().ProfileToken == "" {
			return fmt.Errorf("no profile selected; run `dyscreen profile select <id>` first")
		}
		return fn(e)
	})
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new screening session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfile(cmd, func(e *env) error {
			s, err := e.coordinator().Syncer().Start(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started session %s.\n", s.ID)
			return nil
		})
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions of the selected profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfile(cmd, func(e *env) error {
			sessions, err := e.client.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet.")
				return nil
			}
			current := e.tracker.SessionID()
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("", "ID", "CREATED", "TESTS", "SCORE", "RESULT")
			for _, s := range sessions {
				mark := ""
				if s.ID == current {
					mark = "*"
				}
				t.Row(mark, s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"),
					takenSummary(s), fmt.Sprint(s.TotalScore), s.Result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfile(cmd, func(e *env) error {
			id := e.tracker.SessionID()
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				return fmt.Errorf("no current session; run `dyscreen session start`")
			}
			s, err := e.client.Session(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Session:", s.ID)
			fmt.Fprintln(out, "Created:", s.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintln(out, "Tests:  ", takenSummary(s))
			fmt.Fprintln(out, "Score:  ", s.TotalScore)
			if s.Result != "" {
				fmt.Fprintln(out, "Result: ", s.Result)
			}
			return nil
		})
	},
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd, sessionListCmd, sessionShowCmd)
}

func takenSummary(s api.Session) string {
	mark := func(b bool) string {
		if b {
			return "✓"
		}
		return "·"
	}
	return fmt.Sprintf("A%s V%s L%s", mark(s.AuditoryTaken), mark(s.VisualTaken), mark(s.LanguageTaken))
}

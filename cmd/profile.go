package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/auth"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage child profiles",
}

// withLogin opens the environment and fails unless logged in.
func withLogin(cmd *cobra.Command, fn func(e *env) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}
	return fn(e)
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles on the account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLogin(cmd, func(e *env) error {
			profiles, err := e.client.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles yet. Create one with `dyscreen profile create`.")
				return nil
			}
			selected := e.creds.Current().ProfileID
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("", "ID", "NAME", "AGE")
			for _, p := range profiles {
				mark := ""
				if p.ID == selected {
					mark = "*"
				}
				t.Row(mark, p.ID, p.Name, fmt.Sprint(p.Age))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		})
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a child profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := profileInput(cmd)
		if err != nil {
			return err
		}
		return withLogin(cmd, func(e *env) error {
			p, err := e.client.CreateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s).\n", p.Name, p.ID)
			return nil
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a profile's name or age",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := profileInput(cmd)
		if err != nil {
			return err
		}
		return withLogin(cmd, func(e *env) error {
			p, err := e.client.UpdateProfile(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %s.\n", p.Name)
			return nil
		})
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLogin(cmd, func(e *env) error {
			ctx := cmd.Context()
			if err := e.client.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			// Deleting the active profile drops its token and session.
			if e.creds.Current().ProfileID == args[0] {
				token := e.creds.Current().AccessToken
				if err := auth.Teardown(ctx, e.creds, e.tracker); err != nil {
					return err
				}
				if err := e.creds.SetAccessToken(ctx, token); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile deleted.")
			return nil
		})
	},
}

var profileSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Screen as this profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLogin(cmd, func(e *env) error {
			ctx := cmd.Context()
			token, err := e.client.SelectProfile(ctx, args[0])
			if err != nil {
				return err
			}
			// Progress belongs to the previous profile's session.
			if prev := e.creds.Current().ProfileID; prev != "" && prev != args[0] {
				if err := e.tracker.Reset(ctx); err != nil {
					return err
				}
			}
			if err := e.creds.SetProfile(ctx, args[0], token); err != nil {
				return err
			}
			e.log.Info("profile selected", "profile", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "Profile selected. Start a screening with `dyscreen session start`.")
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().String("name", "", "Child's name")
		c.Flags().Int("age", 0, "Child's age")
	}
	profileCmd.AddCommand(profileListCmd, profileCreateCmd, profileUpdateCmd, profileDeleteCmd, profileSelectCmd)
}

func profileInput(cmd *cobra.Command) (api.ProfileInput, error) {
	var in api.ProfileInput
	in.Name, _ = cmd.Flags().GetString("name")
	in.Age, _ = cmd.Flags().GetInt("age")
	if in.Name == "" {
		return in, fmt.Errorf("--name is required")
	}
	if in.Age <= 0 {
		return in, fmt.Errorf("--age must be positive")
	}
	return in, nil
}

package cli

import (
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	var (
		displayName string
		handle      string
	)

	cmd := &cobra.Command{
		Use:   "player <player_id>",
		Short: "Register a player profile, creating it on first contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"player_id":    args[0],
				"display_name": displayName,
				"handle":       handle,
			}

			var result Player
			if err := client.Post("/api/players", body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name for a new profile")
	cmd.Flags().StringVar(&handle, "handle", "", "Handle for a new profile")

	return cmd
}

package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <player_id>",
		Short: "Show aggregate stats for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerStats
			if err := client.Get("/api/stats/"+args[0], &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var (
		limit    int
		playerID string
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if limit > 0 {
				query.Set("limit", fmt.Sprintf("%d", limit))
			}
			if playerID != "" {
				query.Set("player_id", playerID)
			}
			path := "/api/leaderboard"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries to show")
	cmd.Flags().StringVar(&playerID, "player", "", "Also show this player's rank")

	return cmd
}

func newGlobalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global",
		Short: "Show global stats across all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GlobalStats
			if err := client.Get("/api/stats/global", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

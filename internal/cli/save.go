package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	var (
		stateFile string
		earned    float64
		rep       float64
		minutes   float64
	)

	cmd := &cobra.Command{
		Use:   "save <player_id>",
		Short: "Save game state for a player",
		Long: `Save game state for a player.

The game state blob is read from the file given with --state-file,
or from stdin when the flag is "-" or omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if stateFile == "" || stateFile == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(stateFile)
			}
			if err != nil {
				return fmt.Errorf("failed to read game state: %w", err)
			}
			if !json.Valid(raw) {
				return fmt.Errorf("game state must be valid JSON")
			}

			body := map[string]any{
				"player_id":  args[0],
				"game_state": json.RawMessage(raw),
			}

			stats := map[string]float64{}
			if cmd.Flags().Changed("earned") {
				stats["total_earned"] = earned
			}
			if cmd.Flags().Changed("reputation") {
				stats["reputation"] = rep
			}
			if cmd.Flags().Changed("minutes") {
				stats["play_time_minutes"] = minutes
			}
			if len(stats) > 0 {
				body["stats"] = stats
			}

			var result SaveResult
			if err := client.Post("/api/save", body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stateFile, "state-file", "f", "", "File holding the game state JSON (- for stdin)")
	cmd.Flags().Float64Var(&earned, "earned", 0, "Replace total earned")
	cmd.Flags().Float64Var(&rep, "reputation", 0, "Replace reputation")
	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Replace play time minutes")

	return cmd
}

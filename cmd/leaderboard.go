package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "List learners by credits",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		backend, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		entries, err := backend.GameStateRepo().Leaderboard(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read leaderboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No learners with credits yet.")
			return nil
		}
		for i, e := range entries {
			fmt.Fprintf(out, "%2d. %-20s %6d\n", i+1, e.Identity, e.Credits)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Int("limit", 10, "number of learners to show")
}

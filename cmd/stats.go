package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/interests"
)

var statsCmd = &cobra.Command{
	Use:   "stats <name>",
	Short: "Show a learner's credits and track progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		manager, err := newManager(cfg, backend, nil)
		if err != nil {
			return fmt.Errorf("create engine manager: %w", err)
		}
		defer manager.Close()

		engine, err := manager.Open(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("open learner %q: %w", args[0], err)
		}

		snap := engine.Snapshot()
		catalog := interests.DefaultCatalog()
		out := cmd.OutOrStdout()
		now := time.Now()

		fmt.Fprintf(out, "Learner:  %s\n", snap.Identity)
		fmt.Fprintf(out, "Credits:  %d\n", snap.Credits)
		if len(snap.Interests) == 0 {
			fmt.Fprintln(out, "No interests selected yet.")
			return nil
		}

		fmt.Fprintln(out, "Tracks:")
		for _, k := range snap.Interests {
			r, _ := snap.Record(k)
			total := catalog.TotalStages(k)
			cleared := min(r.CompletedStages(), total)
			line := fmt.Sprintf("  %-16s %d/%d stages  %d hearts", k.DisplayName(), cleared, total, r.Hearts)
			if r.Complete(total) {
				line += "  done"
			} else if wait := r.NextHeartIn(now); wait > 0 {
				line += fmt.Sprintf("  next heart in %s", wait.Round(time.Second))
			}
			fmt.Fprintln(out, line)
		}
		if snap.AllInterestsComplete {
			fmt.Fprintln(out, "All quests complete.")
		}
		return nil
	},
}

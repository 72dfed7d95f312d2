package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Reset a learner's credits and track progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("refusing to reset without --yes")
		}

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

		if err := resetLearner(cmd.Context(), manager, args[0]); err != nil {
			return err
		}

		logger.Info("learner reset", zap.String("identity", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", args[0])
		return nil
	},
}

// resetLearner resets identity and waits until the reset is stored.
func resetLearner(ctx context.Context, manager *progress.Manager, identity string) error {
	engine, err := manager.Open(ctx, identity)
	if err != nil {
		return fmt.Errorf("open learner %q: %w", identity, err)
	}
	if err := engine.ResetGame(); err != nil {
		return fmt.Errorf("reset learner %q: %w", identity, err)
	}
	if err := engine.Flush(ctx); err != nil {
		return fmt.Errorf("save reset of %q: %w", identity, err)
	}
	return nil
}

func init() {
	resetCmd.Flags().Bool("yes", false, "confirm the reset")
}

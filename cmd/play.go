package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/app"
	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/rewards"
)

var playCmd = &cobra.Command{
	Use:         "play",
	Short:       "Start the learning game",
	Annotations: map[string]string{interactiveAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	backend, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	manager, err := newManager(cfg, backend, nil)
	if err != nil {
		return fmt.Errorf("create engine manager: %w", err)
	}
	// Closing the manager flushes every learner's pending writes.
	defer manager.Close()

	return app.Run(app.Options{
		Manager:     manager,
		Rewards:     rewards.NewService(backend.ClaimRepo()),
		Categorizer: interests.NewTallyCategorizer(),
		User:        cfg.User,
		Logger:      logger,
	})
}

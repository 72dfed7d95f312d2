package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/learnquest/internal/config"
)

var (
	logger *zap.Logger
	cfg    config.Config
)

// interactiveAnnotation marks commands that hand the terminal to the TUI.
const interactiveAnnotation = "interactive"

var rootCmd = &cobra.Command{
	Use:         "learnquest",
	Annotations: map[string]string{interactiveAnnotation: "true"},
	Short:       "Interest-driven learning quests for kids",
	Long: "LearnQuest is a terminal learning game: pick what you love, clear stages, " +
		"earn credits and keep your hearts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = newLogger(cmd, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .learnquest.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides LEARNQUEST_DB env var)")
	flags.String("user", "", "Learner name to pre-fill on the welcome screen")
	flags.String("log-file", "", "Write logs to this file (the TUI logs nothing without it)")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("store.path", flags.Lookup("db"))
	_ = viper.BindPFlag("user", flags.Lookup("user"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".learnquest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv(viper.GetViper())

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// newLogger builds the process logger. The TUI owns the terminal, so
// interactive runs only log when a log file is configured.
func newLogger(cmd *cobra.Command, c config.Config) (*zap.Logger, error) {
	if cmd.Annotations[interactiveAnnotation] == "true" && c.LogFile == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	if c.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if c.LogFile != "" {
		zc.OutputPaths = []string{c.LogFile}
		zc.ErrorOutputPaths = []string{c.LogFile}
	}
	return zc.Build()
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/textquiz/internal/app"
	"github.com/abhisek/textquiz/internal/config"
	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/quizgen"
	"github.com/abhisek/textquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "textquiz",
	Short:        "Turn study text into quizzes and notes",
	Long:         "textquiz generates multiple-choice and true/false quizzes from plain text, and study notes through an LLM.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TEXTQUIZ_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr at the configured level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured TEXTQUIZ_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.App.DBPath != "" {
		return cfg.App.DBPath, store.EnsureDir(cfg.App.DBPath)
	}
	return store.DefaultDBPath()
}

// loadConfig reads and validates the environment configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// cliLogger keeps stdout for command output: logs go to stderr, and only
// errors unless --verbose is set.
func cliLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logging.NewWriter(cfg.App.LogLevel, os.Stderr)
	}
	return logging.NewWriter(string(logging.LevelError), os.Stderr)
}

// openApp builds the full application for commands that generate content.
func openApp(cmd *cobra.Command, rng quizgen.Rand) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	return app.New(cmd.Context(), app.Options{
		Config: cfg,
		DBPath: dbPath,
		Logger: cliLogger(cmd, cfg),
		Rand:   rng,
	})
}

// openStore opens only the database, for read-only inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// readInput reads the file named by args[0], or stdin when it is absent
// or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

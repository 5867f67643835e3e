package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/config"
	"gitlab.com/dirk.krummacker/friends-manager/internal/logging"
	"go.uber.org/zap"
)

var (
	cfg    config.Config
	logger = zap.NewNop()

	backendFlag string
	fileFlag    string
)

// Usage example on the command line:
// > FRIENDS_FILE=friends_database.csv go run ./cmd/friends
// > FRIENDS_BACKEND=sqlite PORT=8080 GIN_LOGGING=OFF go run ./cmd/friends serve
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "friends",
		Short:         "Friends Manager",
		Long:          "Keep a list of friends, their addresses and birthdays, and see whose birthday is next.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd)
			if err != nil {
				return err
			}
			logger = logging.New(cfg.LogFile, cfg.LogLevel)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Storage backend: csv, mysql or sqlite (overrides FRIENDS_BACKEND)")
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "CSV file or SQLite database path (overrides FRIENDS_FILE or FRIENDS_SQLITE_PATH)")

	rootCmd.AddCommand(menuCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(waitCmd())
	rootCmd.AddCommand(benchCmd())
	return rootCmd
}

// loadConfig reads the environment and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("backend") {
		c.Backend = backendFlag
	}
	if cmd.Flags().Changed("file") {
		if c.Backend == "sqlite" {
			c.SQLitePath = fileFlag
		} else {
			c.File = fileFlag
		}
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Command upanel is a terminal administrative panel for managing user
// records against a remote REST backend.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upanel/cmd/upanel/ui"
	"upanel/internal/api"
	"upanel/internal/config"
	"upanel/internal/logging"
	"upanel/internal/session"
	"upanel/internal/storage"
)

// Version is stamped by the build.
var Version = "dev"

var (
	// Global flags
	verbose  bool
	stateDir string
	apiURL   string

	logger *zap.Logger
)

// rootCmd launches the interactive panel.
var rootCmd = &cobra.Command{
	Use:   "upanel",
	Short: "uPanel - painel de controle de usuários",
	Long: `uPanel is a terminal front-end for a user records backend.

It signs the operator in, lists records with pagination, sorting and
free-text search, and supports creating, updating and deleting records.
Postal addresses are auto-filled from the CEP via the ViaCEP service.

Run without arguments to start the interactive interface.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPanel()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the upanel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("upanel %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "state directory (default ~/.upanel)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

func runPanel() error {
	cfg, err := config.Load(stateDir)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if verbose {
		cfg.Verbose = true
	}

	logger, err = logging.New(cfg.LogPath(), cfg.Verbose)
	if err != nil {
		return err
	}
	logger.Info("starting upanel",
		zap.String("version", Version),
		zap.String("api", cfg.APIBaseURL),
	)

	kv, err := storage.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer kv.Close()

	client := api.NewClient(cfg.APIBaseURL, cfg.PageSize, cfg.RequestTimeout, logger)
	viacep := api.NewViaCEP(cfg.ViaCEPBaseURL, cfg.RequestTimeout, logger)
	sess := session.New(client, kv, logger)

	app := ui.NewApp(&ui.Deps{
		Config:  cfg,
		API:     client,
		ViaCEP:  viacep,
		Session: sess,
		Logger:  logger,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

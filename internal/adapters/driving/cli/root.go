package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/brokerauth-cli/internal/adapters/driven/config/file"
	"github.com/meridian-labs/brokerauth-cli/internal/adapters/driven/upstox"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driving"
	"github.com/meridian-labs/brokerauth-cli/internal/core/services"
	"github.com/meridian-labs/brokerauth-cli/internal/logger"
)

// version is stamped by Execute.
var version = "dev"

// Services wired by initServices and shared by all commands.
var (
	configStore *file.Store
	credStore   *file.CredentialStore
	tokenClient *upstox.Client
	lifecycle   driving.TokenLifecycle
)

// Persistent flags.
var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "brokerauth",
	Short: "Keep a broker OAuth token continuously renewed",
	Long: `brokerauth manages the lifecycle of the Upstox OAuth credential used
by the trading process: first-time authorization, daily renewal shortly
before the broker's wall-clock cutover, and persistence on the shared
configuration file the trading process reads.

Typical setup:

  # One-time: exchange an authorization code for the initial token pair
  brokerauth bootstrap

  # Then keep it renewed, unattended
  brokerauth service --time 02:00`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config", "", "Config directory (default ~/.brokerauth)")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose output")
}

// initServices builds the adapter stack shared by all commands.
func initServices() error {
	store, err := file.NewStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	credStore = file.NewCredentialStore(store)
	tokenClient = upstox.NewClient()
	lifecycle = services.NewLifecycleManager(credStore, tokenClient, tokenClient.AuthorizationURL)

	logger.Debug("config store at %s", store.Path())
	return nil
}

// Execute runs the root command. Exits nonzero on any command failure.
func Execute(v string) {
	if v != "" {
		version = v
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

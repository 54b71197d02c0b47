package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/brokerauth-cli/internal/adapters/driven/config/file"
	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
	"github.com/meridian-labs/brokerauth-cli/internal/core/services"
	"github.com/meridian-labs/brokerauth-cli/internal/logger"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run the daily token renewal daemon",
	Long: `Run the renewal scheduler until terminated. The access token is
refreshed every day at the configured trigger time, with bounded retry on
transient failure. Failures never stop the daemon; a failure that needs
operator action (an invalid refresh token, missing configuration) is
logged prominently and the next day's slot is still scheduled.

The trigger time comes from --time, or from the trigger_time key in the
config file, or defaults to 02:00.`,
	RunE: runService,
}

var (
	serviceTime    string
	serviceLogFile string
	serviceNow     bool
)

func init() {
	serviceCmd.Flags().StringVar(
		&serviceTime, "time", "", "Daily refresh time (HH:MM, local)")
	serviceCmd.Flags().StringVar(
		&serviceLogFile, "log-file", "", "Also append refresh logs to this file")
	serviceCmd.Flags().BoolVar(
		&serviceNow, "now", false, "Refresh immediately on startup, then follow the schedule")
	rootCmd.AddCommand(serviceCmd)
}

func runService(cmd *cobra.Command, _ []string) error {
	cfg, err := scheduleConfig()
	if err != nil {
		return err
	}

	// Startup must fail loudly on missing identity config; the daemon
	// itself never exits on refresh failure.
	if _, _, err := credStore.Load(cmd.Context()); err != nil {
		return err
	}

	if serviceLogFile != "" {
		closeSink, err := logger.TeeToFile(serviceLogFile)
		if err != nil {
			return err
		}
		defer closeSink()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Surface rewrites of the credential file while the daemon runs, both
	// our own saves and out-of-band ones (a bootstrap run in another
	// terminal, an operator edit).
	watcher, err := file.NewWatcher(credStore.Path())
	if err != nil {
		logger.Warn("cannot watch config file: %v", err)
	} else {
		defer watcher.Close()
		go func() {
			for range watcher.Events() {
				log.Printf("service: credential file rewritten: %s", credStore.Path())
			}
		}()
	}

	scheduler := services.NewRenewalScheduler(cfg, lifecycle)

	log.Printf("service: daily refresh at %s, config %s", cfg.TriggerTime(), credStore.Path())
	if serviceNow {
		// Outcome is logged; a failed immediate refresh must not kill
		// the daemon any more than a failed scheduled one.
		_ = scheduler.TriggerNow(ctx)
	}

	err = scheduler.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("service: shutting down")
		return nil
	}
	return err
}

// scheduleConfig resolves the trigger time: flag, then config file key,
// then the 02:00 default.
func scheduleConfig() (domain.ScheduleConfig, error) {
	trigger := serviceTime
	if trigger == "" {
		trigger = configStore.GetString(file.KeyTriggerTime)
	}
	if trigger == "" {
		return domain.DefaultScheduleConfig(), nil
	}
	return domain.ParseTriggerTime(trigger)
}

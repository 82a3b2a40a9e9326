package times

import (
	"context"
	"os"
	"os/signal"

	"github.com/ValentinKolb/timesman/cmd/util"
	"github.com/ValentinKolb/timesman/lib/config"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var Logger = logger.GetLogger("times")

var (
	cmdConfig *config.Config
	shared    *handle.Shared

	// TimesCommands represents the times command group
	TimesCommands = &cobra.Command{
		Use:                "times",
		Short:              "Work with the times of the configured backend",
		PersistentPreRunE:  setupTimesClient,
		PersistentPostRunE: closeTimesClient,
	}
)

func init() {
	// Add subcommands
	TimesCommands.AddCommand(listCmd)
	TimesCommands.AddCommand(createCmd)
	TimesCommands.AddCommand(todayCmd)
	TimesCommands.AddCommand(latestCmd)
	TimesCommands.AddCommand(appendCmd)
	TimesCommands.AddCommand(entriesCmd)
	TimesCommands.AddCommand(perfTestCmd)
}

// setupTimesClient opens the backend selected by the configuration
func setupTimesClient(cmd *cobra.Command, _ []string) error {
	cfg, err := util.LoadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := util.SetupLogging(cfg, ""); err != nil {
		return err
	}
	cmdConfig = cfg

	shared, err = util.GetHandle(cfg)
	return err
}

func closeTimesClient(_ *cobra.Command, _ []string) error {
	if shared == nil {
		return nil
	}
	return shared.Close()
}

// commandContext ends when the process is interrupted
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

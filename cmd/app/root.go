package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ValentinKolb/timesman/app"
	"github.com/ValentinKolb/timesman/app/pane"
	"github.com/ValentinKolb/timesman/cmd/util"
	"github.com/ValentinKolb/timesman/lib/config"
	"github.com/ValentinKolb/timesman/lib/tasks"
	"github.com/spf13/cobra"
)

const (
	// defaultLogFile receives the log of the app if no log file is configured,
	// the terminal belongs to the UI
	defaultLogFile = "timesman.log"

	shutdownTimeout = 5 * time.Second
)

// AppCmd starts the terminal UI
var AppCmd = &cobra.Command{
	Use:   "app",
	Short: "Start the terminal UI",
	Long: `Start the terminal UI on the configured backend.
The log is written to the configured log file (default ` + defaultLogFile + `) and can be viewed in the UI with ctrl+l.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	key := config.KeyFPS
	AppCmd.Flags().Int(key, config.Defaults[key].(int), util.WrapString("Frames per second of the UI"))

	key = config.KeyChannelCapacity
	AppCmd.Flags().Int(key, config.Defaults[key].(int), util.WrapString("Capacity of the result channel of every pane"))
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := util.LoadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := util.SetupLogging(cfg, defaultLogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	h, err := util.GetHandle(cfg)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	env := pane.Env{
		Handle:   h,
		Runner:   tasks.NewRunner(ctx),
		Capacity: cfg.ChannelCapacity,
		Config:   cfg,
	}
	return app.Run(ctx, env, cfg.FrameInterval(), shutdownTimeout)
}

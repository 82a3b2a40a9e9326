package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/timesman/cmd/util"
	"github.com/ValentinKolb/timesman/lib/config"
	"github.com/ValentinKolb/timesman/lib/handle"
	restserver "github.com/ValentinKolb/timesman/rest/server"
	"github.com/ValentinKolb/timesman/rpc/server"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var Logger = logger.GetLogger("serve")

var (
	serveCmdConfig *config.Config
	ServeCmd       = &cobra.Command{
		Use:   "serve",
		Short: "Start the timesman service",
		Long: `Start the timesman service for the configured backend (normally a sqlite database).
The service is either the rpc api (--api rpc, for --store-type rpc clients) or the REST api (--api rest, for --store-type rest clients).
The configuration can be set via command line flags, a config file or environment variables. The format of the environment variables is TIMESMAN_<flag> (e.g. TIMESMAN_STORE_PARAM=/var/lib/timesman.db)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

// service is implemented by the rpc and the REST server
type service interface {
	Serve() error
	Close() error
}

func init() {
	// add flags
	key := config.KeyListen
	ServeCmd.PersistentFlags().String(key, config.Defaults[key].(string), cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/timesman.sock, ...)"))

	key = config.KeyAPI
	ServeCmd.PersistentFlags().String(key, config.Defaults[key].(string), cmdUtil.WrapString("The api to serve (rpc, rest)"))

	key = config.KeyMetrics
	ServeCmd.PersistentFlags().Bool(key, config.Defaults[key].(bool), cmdUtil.WrapString("Expose prometheus metrics at GET /metrics (REST api only)"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := cmdUtil.LoadConfig(cmd)
	if err != nil {
		return err
	}
	serveCmdConfig = cfg
	return nil
}

// run starts the service and blocks until it fails or the process is interrupted
func run(_ *cobra.Command, _ []string) error {
	cfg := serveCmdConfig

	logFile, err := cmdUtil.SetupLogging(cfg, "")
	if err != nil {
		return err
	}
	defer logFile.Close()

	h, err := cmdUtil.GetHandle(cfg)
	if err != nil {
		return fmt.Errorf("failed to open the backend: %w", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			Logger.Errorf("failed to close the backend: %v", err)
		}
	}()

	srv, err := newService(cfg, h)
	if err != nil {
		return err
	}
	Logger.Infof("configuration:\n%s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		Logger.Infof("shutting down")
		if err := srv.Close(); err != nil {
			Logger.Warningf("failed to close the service: %v", err)
		}
		return <-errCh
	}
}

// newService builds the service selected by the api key
func newService(cfg *config.Config, h *handle.Shared) (service, error) {
	switch cfg.API {
	case "rpc":
		if cfg.Metrics {
			Logger.Warningf("metrics are only exposed by the REST api")
		}
		t, err := cmdUtil.GetServerTransport(cfg.Transport)
		if err != nil {
			return nil, err
		}
		s, err := cmdUtil.GetSerializer(cfg.Serializer)
		if err != nil {
			return nil, err
		}
		return server.NewRPCServer(cfg.RPCServerConfig(), t, s, h), nil
	case "rest":
		return restserver.NewRESTServer(restserver.Config{
			Endpoint: cfg.Listen,
			Metrics:  cfg.Metrics,
		}, h), nil
	default:
		return nil, fmt.Errorf("invalid api %s", cfg.API)
	}
}

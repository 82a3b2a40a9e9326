package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/timesman/lib/config"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/logging"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/lib/store/lstore"
	restclient "github.com/ValentinKolb/timesman/rest/client"
	"github.com/ValentinKolb/timesman/rpc/client"
	"github.com/ValentinKolb/timesman/rpc/serializer"
	"github.com/ValentinKolb/timesman/rpc/transport"
	"github.com/ValentinKolb/timesman/rpc/transport/http"
	"github.com/ValentinKolb/timesman/rpc/transport/tcp"
	"github.com/ValentinKolb/timesman/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// KeyConfigFile is the flag of the optional config file
	KeyConfigFile = "config"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the flags selecting and tuning the backend to a command
func SetupStoreFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.String(KeyConfigFile, "", WrapString("Optional config file (toml, yaml or json). Flags and TIMESMAN_* environment variables take precedence"))

	key := config.KeyStoreType
	flags.String(key, config.Defaults[key].(string), WrapString("The backend to use (sqlite, rpc, rest)"))

	key = config.KeyStoreParam
	flags.String(key, config.Defaults[key].(string), WrapString("The parameter of the backend: the database file (sqlite), a comma-separated list of server endpoints (rpc) or the base url of the service (rest)"))

	key = config.KeyTransport
	flags.String(key, config.Defaults[key].(string), WrapString("The rpc transport to use (http, tcp, unix)"))

	key = config.KeySerializer
	flags.String(key, config.Defaults[key].(string), WrapString("The rpc serializer to use (json, gob)"))

	key = config.KeyTimeout
	flags.Int(key, config.Defaults[key].(int), WrapString("The timeout of a single backend call in seconds (0 disables the timeout)"))

	key = config.KeyLockTimeout
	flags.Int(key, config.Defaults[key].(int), WrapString("How long to wait for the store lock in seconds (0 waits forever)"))

	key = config.KeyRetries
	flags.Int(key, config.Defaults[key].(int), WrapString("How many times the rpc transport retries a request"))

	key = config.KeyLogLevel
	flags.String(key, config.Defaults[key].(string), WrapString("The level at which logs will be output (debug, info, warn, error)"))

	key = config.KeyLogFile
	flags.String(key, config.Defaults[key].(string), WrapString("Write the log to this file instead of stdout"))
}

// InitConfig initializes viper from the env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("timesman")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	config.SetDefaults(viper.GetViper())
}

// LoadConfig binds the flags of cmd, reads the optional config file and returns
// the validated configuration
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := config.ReadFile(viper.GetViper(), viper.GetString(KeyConfigFile)); err != nil {
		return nil, err
	}
	return config.Load(viper.GetViper())
}

// SetupLogging directs the log output to the log file of cfg (or fallback if none
// is configured, stdout if both are empty).
// The returned closer closes the log file, it is never nil.
func SetupLogging(cfg *config.Config, fallback string) (io.Closer, error) {
	path := cfg.LogFile
	if path == "" {
		path = fallback
	}
	if path == "" {
		return io.NopCloser(nil), logging.Init(cfg.LogLevel, os.Stdout)
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// GetStore creates the backend selected by cfg
func GetStore(cfg *config.Config) (store.IStore, error) {
	switch cfg.StoreType {
	case config.StoreSQLite:
		return lstore.NewLocalStore(cfg.StoreParam)
	case config.StoreRPC:
		s, err := GetSerializer(cfg.Serializer)
		if err != nil {
			return nil, err
		}
		t, err := GetTransport(cfg.Transport)
		if err != nil {
			return nil, err
		}
		return client.NewRPCStore(cfg.RPCClientConfig(), t, s)
	case config.StoreREST:
		return restclient.NewRESTStore(restclient.Config{
			BaseURL: cfg.StoreParam,
			Timeout: cfg.Timeout(),
		})
	default:
		return nil, fmt.Errorf("invalid store type %s", cfg.StoreType)
	}
}

// GetHandle creates the backend selected by cfg and wraps it in the shared handle
func GetHandle(cfg *config.Config) (*handle.Shared, error) {
	s, err := GetStore(cfg)
	if err != nil {
		return nil, err
	}
	return handle.New(s,
		handle.WithCallTimeout(cfg.Timeout()),
		handle.WithLockTimeout(cfg.LockTimeout()),
	), nil
}

// GetSerializer creates a serializer by name
func GetSerializer(name string) (serializer.IRPCSerializer, error) {
	switch name {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// GetTransport creates a client transport by name
func GetTransport(name string) (transport.IRPCClientTransport, error) {
	switch name {
	case "http":
		return http.NewHttpClientTransport(), nil
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", name)
	}
}

// GetServerTransport creates a server transport by name
func GetServerTransport(name string) (transport.IRPCServerTransport, error) {
	switch name {
	case "http":
		return http.NewHttpServerTransport(), nil
	case "tcp":
		return tcp.NewTCPServerTransport(), nil
	case "unix":
		return unix.NewUnixServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", name)
	}
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Keys of the configuration, used as flag names, config file keys and
// (upper case, "-" replaced by "_", prefixed with TIMESMAN_) environment variables
const (
	KeyStoreType       = "store-type"
	KeyStoreParam      = "store-param"
	KeyListen          = "listen"
	KeyAPI             = "api"
	KeyTransport       = "transport"
	KeySerializer      = "serializer"
	KeyTimeout         = "timeout"
	KeyLockTimeout     = "lock-timeout"
	KeyRetries         = "retries"
	KeyLogLevel        = "log-level"
	KeyLogFile         = "log-file"
	KeyChannelCapacity = "channel-capacity"
	KeyFPS             = "fps"
	KeyMetrics         = "metrics"
)

// Store types
const (
	StoreSQLite = "sqlite"
	StoreRPC    = "rpc"
	StoreREST   = "rest"
)

// Defaults of the configuration
var Defaults = map[string]any{
	KeyStoreType:       StoreSQLite,
	KeyStoreParam:      "timesman.db",
	KeyListen:          "0.0.0.0:8080",
	KeyAPI:             "rest",
	KeyTransport:       "http",
	KeySerializer:      "json",
	KeyTimeout:         10,
	KeyLockTimeout:     10,
	KeyRetries:         3,
	KeyLogLevel:        "info",
	KeyLogFile:         "",
	KeyChannelCapacity: 32,
	KeyFPS:             30,
	KeyMetrics:         false,
}

// Config holds the configuration of a timesman process.
type Config struct {
	// StoreType selects the backend (sqlite, rpc, rest)
	StoreType string `validate:"oneof=sqlite rpc rest"`
	// StoreParam is the database path (sqlite), the comma separated server endpoints (rpc) or the base url (rest)
	StoreParam string `validate:"required"`
	// Listen is the bind address of the serve command
	Listen string
	// API selects the service exposed by the serve command (rpc, rest)
	API string `validate:"oneof=rpc rest"`
	// Transport and Serializer select the rpc flavour, used by the rpc store and the rpc service
	Transport  string `validate:"oneof=http tcp unix"`
	Serializer string `validate:"oneof=json gob"`

	// TimeoutSecond bounds a single backend call, 0 disables the timeout
	TimeoutSecond int `validate:"gte=0"`
	// LockTimeoutSecond bounds the wait for the store lock, 0 disables the timeout
	LockTimeoutSecond int `validate:"gte=0"`
	// Retries of the rpc transport
	Retries int `validate:"gte=0"`

	LogLevel string `validate:"oneof=debug info warn warning error"`
	// LogFile receives the log output, empty means stdout (the app always needs a file)
	LogFile string

	// ChannelCapacity is the capacity of the result channel of every pane
	ChannelCapacity int `validate:"gte=1"`
	// FPS is the frame rate of the app
	FPS int `validate:"gte=1,lte=240"`
	// Metrics enables the metrics endpoint of the serve command
	Metrics bool
}

var validate = validator.New()

// SetDefaults registers Defaults with v
func SetDefaults(v *viper.Viper) {
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
}

// ReadFile reads a config file (toml, yaml, json, ... by extension) into v
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		StoreType:         strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreType))),
		StoreParam:        strings.TrimSpace(v.GetString(KeyStoreParam)),
		Listen:            v.GetString(KeyListen),
		API:               strings.ToLower(v.GetString(KeyAPI)),
		Transport:         strings.ToLower(v.GetString(KeyTransport)),
		Serializer:        strings.ToLower(v.GetString(KeySerializer)),
		TimeoutSecond:     v.GetInt(KeyTimeout),
		LockTimeoutSecond: v.GetInt(KeyLockTimeout),
		Retries:           v.GetInt(KeyRetries),
		LogLevel:          strings.ToLower(v.GetString(KeyLogLevel)),
		LogFile:           v.GetString(KeyLogFile),
		ChannelCapacity:   v.GetInt(KeyChannelCapacity),
		FPS:               v.GetInt(KeyFPS),
		Metrics:           v.GetBool(KeyMetrics),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks all fields of the configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s %q (%s %s)", e.Field(), fmt.Sprint(e.Value()), e.Tag(), e.Param()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Timeout returns the backend call timeout as a time.Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// LockTimeout returns the lock wait timeout as a time.Duration
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutSecond) * time.Second
}

// FrameInterval returns the time between two frames of the app
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(1, c.FPS))
}

// Endpoints returns the rpc endpoints of StoreParam
func (c *Config) Endpoints() []string {
	var endpoints []string
	for _, e := range strings.Split(c.StoreParam, ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	return endpoints
}

// RPCClientConfig returns the configuration of the rpc store
func (c *Config) RPCClientConfig() common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: c.TimeoutSecond,
		Transport: common.ClientTransportConfig{
			Endpoints:              c.Endpoints(),
			RetryCount:             c.Retries,
			ConnectionsPerEndpoint: 1,
			TCPConf: common.TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
		},
	}
}

// RPCServerConfig returns the configuration of the rpc service
func (c *Config) RPCServerConfig() common.ServerConfig {
	return common.ServerConfig{
		Endpoint:      c.Listen,
		TimeoutSecond: c.TimeoutSecond,
		LogLevel:      c.LogLevel,
		Transport: common.ServerTransportConfig{
			WorkersPerConn: 16,
			TCPConf: common.TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	seconds := func(n int) string {
		if n == 0 {
			return "disabled"
		}
		return fmt.Sprintf("%d sec", n)
	}

	addSection("Store")
	addField("Store Type", c.StoreType)
	addField("Store Param", c.StoreParam)
	addField("Call Timeout", seconds(c.TimeoutSecond))
	addField("Lock Timeout", seconds(c.LockTimeoutSecond))
	if c.StoreType == StoreRPC {
		addField("Transport", c.Transport)
		addField("Serializer", c.Serializer)
		addField("Retries", strconv.Itoa(c.Retries))
	}

	addSection("Server")
	addField("Listen", c.Listen)
	addField("API", c.API)
	addField("Metrics", strconv.FormatBool(c.Metrics))

	addSection("App")
	addField("Frames per Second", strconv.Itoa(c.FPS))
	addField("Channel Capacity", strconv.Itoa(c.ChannelCapacity))

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	logFile := c.LogFile
	if logFile == "" {
		logFile = "stdout"
	}
	addField("Log File", logFile)

	return sb.String()
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	c, err := Load(newViper())
	require.NoError(t, err)

	require.Equal(t, StoreSQLite, c.StoreType)
	require.Equal(t, "timesman.db", c.StoreParam)
	require.Equal(t, 10*time.Second, c.Timeout())
	require.Equal(t, 10*time.Second, c.LockTimeout())
	require.Equal(t, 32, c.ChannelCapacity)
	require.Equal(t, time.Second/30, c.FrameInterval())
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]any{
		KeyStoreType:       "postgres",
		KeyStoreParam:      "  ",
		KeyAPI:             "grpc",
		KeyTransport:       "udp",
		KeySerializer:      "binary",
		KeyTimeout:         -1,
		KeyLogLevel:        "loud",
		KeyChannelCapacity: 0,
		KeyFPS:             0,
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			v := newViper()
			v.Set(key, value)
			_, err := Load(v)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestCaseInsensitive(t *testing.T) {
	v := newViper()
	v.Set(KeyStoreType, " REST ")
	v.Set(KeyStoreParam, "http://localhost:8080")
	c, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, StoreREST, c.StoreType)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timesman.toml")
	content := `
store-type = "rpc"
store-param = "localhost:9000, localhost:9001"
transport = "tcp"
serializer = "gob"
fps = 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := newViper()
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, StoreRPC, c.StoreType)
	require.Equal(t, []string{"localhost:9000", "localhost:9001"}, c.Endpoints())
	require.Equal(t, 60, c.FPS)

	rpc := c.RPCClientConfig()
	require.Equal(t, c.Endpoints(), rpc.Transport.Endpoints)
	require.Equal(t, 3, rpc.Transport.RetryCount)

	require.Error(t, ReadFile(newViper(), filepath.Join(t.TempDir(), "missing.toml")))
	require.NoError(t, ReadFile(newViper(), ""))
}

func TestString(t *testing.T) {
	c, err := Load(newViper())
	require.NoError(t, err)

	s := c.String()
	for _, section := range []string{"STORE", "SERVER", "APP", "LOGGING"} {
		require.Contains(t, s, section)
	}
	require.Contains(t, s, "timesman.db")
	require.Contains(t, s, "stdout")
	require.NotContains(t, s, "Serializer", "rpc fields are only shown for the rpc store")
}

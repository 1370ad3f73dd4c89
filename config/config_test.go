package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	settings, err := Load(viper.New(), "")
	require.NoError(err)

	require.Equal("0.0.0.0", settings.Host)
	require.Equal(3004, settings.Port)
	require.Equal("sip2-server", settings.ServerName)
	require.True(settings.ErrorDetection)
	require.Equal("\r", settings.LineTerminator)
	require.Equal("UTF-8", settings.TextEncoding)
	require.Equal(10*time.Second, settings.WriteTimeout)
	require.Equal(BackendMemory, settings.Datastore.Backend)
	require.Equal("2.00", settings.ACS.ProtocolVersion)
	require.Equal(10, settings.ACS.TimeoutPeriod)
	require.Equal("02", settings.ACS.DefaultSecurityMarker)
}

func TestLoadFromFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "sip2d.yaml")
	content := []byte(`
port: 6001
server_name: branch-west
datastore:
  backend: redis
  redis_url: redis://localhost:6379/3
acs:
  renewal_policy: false
`)
	require.NoError(os.WriteFile(path, content, 0o600))

	settings, err := Load(viper.New(), path)
	require.NoError(err)
	require.Equal(6001, settings.Port)
	require.Equal("branch-west", settings.ServerName)
	require.Equal(BackendRedis, settings.Datastore.Backend)
	require.Equal("redis://localhost:6379/3", settings.Datastore.RedisURL)
	require.False(settings.ACS.RenewalPolicy)
	require.True(settings.ACS.CheckinOK) // untouched defaults survive
}

func TestLoadMissingExplicitFile(t *testing.T) {
	require := require.New(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(err)
}

func TestLoadFromEnv(t *testing.T) {
	require := require.New(t)

	t.Setenv("SIP2_PORT", "7001")
	t.Setenv("SIP2_DATASTORE_BACKEND", "redis")
	t.Setenv("SIP2_DATASTORE_REDIS_URL", "redis://cache:6379/0")

	settings, err := Load(viper.New(), "")
	require.NoError(err)
	require.Equal(7001, settings.Port)
	require.Equal(BackendRedis, settings.Datastore.Backend)
	require.Equal("redis://cache:6379/0", settings.Datastore.RedisURL)
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	t.Run("unknown backend", func(t *testing.T) {
		s := &Settings{Port: 3004, Datastore: DatastoreSettings{Backend: "postgres"}}
		require.Error(s.Validate())
	})

	t.Run("redis backend needs a url", func(t *testing.T) {
		s := &Settings{Port: 3004, Datastore: DatastoreSettings{Backend: BackendRedis}}
		require.Error(s.Validate())
	})

	t.Run("port range", func(t *testing.T) {
		s := &Settings{Port: 0, Datastore: DatastoreSettings{Backend: BackendMemory}}
		require.Error(s.Validate())
	})
}

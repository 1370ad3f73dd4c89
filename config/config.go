// Package config loads the sip2d daemon configuration from file, environment
// and defaults, in that order of precedence, using viper. Keys use dotted
// sections (datastore.backend) and map to SIP2_ prefixed environment
// variables (SIP2_DATASTORE_BACKEND).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Datastore backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Settings is the full configuration surface of the sip2d daemon.
type Settings struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ServerName     string        `mapstructure:"server_name"`
	RemoteApp      string        `mapstructure:"remote_app"`
	ErrorDetection bool          `mapstructure:"error_detection"`
	LineTerminator string        `mapstructure:"line_terminator"`
	TextEncoding   string        `mapstructure:"text_encoding"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxConnections int           `mapstructure:"max_connections"`
	LogLevel       string        `mapstructure:"log_level"`

	Datastore DatastoreSettings `mapstructure:"datastore"`
	ACS       ACSSettings       `mapstructure:"acs"`
}

// DatastoreSettings selects and configures the session record backend.
type DatastoreSettings struct {
	Backend  string `mapstructure:"backend"`
	RedisURL string `mapstructure:"redis_url"`
}

// ACSSettings configures the protocol-level behavior advertised to
// terminals.
type ACSSettings struct {
	ProtocolVersion       string `mapstructure:"protocol_version"`
	OnlineStatus          bool   `mapstructure:"online_status"`
	CheckinOK             bool   `mapstructure:"checkin_ok"`
	CheckoutOK            bool   `mapstructure:"checkout_ok"`
	RenewalPolicy         bool   `mapstructure:"renewal_policy"`
	OfflineOK             bool   `mapstructure:"offline_ok"`
	TimeoutPeriod         int    `mapstructure:"timeout_period"`
	RetriesAllowed        int    `mapstructure:"retries_allowed"`
	DefaultSecurityMarker string `mapstructure:"default_security_marker"`
	DefaultLanguage       string `mapstructure:"default_language"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3004)
	v.SetDefault("server_name", "sip2-server")
	v.SetDefault("remote_app", "")
	v.SetDefault("error_detection", true)
	v.SetDefault("line_terminator", "\r")
	v.SetDefault("text_encoding", "UTF-8")
	v.SetDefault("read_timeout", time.Duration(0))
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("max_connections", 0)
	v.SetDefault("log_level", "info")

	v.SetDefault("datastore.backend", BackendMemory)
	v.SetDefault("datastore.redis_url", "redis://localhost:6379/0")

	v.SetDefault("acs.protocol_version", "2.00")
	v.SetDefault("acs.online_status", true)
	v.SetDefault("acs.checkin_ok", true)
	v.SetDefault("acs.checkout_ok", true)
	v.SetDefault("acs.renewal_policy", true)
	v.SetDefault("acs.offline_ok", false)
	v.SetDefault("acs.timeout_period", 10)
	v.SetDefault("acs.retries_allowed", 5)
	v.SetDefault("acs.default_security_marker", "02")
	v.SetDefault("acs.default_language", "und")
}

// Load reads the configuration. A non-empty path names an explicit config
// file and must exist; otherwise sip2d.yaml is searched in the working
// directory and /etc/sip2d, and a missing file is fine.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	v.SetEnvPrefix("SIP2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sip2d")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/sip2d")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks the cross-field constraints viper cannot express.
func (s *Settings) Validate() error {
	switch s.Datastore.Backend {
	case BackendMemory:
	case BackendRedis:
		if s.Datastore.RedisURL == "" {
			return errors.New("datastore.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown datastore backend %q", s.Datastore.Backend)
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}

	return nil
}

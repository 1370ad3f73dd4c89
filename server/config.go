package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/sip2"
)

var (
	// ErrConfigNil indicates an option was applied to a nil configuration.
	ErrConfigNil = errors.New("server config is nil")
)

// Config represents the configuration parameters of a SIP2 server.
type Config struct {
	mu sync.RWMutex

	// host is the listen address. Defaults to 0.0.0.0.
	host string

	// port is the TCP listen port.
	port int

	// serverName identifies the server record in the datastore. Two servers
	// with the same name cannot run at the same time.
	serverName string

	// remoteApp names the remote library system this server fronts. It is
	// recorded on the server and client records for operator tooling.
	remoteApp string

	// errorDetection enables checksum and sequence validation on inbound
	// messages and the AY/AZ trailer on outbound ones. Defaults to true.
	errorDetection bool

	// terminator is the line terminator. Defaults to carriage return.
	terminator string

	// textEncoding is the negotiated wire encoding, nil for UTF-8
	// passthrough.
	textEncoding encoding.Encoding

	// textEncodingName is the IANA name textEncoding was resolved from.
	textEncodingName string

	// readTimeout bounds the idle time between two client messages. Zero
	// means no limit.
	readTimeout time.Duration

	// writeTimeout bounds a single response write. Defaults to 10 seconds.
	writeTimeout time.Duration

	// maxConnections caps the number of concurrent terminal connections.
	// Zero means no cap.
	maxConnections int

	// readBufferSize is the size of the per-connection read buffer.
	// Defaults to 4096.
	readBufferSize int

	// logger receives server and session events.
	logger logger.Logger
}

// NewConfig creates a server configuration listening on host:port, with
// default values applied first and the provided options after.
func NewConfig(host string, port int, opts ...Option) (*Config, error) {
	cfg := &Config{
		host:           host,
		serverName:     "sip2-server",
		errorDetection: true,
		terminator:     sip2.DefaultTerminator,
		writeTimeout:   10 * time.Second,
		readBufferSize: 4096,
		logger:         logger.GetLogger(),
	}
	if cfg.host == "" {
		cfg.host = "0.0.0.0"
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

func (cfg *Config) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

// ListenAddr returns the host:port listen address.
func (cfg *Config) ListenAddr() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return fmt.Sprintf("%s:%d", cfg.host, cfg.port)
}

func (cfg *Config) ServerName() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.serverName
}

func (cfg *Config) RemoteApp() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.remoteApp
}

func (cfg *Config) ErrorDetection() bool {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.errorDetection
}

func (cfg *Config) Terminator() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.terminator
}

func (cfg *Config) TextEncoding() encoding.Encoding {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.textEncoding
}

func (cfg *Config) TextEncodingName() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.textEncodingName
}

func (cfg *Config) ReadTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.readTimeout
}

func (cfg *Config) WriteTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.writeTimeout
}

func (cfg *Config) MaxConnections() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.maxConnections
}

func (cfg *Config) ReadBufferSize() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.readBufferSize
}

func (cfg *Config) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// withPort validates the listen port. Port 0 binds an ephemeral port, which
// tests rely on.
func withPort(port int) Option {
	return newOptFunc("withPort", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		cfg.port = port

		return nil
	})
}

// WithServerName sets the name under which the server registers itself in
// the datastore.
func WithServerName(name string) Option {
	return newOptFunc("WithServerName", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if name == "" {
			return errors.New("server name cannot be empty")
		}
		cfg.serverName = name

		return nil
	})
}

// WithRemoteApp names the remote library system the server fronts.
func WithRemoteApp(name string) Option {
	return newOptFunc("WithRemoteApp", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		cfg.remoteApp = name

		return nil
	})
}

// WithErrorDetection enables or disables checksum and sequence handling.
func WithErrorDetection(enabled bool) Option {
	return newOptFunc("WithErrorDetection", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		cfg.errorDetection = enabled

		return nil
	})
}

// WithLineTerminator sets the message terminator. Only the carriage return,
// line feed and CRLF terminators used by deployed terminals are accepted.
func WithLineTerminator(terminator string) Option {
	return newOptFunc("WithLineTerminator", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		switch terminator {
		case "\r", "\n", "\r\n":
			cfg.terminator = terminator
			return nil
		default:
			return fmt.Errorf("invalid line terminator: %q", terminator)
		}
	})
}

// WithTextEncoding sets the wire text encoding by IANA name, e.g. "ISO_8859-1".
// UTF-8 and the empty name select passthrough.
func WithTextEncoding(name string) Option {
	return newOptFunc("WithTextEncoding", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if name == "" || name == "UTF-8" || name == "utf-8" {
			cfg.textEncoding = nil
			cfg.textEncodingName = "UTF-8"

			return nil
		}

		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil {
			return fmt.Errorf("unknown text encoding %q: %w", name, err)
		}
		if enc == nil {
			// the index knows the name but has no codec for it
			return fmt.Errorf("unsupported text encoding %q", name)
		}
		cfg.textEncoding = enc
		cfg.textEncodingName = name

		return nil
	})
}

// WithReadTimeout bounds the idle time between two client messages.
func WithReadTimeout(timeout time.Duration) Option {
	return newOptFunc("WithReadTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout < 0 {
			return errors.New("read timeout cannot be negative")
		}
		cfg.readTimeout = timeout

		return nil
	})
}

// WithWriteTimeout bounds a single response write.
func WithWriteTimeout(timeout time.Duration) Option {
	return newOptFunc("WithWriteTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout < 0 {
			return errors.New("write timeout cannot be negative")
		}
		cfg.writeTimeout = timeout

		return nil
	})
}

// WithMaxConnections caps the number of concurrent terminal connections.
// Zero removes the cap.
func WithMaxConnections(limit int) Option {
	return newOptFunc("WithMaxConnections", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if limit < 0 {
			return errors.New("max connections cannot be negative")
		}
		cfg.maxConnections = limit

		return nil
	})
}

// WithReadBufferSize sets the per-connection read buffer size.
func WithReadBufferSize(size int) Option {
	return newOptFunc("WithReadBufferSize", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if size < 256 {
			return fmt.Errorf("read buffer size too small: %d", size)
		}
		cfg.readBufferSize = size

		return nil
	})
}

// WithLogger sets the logger for server and session events.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = l

		return nil
	})
}

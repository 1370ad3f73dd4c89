package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/libstack/go-sip2/acs"
	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

var (
	// ErrServerStarted indicates Start was called on a running server.
	ErrServerStarted = errors.New("server already started")
	// ErrServerNotStarted indicates Shutdown was called before Start.
	ErrServerNotStarted = errors.New("server not started")
)

// Server accepts self-check terminal connections and runs one session loop
// per connection. Its lifecycle is mirrored into the datastore: Start
// registers a server record (refusing to run when a record with the same
// name is already marked running) and Shutdown marks it down again.
type Server struct {
	cfg        *Config
	codec      *sip2.Codec
	dispatcher *acs.Dispatcher
	records    *store.Records
	logger     logger.Logger
	metrics    *Metrics

	resendType *sip2.MessageType

	record   *store.Server
	listener net.Listener
	sessions *xsync.MapOf[string, *session]
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	started  atomic.Bool
}

// NewServer creates a Server over the given field registry and message
// catalog. The codec is built internally so its wire settings always match
// the server configuration.
func NewServer(cfg *Config, registry *sip2.Registry, catalog *sip2.Catalog, dispatcher *acs.Dispatcher, records *store.Records) (*Server, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if registry == nil || catalog == nil {
		return nil, errors.New("registry and catalog are required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if records == nil {
		return nil, errors.New("record store is required")
	}

	resendType, err := catalog.GetByCommand(sip2.CmdRequestSCResend)
	if err != nil {
		return nil, err
	}

	codec := sip2.NewCodec(registry, catalog, sip2.CodecConfig{
		ErrorDetection: cfg.ErrorDetection(),
		Terminator:     cfg.Terminator(),
		Logger:         cfg.Logger(),
	})

	return &Server{
		cfg:        cfg,
		codec:      codec,
		dispatcher: dispatcher,
		records:    records,
		logger:     cfg.Logger().With("server", cfg.ServerName()),
		metrics:    &Metrics{},
		resendType: resendType,
		sessions:   xsync.NewMapOf[string, *session](),
	}, nil
}

// Metrics returns the server's atomic counters.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Codec returns the wire codec the server parses and serializes with.
func (s *Server) Codec() *sip2.Codec { return s.codec }

// Record returns the datastore record of this server, nil before Start.
func (s *Server) Record() *store.Server { return s.record }

// Addr returns the bound listen address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start registers the server record, binds the listener and launches the
// accept loop. It returns store.ErrServerAlreadyRunning when another process
// already runs under the same server name.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerStarted
	}

	record := &store.Server{
		Name:      s.cfg.ServerName(),
		Host:      s.cfg.Host(),
		Port:      s.cfg.Port(),
		RemoteApp: s.cfg.RemoteApp(),
		Status:    store.StatusDown,
		ProcessID: os.Getpid(),
	}
	if err := s.records.CreateServer(ctx, record); err != nil {
		s.started.Store(false)
		return err
	}
	s.record = record

	listener, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr(), err)
	}
	s.listener = listener

	if err := s.records.ServerUp(ctx, record); err != nil {
		_ = listener.Close()
		s.started.Store(false)

		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptLoop(loopCtx)

	s.logger.Info("server started",
		"addr", listener.Addr().String(),
		"error_detection", s.cfg.ErrorDetection(),
		"encoding", s.cfg.TextEncodingName(),
	)

	return nil
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "error", err)

			continue
		}

		if limit := s.cfg.MaxConnections(); limit > 0 && s.metrics.ConnActiveGauge.Load() >= int64(limit) {
			s.metrics.incConnRejectedCount()
			s.logger.Warn("connection rejected, server is at capacity",
				"remote", conn.RemoteAddr().String(), "limit", limit)
			_ = conn.Close()

			continue
		}

		s.metrics.incConnTotalCount()
		s.metrics.incConnActiveGauge()

		sess := newSession(s, conn)
		key := conn.RemoteAddr().String()
		s.sessions.Store(key, sess)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.run(ctx)
			s.sessions.Delete(key)
			s.metrics.decConnActiveGauge()
		}()
	}
}

// Shutdown stops accepting connections, closes every session and marks the
// server record down. It returns the context error when the sessions do not
// drain in time.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return ErrServerNotStarted
	}

	s.logger.Info("server shutting down")

	s.cancel()
	_ = s.listener.Close()

	s.sessions.Range(func(_ string, sess *session) bool {
		sess.close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var waitErr error
	select {
	case <-done:
	case <-ctx.Done():
		waitErr = ctx.Err()
	}

	if err := s.records.ServerDown(context.WithoutCancel(ctx), s.record); err != nil {
		s.logger.Error("failed to mark server record down", "error", err)
		if waitErr == nil {
			waitErr = err
		}
	}

	s.started.Store(false)
	s.logger.Info("server stopped")

	return waitErr
}

package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/transform"

	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// timeNow is stubbed in tests that exercise deadlines.
var timeNow = time.Now

// session is the per-connection exchange loop. It owns the client session
// record from accept to disconnect.
type session struct {
	srv    *Server
	conn   net.Conn
	reader *bufio.Reader
	writer io.Writer
	client *store.Client
	logger logger.Logger

	closeOnce sync.Once
}

func newSession(srv *Server, conn net.Conn) *session {
	var r io.Reader = conn
	var w io.Writer = conn
	if enc := srv.cfg.TextEncoding(); enc != nil {
		r = transform.NewReader(conn, enc.NewDecoder())
		w = transform.NewWriter(conn, enc.NewEncoder())
	}

	return &session{
		srv:    srv,
		conn:   conn,
		reader: bufio.NewReaderSize(r, srv.cfg.ReadBufferSize()),
		writer: w,
		logger: srv.logger.With("remote", conn.RemoteAddr().String()),
	}
}

func (s *session) run(ctx context.Context) {
	defer s.close()

	host, portStr, err := net.SplitHostPort(s.conn.RemoteAddr().String())
	if err != nil {
		host = s.conn.RemoteAddr().String()
	}
	port, _ := strconv.Atoi(portStr)

	s.client = &store.Client{
		ServerID:  s.srv.record.ID,
		IP:        host,
		Port:      port,
		RemoteApp: s.srv.cfg.RemoteApp(),
	}
	if err := s.srv.records.CreateClient(ctx, s.client); err != nil {
		s.logger.Error("failed to create client record", "error", err)
		return
	}
	defer func() {
		if err := s.srv.records.DeleteClient(context.WithoutCancel(ctx), s.client); err != nil {
			s.logger.Error("failed to delete client record", "error", err)
		}
	}()

	s.logger.Info("terminal connected")
	defer s.logger.Info("terminal disconnected")

	for {
		if ctx.Err() != nil {
			return
		}

		raw, err := s.readMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}
		if raw == "" {
			continue
		}

		if err := s.handle(ctx, raw); err != nil {
			s.logger.Error("exchange failed, dropping connection", "error", err)
			return
		}
	}
}

// readMessage reads one line up to the configured terminator and returns it
// without the terminator.
func (s *session) readMessage() (string, error) {
	if timeout := s.srv.cfg.ReadTimeout(); timeout > 0 {
		if err := s.conn.SetReadDeadline(timeNow().Add(timeout)); err != nil {
			return "", err
		}
	}

	terminator := s.srv.cfg.Terminator()
	line, err := s.reader.ReadString(terminator[len(terminator)-1])
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(line, terminator), nil
}

// handle runs one request/response exchange. Checksum and sequence failures
// are handled in-band with a resend request; a decode failure is returned and
// closes the connection, no resend is attempted for unparseable data.
func (s *session) handle(ctx context.Context, raw string) error {
	s.srv.metrics.incRequestCount()
	s.logger.Debug("message received", "raw", raw)

	s.client.LastRequest = raw

	// a message without a trailer runs in degraded mode, there is nothing
	// to verify
	if s.srv.cfg.ErrorDetection() && sip2.HasChecksumTrailer(raw) && !sip2.VerifyChecksum(raw) {
		s.srv.metrics.incChecksumErrCount()
		s.logger.Warn("checksum verification failed, requesting resend", "raw", raw)

		return s.requestResend()
	}

	msg, err := s.srv.codec.Parse(raw)
	if err != nil {
		s.srv.metrics.incParseErrCount()
		s.logger.Error("message decode failed", "error", err, "raw", raw)

		return err
	}

	isResend := msg.Command() == sip2.CmdRequestACSResend
	if s.srv.cfg.ErrorDetection() && !isResend && !s.sequenceOK(msg) {
		s.srv.metrics.incSequenceErrCount()

		return s.requestResend()
	}

	result, err := s.srv.dispatcher.Execute(ctx, msg, s.client)
	if err != nil {
		return err
	}

	if !result.Responded() {
		s.srv.metrics.incSuppressedCount()
		s.logger.Debug("response suppressed",
			"command", msg.Command(), "reason", string(result.Suppressed))
		if isResend {
			return nil
		}

		return s.persist(ctx)
	}

	text := s.srv.codec.Serialize(result.Response)
	if err := s.write(text); err != nil {
		return err
	}
	s.srv.metrics.incResponseCount()
	s.logger.Debug("message sent", "raw", strings.TrimSuffix(text, s.srv.cfg.Terminator()))

	// a replayed response leaves the stored exchange state untouched
	if isResend {
		s.srv.metrics.incResendCount()
		return nil
	}

	s.client.LastResponse = strings.TrimSuffix(text, s.srv.cfg.Terminator())
	if seq := msg.SequenceNumber(); seq >= 0 {
		n := seq
		s.client.LastSequence = &n
	}

	return s.persist(ctx)
}

// sequenceOK checks that the inbound sequence number follows the last one
// modulo 10. The first exchange pins the counter, and messages without a
// trailer already run in degraded mode.
func (s *session) sequenceOK(msg *sip2.Message) bool {
	seq := msg.SequenceNumber()
	if seq < 0 {
		return true
	}

	last := s.client.LastSequence
	if last == nil {
		return true
	}

	want := (*last + 1) % 10
	if seq == want {
		return true
	}

	s.logger.Warn("sequence number out of order", "got", seq, "want", want)

	return false
}

// requestResend answers an unusable inbound message with a request SC resend,
// keeping the stored sequence state untouched.
func (s *session) requestResend() error {
	text := s.srv.codec.Serialize(sip2.NewMessage(s.srv.resendType))
	if err := s.write(text); err != nil {
		return err
	}
	s.srv.metrics.incResponseCount()

	return nil
}

func (s *session) write(text string) error {
	if timeout := s.srv.cfg.WriteTimeout(); timeout > 0 {
		if err := s.conn.SetWriteDeadline(timeNow().Add(timeout)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(s.writer, text)

	return err
}

func (s *session) persist(ctx context.Context) error {
	return s.srv.records.UpdateClient(ctx, s.client)
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

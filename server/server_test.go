package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libstack/go-sip2/acs"
	"github.com/libstack/go-sip2/internal/demo"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

type serverFixture struct {
	srv     *Server
	records *store.Records
}

func startTestServer(t *testing.T, opts ...Option) *serverFixture {
	t.Helper()

	registry := sip2.DefaultRegistry()
	catalog := sip2.DefaultCatalog(registry)
	records := store.NewRecords(store.NewMemoryStore())

	acsCfg := acs.DefaultConfig()
	acsCfg.Clock = func() time.Time {
		return time.Date(2023, 10, 10, 12, 0, 0, 0, time.UTC)
	}

	library := demo.NewSeededLibrary()
	dispatcher, err := acs.NewDispatcher(catalog, acsCfg, library.Handlers(), nil)
	require.NoError(t, err)

	cfg, err := NewConfig("127.0.0.1", 0, opts...)
	require.NoError(t, err)

	srv, err := NewServer(cfg, registry, catalog, dispatcher, records)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	return &serverFixture{srv: srv, records: records}
}

type terminal struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dialTerminal(t *testing.T, srv *Server) *terminal {
	t.Helper()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &terminal{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

// send writes one raw frame, terminator included.
func (term *terminal) send(raw string) {
	term.t.Helper()

	_, err := term.conn.Write([]byte(raw))
	require.NoError(term.t, err)
}

// exchange frames body with its checksum trailer, sends it and reads one
// response line without the terminator.
func (term *terminal) exchange(body string) string {
	term.t.Helper()

	term.send(frame(body))

	return term.read()
}

func (term *terminal) read() string {
	term.t.Helper()

	require.NoError(term.t, term.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := term.reader.ReadString('\r')
	require.NoError(term.t, err)

	return strings.TrimSuffix(line, "\r")
}

// frame appends the AZ checksum and terminator to a body that already ends
// with its AY sequence part.
func frame(body string) string {
	body += "AZ"
	return body + sip2.ComputeChecksum(body) + "\r"
}

const loginBody = "9300CNselfcheck|COselfcheck|CPgate-1|AY1"

func TestServerLoginAndStatus(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)
	require.True(sip2.VerifyChecksum(resp), resp)
	require.Contains(resp, "AY1")

	resp = term.exchange("9900802.00AY2")
	require.True(strings.HasPrefix(resp, "98"), resp)
	require.True(sip2.VerifyChecksum(resp), resp)
	require.Contains(resp, "AOdemo|")
	require.Contains(resp, "BX")
	require.Contains(resp, "AY2")
	require.Contains(resp, "20231010    120000")

	require.EqualValues(2, fixture.srv.Metrics().RequestCount.Load())
	require.EqualValues(2, fixture.srv.Metrics().ResponseCount.Load())
}

func TestServerChecksumFailure(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	// corrupted checksum digits
	term.send("9300CNselfcheck|COselfcheck|AY1AZ0000\r")
	require.Equal("96AZFEF6", term.read())

	require.EqualValues(1, fixture.srv.Metrics().ChecksumErrCount.Load())

	// the connection survives and the next exchange works
	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)
}

func TestServerMessageWithoutTrailer(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	// no AY/AZ trailer at all; the exchange runs in degraded mode and the
	// login is still answered
	term.send("9300CNselfcheck|COselfcheck|CPgate-1|\r")
	require.Equal("941AZFEC7", term.read())

	require.EqualValues(0, fixture.srv.Metrics().ChecksumErrCount.Load())
	require.EqualValues(1, fixture.srv.Metrics().ResponseCount.Load())
}

func TestServerClosesOnDecodeError(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	// an unknown command code is fatal for the connection; the checksum is
	// valid, so this is not answered with a resend request
	term.send(frame("XXAY1"))

	require.NoError(term.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, err := term.reader.ReadString('\r')
	require.ErrorIs(err, io.EOF)

	require.EqualValues(1, fixture.srv.Metrics().ParseErrCount.Load())
}

func TestServerSequenceValidation(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)

	// expected sequence after 1 is 2; jumping to 9 triggers a resend request
	resp = term.exchange("9900802.00AY9")
	require.Equal("96AZFEF6", resp)
	require.EqualValues(1, fixture.srv.Metrics().SequenceErrCount.Load())

	// the stored counter did not advance, 2 is still the expected follow-up
	resp = term.exchange("9900802.00AY2")
	require.True(strings.HasPrefix(resp, "98"), resp)

	// and it wraps from 9 back to 0
	for seq := 3; seq <= 9; seq++ {
		resp = term.exchange("9900802.00AY" + string(rune('0'+seq)))
		require.True(strings.HasPrefix(resp, "98"), resp)
	}
	resp = term.exchange("9900802.00AY0")
	require.True(strings.HasPrefix(resp, "98"), resp)
}

func TestServerResendReplaysLastResponse(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	first := term.exchange(loginBody)
	require.True(strings.HasPrefix(first, "941"), first)

	replay := term.exchange("97")
	require.Equal(first, replay)

	// a replay does not advance the sequence counter
	resp := term.exchange("9900802.00AY2")
	require.True(strings.HasPrefix(resp, "98"), resp)

	require.EqualValues(1, fixture.srv.Metrics().ResendCount.Load())
}

func TestServerSuppressesBeforeLogin(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	// an item information request before login gets no response at all;
	// the login right after it is answered normally
	term.send(frame("1720231010    120000AOdemo|ABitem1|AY1"))
	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)

	require.EqualValues(1, fixture.srv.Metrics().SuppressedCount.Load())
}

func TestServerCirculationExchange(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t)
	term := dialTerminal(t, fixture.srv)

	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)

	// checkout item1 to patron1
	resp = term.exchange("11NN20231010    12000020231010    120000AOdemo|AApatron1|ABitem1|AC|AY2")
	require.True(strings.HasPrefix(resp, "121"), resp)
	require.Contains(resp, "ABitem1|")
	require.True(sip2.VerifyChecksum(resp), resp)

	// a second checkout of the same item is refused but still answered
	resp = term.exchange("11NN20231010    12000020231010    120000AOdemo|AApatron2|ABitem1|AC|AY3")
	require.True(strings.HasPrefix(resp, "120"), resp)

	// checkin brings it back
	resp = term.exchange("09N20231010    12000020231010    120000APmain|AOdemo|ABitem1|AC|AY4")
	require.True(strings.HasPrefix(resp, "101"), resp)
}

func TestServerRecordLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fixture := startTestServer(t, WithServerName("lifecycle-test"))

	record, err := fixture.records.FindServerByName(ctx, "lifecycle-test")
	require.NoError(err)
	require.NotNil(record)
	require.True(record.IsRunning())

	term := dialTerminal(t, fixture.srv)
	resp := term.exchange(loginBody)
	require.True(strings.HasPrefix(resp, "941"), resp)

	clients, err := fixture.records.ClientsOf(ctx, record.ID)
	require.NoError(err)
	require.Len(clients, 1)
	require.True(clients[0].Authenticated)
	require.Equal("selfcheck", clients[0].UserID)
	require.Equal("941AY1AZFDFC", clients[0].LastResponse)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(fixture.srv.Shutdown(shutdownCtx))

	record, err = fixture.records.FindServerByName(ctx, "lifecycle-test")
	require.NoError(err)
	require.False(record.IsRunning())

	clients, err = fixture.records.ClientsOf(ctx, record.ID)
	require.NoError(err)
	require.Empty(clients)
}

func TestServerStartConflicts(t *testing.T) {
	require := require.New(t)

	fixture := startTestServer(t, WithServerName("conflict-test"))

	registry := fixture.srv.Codec().Registry()
	catalog := fixture.srv.Codec().Catalog()

	library := demo.NewSeededLibrary()
	dispatcher, err := acs.NewDispatcher(catalog, nil, library.Handlers(), nil)
	require.NoError(err)

	cfg, err := NewConfig("127.0.0.1", 0, WithServerName("conflict-test"))
	require.NoError(err)

	dup, err := NewServer(cfg, registry, catalog, dispatcher, fixture.records)
	require.NoError(err)

	err = dup.Start(context.Background())
	require.ErrorIs(err, store.ErrServerAlreadyRunning)
}

func TestConfigOptions(t *testing.T) {
	require := require.New(t)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig("", 3004)
		require.NoError(err)
		require.Equal("0.0.0.0:3004", cfg.ListenAddr())
		require.True(cfg.ErrorDetection())
		require.Equal("\r", cfg.Terminator())
		require.Nil(cfg.TextEncoding())
	})

	t.Run("invalid port", func(t *testing.T) {
		_, err := NewConfig("127.0.0.1", 70000)
		require.Error(err)
	})

	t.Run("invalid terminator", func(t *testing.T) {
		_, err := NewConfig("127.0.0.1", 3004, WithLineTerminator("|"))
		require.Error(err)
	})

	t.Run("text encoding", func(t *testing.T) {
		cfg, err := NewConfig("127.0.0.1", 3004, WithTextEncoding("ISO-8859-1"))
		require.NoError(err)
		require.NotNil(cfg.TextEncoding())
		require.Equal("ISO-8859-1", cfg.TextEncodingName())

		_, err = NewConfig("127.0.0.1", 3004, WithTextEncoding("no-such-charset"))
		require.Error(err)

		cfg, err = NewConfig("127.0.0.1", 3004, WithTextEncoding("UTF-8"))
		require.NoError(err)
		require.Nil(cfg.TextEncoding())
	})

	t.Run("nil config", func(t *testing.T) {
		require.ErrorIs(WithServerName("x").apply(nil), ErrConfigNil)
	})
}

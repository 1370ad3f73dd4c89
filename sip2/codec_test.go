package sip2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, errorDetection bool) *Codec {
	t.Helper()

	registry := DefaultRegistry()
	catalog := DefaultCatalog(registry)

	return NewCodec(registry, catalog, CodecConfig{ErrorDetection: errorDetection})
}

func TestCodecParseLogin(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, true)
	msg, err := codec.Parse("9300CNlibrarian@test.com|CO123456|CPselfcheck_location|AY1AZEAEE\r")
	require.NoError(err)

	require.Equal(CmdLogin, msg.Command())
	require.Equal(1, msg.SequenceNumber())
	require.Equal("EAEE", msg.Checksum())

	uid, ok := msg.FixedValue("uid_algorithm")
	require.True(ok)
	require.Equal("0", uid)

	pwd, ok := msg.FixedValue("pwd_algorithm")
	require.True(ok)
	require.Equal("0", pwd)

	login, ok := msg.VarValue("login_uid")
	require.True(ok)
	require.Equal("librarian@test.com", login)

	password, ok := msg.VarValue("login_pwd")
	require.True(ok)
	require.Equal("123456", password)

	location, ok := msg.VarValue("location_code")
	require.True(ok)
	require.Equal("selfcheck_location", location)
}

func TestCodecParseSCStatus(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, true)
	msg, err := codec.Parse("9900802.00AY1AZFCA0")
	require.NoError(err)

	require.Equal(CmdSCStatus, msg.Command())
	require.Equal(1, msg.SequenceNumber())

	status, _ := msg.FixedValue("status_code")
	require.Equal("0", status)

	width, _ := msg.FixedValue("max_print_width")
	require.Equal("080", width)

	version, _ := msg.FixedValue("protocol_version")
	require.Equal("2.00", version)
}

func TestCodecParseErrors(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, true)

	t.Run("too short", func(t *testing.T) {
		_, err := codec.Parse("9")
		require.ErrorIs(err, ErrMessageTooShort)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := codec.Parse("XXfoo")
		require.ErrorIs(err, ErrCommandNotFound)
	})

	t.Run("unknown variable tag is skipped", func(t *testing.T) {
		msg, err := codec.Parse("9300CNuser|ZZmystery|AY1AZE801")
		require.NoError(err)
		_, ok := msg.VarValue("login_uid")
		require.True(ok)
	})
}

func TestCodecParseWithoutTrailer(t *testing.T) {
	require := require.New(t)

	// degraded mode: error detection on, terminal sends no trailer
	codec := newTestCodec(t, true)
	msg, err := codec.Parse("9300CNuser|COpass|")
	require.NoError(err)
	require.Equal(-1, msg.SequenceNumber())
	require.Empty(msg.Checksum())
}

func TestCodecSerialize(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, true)
	catalog := codec.Catalog()
	registry := codec.Registry()

	t.Run("login response with trailer", func(t *testing.T) {
		mt, err := catalog.GetByCommand(CmdLoginResp)
		require.NoError(err)

		msg := NewMessage(mt)
		ok, err := registry.Fixed("ok")
		require.NoError(err)
		msg.AddFixed(ok, true)
		msg.SetSequenceNumber(1)

		require.Equal("941AY1AZFDFC\r", codec.Serialize(msg))
		require.Equal("FDFC", msg.Checksum())
	})

	t.Run("serialization is memoized", func(t *testing.T) {
		mt, err := catalog.GetByCommand(CmdLoginResp)
		require.NoError(err)

		msg := NewMessage(mt)
		ok, err := registry.Fixed("ok")
		require.NoError(err)
		msg.AddFixed(ok, false)
		msg.SetSequenceNumber(1)

		first := codec.Serialize(msg)
		require.Equal("940AY1AZFDFD\r", first)
		require.Equal(first, codec.Serialize(msg))
	})

	t.Run("raw replay is emitted verbatim", func(t *testing.T) {
		msg := RawMessage("941AY1AZFDFC")
		require.Equal("941AY1AZFDFC\r", codec.Serialize(msg))
	})

	t.Run("request resend has no sequence", func(t *testing.T) {
		mt, err := catalog.GetByCommand(CmdRequestSCResend)
		require.NoError(err)

		require.Equal("96AZFEF6\r", codec.Serialize(NewMessage(mt)))
	})
}

func TestCodecSerializeWithoutErrorDetection(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, false)
	mt, err := codec.Catalog().GetByCommand(CmdLoginResp)
	require.NoError(err)

	msg := NewMessage(mt)
	ok, err := codec.Registry().Fixed("ok")
	require.NoError(err)
	msg.AddFixed(ok, true)
	msg.SetSequenceNumber(3)

	// no AY/AZ trailer even when a sequence number is attached
	require.Equal("941\r", codec.Serialize(msg))
}

func TestCodecRoundTrip(t *testing.T) {
	require := require.New(t)

	codec := newTestCodec(t, true)
	catalog := codec.Catalog()
	registry := codec.Registry()

	mt, err := catalog.GetByCommand(CmdEndSessionResp)
	require.NoError(err)

	when := time.Date(2023, 10, 10, 12, 30, 45, 0, time.UTC)

	msg := NewMessage(mt)
	endSession, err := registry.Fixed("end_session")
	require.NoError(err)
	txDate, err := registry.Fixed("transaction_date")
	require.NoError(err)
	institution, err := registry.Var("institution_id")
	require.NoError(err)
	patron, err := registry.Var("patron_id")
	require.NoError(err)

	msg.AddFixed(endSession, true)
	msg.AddFixed(txDate, when)
	msg.AddVar(institution, "demo")
	msg.AddVar(patron, "patron1")
	msg.SetSequenceNumber(4)

	wire := codec.Serialize(msg)

	parsed, err := codec.Parse(wire)
	require.NoError(err)
	require.Equal(CmdEndSessionResp, parsed.Command())
	require.Equal(4, parsed.SequenceNumber())
	require.True(VerifyChecksum(parsed.Text()))

	end, _ := parsed.FixedValue("end_session")
	require.Equal("Y", end)

	date, _ := parsed.FixedValue("transaction_date")
	require.Equal("20231010    123045", date)

	inst, _ := parsed.VarValue("institution_id")
	require.Equal("demo", inst)
}

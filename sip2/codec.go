package sip2

import (
	"fmt"
	"strings"

	"github.com/libstack/go-sip2/logger"
)

// DefaultTerminator is the default SIP2 line terminator (carriage return).
const DefaultTerminator = "\r"

// CodecConfig carries the codec's wire-level settings.
type CodecConfig struct {
	// ErrorDetection enables the AY/AZ sequence and checksum trailer on
	// serialized messages and trailer peeling on parse.
	ErrorDetection bool
	// Terminator is the line terminator appended by Serialize. Defaults to
	// carriage return.
	Terminator string
	// Logger receives degraded-mode warnings. Defaults to the package
	// default logger.
	Logger logger.Logger
}

// Codec parses raw SIP2 lines into Messages and serializes Messages back
// into wire text. A Codec is safe for concurrent use: the registry and
// catalog it holds are immutable.
type Codec struct {
	registry       *Registry
	catalog        *Catalog
	errorDetection bool
	terminator     string
	logger         logger.Logger
}

// NewCodec creates a Codec over the given registry and catalog.
func NewCodec(registry *Registry, catalog *Catalog, cfg CodecConfig) *Codec {
	if cfg.Terminator == "" {
		cfg.Terminator = DefaultTerminator
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	return &Codec{
		registry:       registry,
		catalog:        catalog,
		errorDetection: cfg.ErrorDetection,
		terminator:     cfg.Terminator,
		logger:         cfg.Logger,
	}
}

// Registry returns the field registry the codec resolves tags against.
func (c *Codec) Registry() *Registry { return c.registry }

// Catalog returns the message type catalog the codec parses against.
func (c *Codec) Catalog() *Catalog { return c.catalog }

// ErrorDetection reports whether the AY/AZ trailer is enabled.
func (c *Codec) ErrorDetection() bool { return c.errorDetection }

// Terminator returns the configured line terminator.
func (c *Codec) Terminator() string { return c.terminator }

// Parse decodes one raw line (with or without its trailing terminator) into
// a structured Message.
//
// Fixed fields are sliced positionally before the remaining text is split on
// '|': fixed fields carry no delimiter and may contain characters that look
// like tags. Unknown variable tags are skipped so that newer terminals can
// send fields this server does not know about.
func (c *Codec) Parse(raw string) (*Message, error) {
	raw = strings.TrimSuffix(raw, c.terminator)

	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMessageTooShort, raw)
	}

	mtype, err := c.catalog.GetByCommand(raw[:2])
	if err != nil {
		return nil, err
	}

	msg := NewMessage(mtype)
	msg.text = raw

	txt := raw[2:]
	if c.errorDetection {
		txt = c.peelTrailer(msg, txt)
	}

	// fixed fields first, positionally by declared length
	for _, f := range mtype.Fixed {
		n := f.Length
		if n > len(txt) {
			n = len(txt)
		}
		msg.appendFixedRaw(f, txt[:n])
		txt = txt[n:]
	}

	for _, part := range strings.Split(txt, "|") {
		if len(part) < 2 {
			continue
		}
		field, err := c.registry.VarByTag(part[:2])
		if err != nil {
			c.logger.Debug("skipping unknown variable field tag",
				"tag", part[:2], "command", mtype.Command)
			continue
		}
		msg.appendVarRaw(field, part[2:])
	}

	return msg, nil
}

// peelTrailer strips a trailing AZ<4-hex> checksum and AY<digit> sequence
// number from txt, recording them on msg. A missing trailer is allowed
// (degraded mode) and only logged.
func (c *Codec) peelTrailer(msg *Message, txt string) string {
	if n := len(txt); n >= 6 && txt[n-6:n-4] == "AZ" {
		msg.checksum = txt[n-4:]
		txt = txt[:n-6]
	}
	if n := len(txt); n >= 3 && txt[n-3:n-1] == "AY" && txt[n-1] >= '0' && txt[n-1] <= '9' {
		msg.seq = int(txt[n-1] - '0')
		txt = txt[:n-3]
	}

	if msg.checksum == "" {
		c.logger.Warn("error detection is enabled but the message carries no checksum trailer",
			"command", msg.Command())
	}

	return txt
}

// Serialize renders a Message into wire text, terminator included. The body
// (without terminator) is memoized on the message; serializing twice returns
// identical bytes, and replayed raw messages are emitted verbatim.
func (c *Codec) Serialize(m *Message) string {
	if m.text != "" {
		return m.text + c.terminator
	}

	var b strings.Builder
	b.WriteString(m.mtype.Command)

	for _, fv := range m.fixed {
		b.WriteString(fv.Value)
	}
	for _, vv := range m.vars {
		b.WriteString(vv.Field.Tag)
		b.WriteString(vv.Value)
		b.WriteByte('|')
	}

	if c.errorDetection {
		if m.seq >= 0 {
			b.WriteString("AY")
			b.WriteByte(byte('0' + m.seq%10))
		}
		b.WriteString("AZ")
		m.checksum = ComputeChecksum(b.String())
		b.WriteString(m.checksum)
	}

	m.text = b.String()

	return m.text + c.terminator
}

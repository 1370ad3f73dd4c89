package sip2

// FixedValue is one positional fixed-field value inside a Message.
type FixedValue struct {
	Field *FixedField
	Value string
}

// VarValue is one variable-field value inside a Message.
type VarValue struct {
	Field *VarField
	Value string
}

// Message is the structured form of one SIP2 request or response. Inbound
// messages are produced by Codec.Parse; outbound messages are assembled from
// a MessageType and field values, then serialized exactly once (the wire
// text is memoized).
type Message struct {
	mtype    *MessageType
	fixed    []FixedValue
	vars     []VarValue
	seq      int // -1 when no sequence number is attached
	checksum string
	text     string // memoized wire form, without line terminator
}

// NewMessage creates an empty outbound message of the given type.
func NewMessage(mt *MessageType) *Message {
	return &Message{mtype: mt, seq: -1}
}

// RawMessage wraps already-serialized wire text, used to replay a stored
// response verbatim (resend handling). The text must not include the line
// terminator.
func RawMessage(text string) *Message {
	return &Message{seq: -1, text: text}
}

// Command returns the 2-digit command code, or the first two characters of
// the raw text for replayed messages.
func (m *Message) Command() string {
	if m.mtype != nil {
		return m.mtype.Command
	}
	if len(m.text) >= 2 {
		return m.text[:2]
	}
	return ""
}

// Type returns the message type descriptor, nil for replayed raw messages.
func (m *Message) Type() *MessageType { return m.mtype }

// AddFixed appends a fixed field value. The field's transform runs first,
// then the value is padded or truncated to the declared width.
func (m *Message) AddFixed(f *FixedField, v any) {
	value := formatValue(v)
	if f.Transform != nil {
		value = f.Transform(v)
	}
	m.fixed = append(m.fixed, FixedValue{Field: f, Value: f.pad(value)})
}

// AddVar appends a variable field value, applying the field's transform and
// optional length constraint.
func (m *Message) AddVar(f *VarField, v any) {
	value := formatValue(v)
	if f.Transform != nil {
		value = f.Transform(v)
	}
	m.vars = append(m.vars, VarValue{Field: f, Value: f.pad(value)})
}

// appendFixedRaw stores an already-sliced fixed value from the wire without
// transforming or re-padding it.
func (m *Message) appendFixedRaw(f *FixedField, value string) {
	m.fixed = append(m.fixed, FixedValue{Field: f, Value: value})
}

// appendVarRaw stores an already-split variable value from the wire.
func (m *Message) appendVarRaw(f *VarField, value string) {
	m.vars = append(m.vars, VarValue{Field: f, Value: value})
}

// FixedValue returns the value of the named fixed field.
func (m *Message) FixedValue(name string) (string, bool) {
	for _, fv := range m.fixed {
		if fv.Field.Name == name {
			return fv.Value, true
		}
	}
	return "", false
}

// VarValue returns the first value of the named variable field.
func (m *Message) VarValue(name string) (string, bool) {
	for _, vv := range m.vars {
		if vv.Field.Name == name {
			return vv.Value, true
		}
	}
	return "", false
}

// VarValues returns every value of the named variable field, in wire order.
func (m *Message) VarValues(name string) []string {
	var out []string
	for _, vv := range m.vars {
		if vv.Field.Name == name {
			out = append(out, vv.Value)
		}
	}
	return out
}

// FixedValues returns the ordered fixed field values.
func (m *Message) FixedValues() []FixedValue { return m.fixed }

// Vars returns the ordered variable field values.
func (m *Message) Vars() []VarValue { return m.vars }

// SequenceNumber returns the attached sequence digit, or -1 when absent.
func (m *Message) SequenceNumber() int { return m.seq }

// SetSequenceNumber attaches a sequence digit (0-9) for the trailer.
// Passing -1 clears it.
func (m *Message) SetSequenceNumber(n int) { m.seq = n }

// Checksum returns the 4-hex checksum peeled from an inbound message, or the
// one computed during serialization. Empty when error detection is off.
func (m *Message) Checksum() string { return m.checksum }

// Text returns the memoized wire form (without line terminator), empty if
// the message has not been serialized or parsed yet.
func (m *Message) Text() string { return m.text }

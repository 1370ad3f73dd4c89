package server

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a server.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// ConnActiveGauge indicates the number of currently connected terminals.
	ConnActiveGauge atomic.Int64
	// ConnTotalCount indicates the number of accepted connections.
	ConnTotalCount atomic.Uint64
	// ConnRejectedCount indicates the number of connections rejected by the
	// concurrent connection cap.
	ConnRejectedCount atomic.Uint64

	// RequestCount indicates the number of messages received.
	RequestCount atomic.Uint64
	// ResponseCount indicates the number of responses sent.
	ResponseCount atomic.Uint64
	// SuppressedCount indicates the number of requests answered with silence.
	SuppressedCount atomic.Uint64

	// ChecksumErrCount indicates the number of checksum failures.
	ChecksumErrCount atomic.Uint64
	// SequenceErrCount indicates the number of sequence failures.
	SequenceErrCount atomic.Uint64
	// ParseErrCount indicates the number of unparseable messages.
	ParseErrCount atomic.Uint64
	// ResendCount indicates the number of resend requests served.
	ResendCount atomic.Uint64
}

func (m *Metrics) incConnActiveGauge() {
	m.ConnActiveGauge.Add(1)
}

func (m *Metrics) decConnActiveGauge() {
	m.ConnActiveGauge.Add(-1)
}

func (m *Metrics) incConnTotalCount() {
	m.ConnTotalCount.Add(1)
}

func (m *Metrics) incConnRejectedCount() {
	m.ConnRejectedCount.Add(1)
}

func (m *Metrics) incRequestCount() {
	m.RequestCount.Add(1)
}

func (m *Metrics) incResponseCount() {
	m.ResponseCount.Add(1)
}

func (m *Metrics) incSuppressedCount() {
	m.SuppressedCount.Add(1)
}

func (m *Metrics) incChecksumErrCount() {
	m.ChecksumErrCount.Add(1)
}

func (m *Metrics) incSequenceErrCount() {
	m.SequenceErrCount.Add(1)
}

func (m *Metrics) incParseErrCount() {
	m.ParseErrCount.Add(1)
}

func (m *Metrics) incResendCount() {
	m.ResendCount.Add(1)
}

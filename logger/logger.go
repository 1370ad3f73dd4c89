// Package logger defines the structured logging surface shared by the wire
// codec, the server and the datastore. Components take a Logger so embedders
// can route protocol traces into their own logging setup; everything defaults
// to the process-wide logger from GetLogger.
package logger

// Level is the minimum severity a logger emits.
type Level int8

const (
	// DebugLevel enables per-message protocol traces, raw frames included.
	DebugLevel Level = iota - 1
	// InfoLevel is the default, covering connection and server lifecycle.
	InfoLevel
	// WarnLevel covers recoverable protocol trouble such as checksum or
	// sequence failures.
	WarnLevel
	// ErrorLevel covers failed exchanges and datastore errors.
	ErrorLevel
)

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// Logger is a leveled structured logger taking alternating key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// With returns a child logger that prepends the given key-value pairs
	// to every record. The child shares the parent's level.
	With(keysAndValues ...any) Logger
	// Level reports the minimum enabled level.
	Level() Level
	// SetLevel changes the minimum enabled level, affecting children
	// created by With as well.
	SetLevel(level Level)
}

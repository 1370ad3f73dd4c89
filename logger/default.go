package logger

import "sync"

var (
	mu  sync.RWMutex
	std Logger = NewSlog(InfoLevel)
)

// GetLogger returns the process-wide logger used when a component is built
// without an explicit one.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()

	return std
}

// SetLogger replaces the process-wide logger. Components already holding the
// previous logger keep it.
func SetLogger(l Logger) {
	if l == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	std = l
}

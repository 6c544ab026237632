package logging

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogrusAdapter("info", "text")
)

// GetLogger returns the package default logger. Packages that keep a
// package-level logger initialize it from here and accept a replacement
// through their own SetLogger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the package default logger. A nil logger is ignored.
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

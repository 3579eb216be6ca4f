// Package errors provides the structured error types and the collector used
// to accumulate absorbed per-template and per-record failures for
// end-of-run reporting.
package errors

import "sync"

// ErrorCollector collects absorbed errors from registry builds and batch
// evaluation. Safe for concurrent use by evaluation workers.
type ErrorCollector struct {
	errors []*CovscanError
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]*CovscanError, 0),
	}
}

// Add adds an error to the collector. Nil errors are ignored.
func (ec *ErrorCollector) Add(err *CovscanError) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// Errors returns a copy of all collected errors.
func (ec *ErrorCollector) Errors() []*CovscanError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]*CovscanError, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// ByType returns collected errors of the given type.
func (ec *ErrorCollector) ByType(t ErrorType) []*CovscanError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var result []*CovscanError
	for _, err := range ec.errors {
		if err.Type == t {
			result = append(result, err)
		}
	}
	return result
}

// HasErrors returns true if any errors were collected.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Count returns the number of collected errors.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Clear clears all collected errors.
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

package params

import (
	"fmt"
	"sync"
	"time"
)

// ParameterError reports an out-of-range, incompatible, or unknown
// parameter mutation (spec.md §7). It is never returned to a pure query
// caller; mutation entry points return it so the caller can choose to
// surface it, and it is also appended to the instance's ErrorLog.
type ParameterError struct {
	Key     string
	Message string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter error [%s]: %s", e.Key, e.Message)
}

// StateError reports an invalid state mutation: ownship not set before
// traffic, or mixing geodetic and Cartesian positions within one set
// (spec.md §7).
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return "state error: " + e.Message }

// LogSeverity classifies an ErrorLog entry.
type LogSeverity int

const (
	SeverityInfo LogSeverity = iota
	SeverityWarning
	SeverityError
)

func (s LogSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// LogEntry is one diagnostic captured by an ErrorLog: a ParameterError, a
// StateError, a ProjectionWarning, or a SaturationInfo (spec.md §7's
// error taxonomy).
type LogEntry struct {
	Time     time.Time
	Severity LogSeverity
	Message  string
}

// ErrorLog is the small per-instance capability that replaces the
// source's ErrorReporter mixin (spec.md §9 Design Note): a plain struct
// field rather than an inherited interface, queried by the façade's
// Log() method and cleared at the caller's discretion between reports.
type ErrorLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewErrorLog returns an empty ErrorLog.
func NewErrorLog() *ErrorLog { return &ErrorLog{} }

func (l *ErrorLog) add(sev LogSeverity, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Time: time.Now(), Severity: sev, Message: msg})
}

// ParameterRejected records a rejected parameter mutation.
func (l *ErrorLog) ParameterRejected(err *ParameterError) {
	l.add(SeverityError, err.Error())
}

// ProjectionWarning records a non-fatal projection-accuracy diagnostic
// (spec.md §4.1/§7): computation continues with the degraded projection.
func (l *ErrorLog) ProjectionWarning(aircraftID string, rangeMeters float64) {
	l.add(SeverityWarning, fmt.Sprintf("traffic %s lies %.0fm from ownship, beyond the projection accuracy radius", aircraftID, rangeMeters))
}

// SaturationInfo records that a dimension's corrective region saturated
// with no recovery found.
func (l *ErrorLog) SaturationInfo(dimension string) {
	l.add(SeverityInfo, fmt.Sprintf("%s bands saturated in the corrective region; no recovery found", dimension))
}

// StateInvalid records a state error that will surface as INVALID/NaN
// results on the next query.
func (l *ErrorLog) StateInvalid(err *StateError) {
	l.add(SeverityError, err.Error())
}

// Entries returns a snapshot of the log's contents.
func (l *ErrorLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *ErrorLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

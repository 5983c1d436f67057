// Package diag collects errors and warnings raised during setup and while a
// run is in progress. Messages are buffered until the sink is activated, at
// which point everything held is delivered through the configured callbacks
// and further messages pass through immediately. The host driver decides when
// activation happens, so setup code can report freely without worrying about
// whether output is wanted yet.
package diag

import "fmt"

// Sink is a buffered queue of error and warning messages.
type Sink struct {
	errors      []string
	warnings    []string
	onError     func(msg string)
	onWarning   func(msg string)
	active      bool
	nextError   int
	nextWarning int
}

// NewSink builds a sink that delivers messages through the two callbacks once
// activated. Either callback may be nil, in which case delivery for that
// severity is dropped (messages are still recorded).
func NewSink(onError, onWarning func(msg string)) *Sink {
	if onError == nil {
		onError = func(string) {}
	}
	if onWarning == nil {
		onWarning = func(string) {}
	}
	return &Sink{onError: onError, onWarning: onWarning}
}

// Errorf records an error. If the sink is active it is delivered immediately.
func (s *Sink) Errorf(format string, args ...any) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
	if s.active {
		s.onError(s.errors[len(s.errors)-1])
		s.nextError = len(s.errors)
	}
}

// Warnf records a warning. If the sink is active it is delivered immediately.
func (s *Sink) Warnf(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
	if s.active {
		s.onWarning(s.warnings[len(s.warnings)-1])
		s.nextWarning = len(s.warnings)
	}
}

// Errors returns every error recorded so far, delivered or not.
func (s *Sink) Errors() []string { return s.errors }

// Warnings returns every warning recorded so far, delivered or not.
func (s *Sink) Warnings() []string { return s.warnings }

// HasErrors reports whether any error has been recorded.
func (s *Sink) HasErrors() bool { return len(s.errors) > 0 }

// Active reports whether messages are currently passed through on arrival.
func (s *Sink) Active() bool { return s.active }

// Flush delivers held messages without changing the activation state.
func (s *Sink) Flush() {
	for s.nextError < len(s.errors) {
		s.onError(s.errors[s.nextError])
		s.nextError++
	}
	for s.nextWarning < len(s.warnings) {
		s.onWarning(s.warnings[s.nextWarning])
		s.nextWarning++
	}
}

// Activate switches the sink to pass-through mode and flushes the backlog.
func (s *Sink) Activate() {
	s.active = true
	s.Flush()
}

// Deactivate returns the sink to buffering mode; messages still accumulate.
func (s *Sink) Deactivate() { s.active = false }

// Clear drops all recorded messages without delivering them.
func (s *Sink) Clear() {
	s.errors = nil
	s.warnings = nil
	s.nextError = 0
	s.nextWarning = 0
}

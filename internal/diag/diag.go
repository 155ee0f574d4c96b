// Package diag implements the DiagnosticEngine sink spec.md keeps out of
// the CORE ("Diagnostic rendering (a DiagnosticEngine sink)"). The core
// never writes directly to stderr (spec §7): every resolver and the
// planner report through an Engine.
package diag

import (
	"fmt"
	"log"
)

// Severity is the level of a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is the unit an Engine accepts.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// Engine is the sink every resolver/planner reports through. Implementors
// may be thread-safe, but the CORE never relies on that (planning is
// single-threaded, spec §5).
type Engine interface {
	Report(d Diagnostic)
	ErrorCount() int
}

// LogEngine reports diagnostics through a *log.Logger, the ambient logging
// choice distri's batch scheduler uses throughout (internal/batch.Ctx.Log).
type LogEngine struct {
	Log     *log.Logger
	errors  int
}

func NewLogEngine(l *log.Logger) *LogEngine { return &LogEngine{Log: l} }

func (e *LogEngine) Report(d Diagnostic) {
	if d.Severity == Error {
		e.errors++
	}
	e.Log.Printf("%s: %s", d.Severity, d.Message)
}

func (e *LogEngine) ErrorCount() int { return e.errors }

// CollectingEngine accumulates diagnostics in memory instead of printing
// them, so resolver/planner tests can assert on exactly what was reported
// instead of scraping stdout.
type CollectingEngine struct {
	Diagnostics []Diagnostic
}

func NewCollectingEngine() *CollectingEngine { return &CollectingEngine{} }

func (e *CollectingEngine) Report(d Diagnostic) {
	e.Diagnostics = append(e.Diagnostics, d)
}

func (e *CollectingEngine) ErrorCount() int {
	n := 0
	for _, d := range e.Diagnostics {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// Errorf reports a formatted error diagnostic, mirroring the
// fmt.Errorf-style call sites throughout the resolvers.
func Errorf(e Engine, format string, args ...interface{}) {
	e.Report(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// Warnf reports a formatted warning diagnostic.
func Warnf(e Engine, format string, args ...interface{}) {
	e.Report(Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

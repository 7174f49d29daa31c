// Package diag records warnings and errors found while classifying blocks.
//
// Warnings are advisory. Any error blocks descriptor emission, but
// classification keeps going so one run reports every problem.
package diag

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind classifies a diagnostic.
type Kind string

const (
	NamingConvention       Kind = "NamingConvention"
	MissingDescription     Kind = "MissingDescription"
	Visibility             Kind = "Visibility"
	ArityMismatch          Kind = "ArityMismatch"
	TypeMismatch           Kind = "TypeMismatch"
	UnresolvableType       Kind = "UnresolvableType"
	MissingPairing         Kind = "MissingPairing"
	DuplicateAccessor      Kind = "DuplicateAccessor"
	ContinuationMisuse     Kind = "ContinuationMisuse"
	ClassLoad              Kind = "ClassLoad"
	AmbiguousDefaultOption Kind = "AmbiguousDefaultOption"
	PackageConsistency     Kind = "PackageConsistency"
)

// Diagnostic is one reported problem attached to a declaration.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Pos      token.Position
	Message  string
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s [%s]", d.Pos, d.Severity, d.Message, d.Kind)
	}
	return fmt.Sprintf("%s: %s [%s]", d.Severity, d.Message, d.Kind)
}

// Reporter accumulates diagnostics. It is safe for concurrent use.
type Reporter struct {
	mu     sync.Mutex
	diags  []Diagnostic
	logger *zap.Logger
}

// NewReporter returns a reporter that also logs every diagnostic.
// A nil logger disables logging.
func NewReporter(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

// Warn records a warning.
func (r *Reporter) Warn(kind Kind, pos token.Position, format string, args ...any) {
	r.report(Diagnostic{Severity: Warning, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Error records an error.
func (r *Reporter) Error(kind Kind, pos token.Position, format string, args ...any) {
	r.report(Diagnostic{Severity: Error, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (r *Reporter) report(d Diagnostic) {
	r.mu.Lock()
	r.diags = append(r.diags, d)
	r.mu.Unlock()

	fields := []zap.Field{zap.String("kind", string(d.Kind))}
	if d.Pos.IsValid() {
		fields = append(fields, zap.String("pos", d.Pos.String()))
	}
	if d.Severity == Error {
		r.logger.Error(d.Message, fields...)
		return
	}
	r.logger.Warn(d.Message, fields...)
}

// Diagnostics returns a copy of everything recorded, ordered by position.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Count returns the number of diagnostics with the given severity.
func (r *Reporter) Count(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.diags {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error was recorded.
func (r *Reporter) HasErrors() bool {
	return r.Count(Error) > 0
}

// Err returns nil when no error was recorded, otherwise a *ReportError.
func (r *Reporter) Err() error {
	var errs []Diagnostic
	for _, d := range r.Diagnostics() {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ReportError{Diagnostics: errs}
}

// ReportError is returned when classification recorded errors.
type ReportError struct {
	Diagnostics []Diagnostic
}

const maxListed = 5

func (e *ReportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s) reported", len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		if i == maxListed {
			fmt.Fprintf(&b, "\n  ... and %d more", len(e.Diagnostics)-maxListed)
			break
		}
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}

// Has reports whether e contains a diagnostic of the given kind.
func (e *ReportError) Has(kind Kind) bool {
	for _, d := range e.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

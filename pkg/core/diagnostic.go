package core

import "time"

// Diagnostic describes a failure that was absorbed instead of propagated:
// an index that could not be loaded, a preference that could not be saved.
// Degraded paths report one so a supervisor can surface aggregate health.
type Diagnostic struct {
	Component string    `json:"component"`
	Op        string    `json:"op"`
	Err       string    `json:"error"`
	Time      time.Time `json:"time"`
}

// NewDiagnostic builds a Diagnostic stamped with the current time.
func NewDiagnostic(component, op string, err error) Diagnostic {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Diagnostic{
		Component: component,
		Op:        op,
		Err:       msg,
		Time:      time.Now().UTC(),
	}
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// NopReporter discards diagnostics.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

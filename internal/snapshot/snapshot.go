// Package snapshot is the report-generation engine: it runs every selected
// section concurrently against a generation backend and assembles the
// per-section outcomes into one Snapshot in which each section succeeds or
// fails on its own.
package snapshot

import "time"

// Status tags which arm of a Result is populated.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one section: either validated data or an error
// message. Build it with Success or Failure so exactly one arm is set.
type Result struct {
	Status Status `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success returns a successful Result carrying data.
func Success(data any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

// Failure returns a failed Result carrying a human-readable message.
func Failure(msg string) Result {
	return Result{Status: StatusError, Error: msg}
}

// OK reports whether r is the success arm.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Request is one report-generation call as seen by the engine. Intake layers
// trim and validate Subject before building it.
type Request struct {
	// Subject is the name of the entity being analyzed. Required.
	Subject string

	// Sections are the requested section ids. Nil or empty selects all.
	Sections []string

	// Model is the backend model id. Empty selects the configured default.
	Model string
}

// Snapshot is the assembled report. Sections has exactly one entry per
// resolved section, keyed by section id.
type Snapshot struct {
	Subject     string            `json:"subject"`
	Model       string            `json:"modelIdentifier"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Sections    map[string]Result `json:"sections"`
}

// Failed returns the ids of sections that ended in error.
func (s Snapshot) Failed() []string {
	var ids []string
	for id, r := range s.Sections {
		if !r.OK() {
			ids = append(ids, id)
		}
	}
	return ids
}

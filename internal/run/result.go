// Package run orchestrates the scraping and fetch pipelines: it iterates
// competitions, seasons, teams and players, invoking the scrapers or the
// API provider and forwarding records to the storage collaborators.
package run

import "fmt"

// Result tracks counts and errors from one pipeline run. A single bad
// page or denied request lands in Errors and never aborts the run.
type Result struct {
	Teams    int
	Players  int
	Profiles int
	Files    int
	Errors   []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.Teams += other.Teams
	r.Players += other.Players
	r.Profiles += other.Profiles
	r.Files += other.Files
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("teams=%d players=%d profiles=%d files=%d errors=%d",
		r.Teams, r.Players, r.Profiles, r.Files, len(r.Errors))
}

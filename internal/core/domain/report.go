package domain

import "time"

// BuildOptions tune an in-process build.
type BuildOptions struct {
	// Timeout bounds each compiler, archiver and linker invocation. Zero disables it.
	Timeout time.Duration
}

// StepKind names the kind of work a build step performed.
type StepKind string

const (
	// StepCompile turns one translation unit into an object file.
	StepCompile StepKind = "compile"
	// StepArchive bundles a library's objects into a static archive.
	StepArchive StepKind = "archive"
	// StepLink links an executable.
	StepLink StepKind = "link"
)

// StepStatus represents the outcome of a build step.
type StepStatus string

const (
	// StepStatusCompleted indicates the step ran and succeeded.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusCached indicates the step was skipped because nothing it reads changed.
	StepStatusCached StepStatus = "cached"
	// StepStatusFailed indicates the step ran and failed.
	StepStatusFailed StepStatus = "failed"
)

// StepResult records one step of an in-process build.
type StepResult struct {
	Kind   StepKind
	Target string
	// Input is the source of a compile step and empty otherwise.
	Input  string
	Output string
	Status StepStatus
}

// BuildReport is the ordered record of every step an in-process build took.
type BuildReport struct {
	Steps []StepResult
}

// Record appends a step result.
func (r *BuildReport) Record(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Count returns the number of steps of the given kind and status.
func (r *BuildReport) Count(kind StepKind, status StepStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Kind == kind && s.Status == status {
			n++
		}
	}
	return n
}

// Artifacts returns the outputs of successful archive and link steps, in order.
func (r *BuildReport) Artifacts() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Kind != StepCompile && s.Status == StepStatusCompleted {
			out = append(out, s.Output)
		}
	}
	return out
}

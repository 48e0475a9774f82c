package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the steps of a build.
type Telemetry interface {
	// Record starts a new vertex for a step.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one recorded step.
type Vertex interface {
	// Stdout returns a writer capturing the step's standard output.
	Stdout() io.Writer
	// Stderr returns a writer capturing the step's error output.
	Stderr() io.Writer
	// Complete marks the step as finished, failed if err is non-nil.
	Complete(err error)
	// Cached marks the step as skipped because nothing it reads changed.
	Cached()
}

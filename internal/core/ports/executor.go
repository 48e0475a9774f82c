package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running toolchain commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command, whose first element is the program, and
	// streams its output to stdout and stderr. A nil writer discards the stream.
	//
	// It returns an error if the command cannot be started or exits nonzero.
	Execute(ctx context.Context, command []string, stdout, stderr io.Writer) error

	// Output runs the command and returns its standard output.
	Output(ctx context.Context, command []string) ([]byte, error)
}

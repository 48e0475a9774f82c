// Package shell provides the subprocess executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// stderrTailLimit bounds how much captured stderr is attached to an Output error.
const stderrTailLimit = 4096

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command and blocks until it exits. Every line the command
// prints is logged: stdout at info level, stderr at warn level. Non-nil
// stdout and stderr writers receive a copy of the raw streams.
func (e *Executor) Execute(ctx context.Context, command []string, stdout, stderr io.Writer) error {
	cmd, err := e.command(ctx, command)
	if err != nil {
		return err
	}

	stdoutLog := &logWriter{logger: e.logger, level: "info"}
	stderrLog := &logWriter{logger: e.logger, level: "warn"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	cmd.Stdout = tee(stdoutLog, stdout)
	cmd.Stderr = tee(stderrLog, stderr)

	return commandError(cmd.Run(), command, nil)
}

// Output runs the command and returns its standard output. Standard error is
// captured and attached to the returned error.
func (e *Executor) Output(ctx context.Context, command []string) ([]byte, error) {
	cmd, err := e.command(ctx, command)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), commandError(err, command, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}

func (e *Executor) command(ctx context.Context, command []string) (*exec.Cmd, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, zerr.Wrap(domain.ErrInvalidCommand, "empty command")
	}

	name := command[0]
	args := command[1:]

	// Resolve the executable path using PATH. If the lookup fails, exec reports it.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, os.Environ()); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // toolchain command built from the build graph

	// exec.CommandContext sets Args[0] to the executable path.
	// Keep the name the command was invoked with.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	return cmd, nil
}

func commandError(err error, command []string, stderr []byte) error {
	if err == nil {
		return nil
	}

	exitCode := -1 // Unknown or signal
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	wrapped = zerr.With(wrapped, "command", strings.Join(command, " "))
	if tail := strings.TrimSpace(string(lastBytes(stderr, stderrTailLimit))); tail != "" {
		wrapped = zerr.With(wrapped, "stderr", tail)
	}
	return wrapped
}

func lastBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

func tee(log io.Writer, w io.Writer) io.Writer {
	if w == nil {
		return log
	}
	return io.MultiWriter(log, w)
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	// Scan for newlines
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])

		// Advance buffer
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

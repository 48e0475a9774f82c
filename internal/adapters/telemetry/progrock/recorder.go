// Package progrock records build steps as progrock vertices.
package progrock

import (
	"context"
	"strconv"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/pkgman/internal/core/ports"
)

// Recorder implements ports.Telemetry on top of a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu    sync.Mutex
	names map[string]int
}

// New creates a Recorder writing to an in-memory tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:     w,
		rec:   progrock.NewRecorder(w),
		names: make(map[string]int),
	}
}

// Record starts a vertex for a build step. Repeated names get distinct
// vertices so a rebuild of the same unit within one run is not merged.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(r.digestFor(name), name)
	return ctx, &Vertex{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) digestFor(name string) digest.Digest {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.names[name]
	r.names[name] = n + 1
	if n == 0 {
		return digest.FromString(name)
	}
	return digest.FromString(name + "#" + strconv.Itoa(n))
}

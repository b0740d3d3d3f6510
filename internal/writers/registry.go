// internal/writers/registry.go
package writers

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/biogo/hts/sam"

	"meclust/internal/cluster"
)

// Options configures a summary writer.
type Options struct {
	Format string
	Sort   bool // buffer and sort (text/json only)
	Header bool // TSV header line

	// SAM/BAM only.
	SAMHeader *sam.Header
	Version   string
}

// Factory consumes summaries from in until it is closed.
type Factory func(out io.Writer, in <-chan cluster.Summary, o Options) error

var factories = map[string]Factory{}

// Register installs fn for format (idempotent last-wins).
func Register(format string, fn Factory) { factories[format] = fn }

// Registered lists the known formats in sorted order.
func Registered() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Start spins up a writer goroutine for o.Format. The error channel yields
// exactly one value once the input channel is closed and drained.
func Start(out io.Writer, o Options, bufSize int) (chan<- cluster.Summary, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan cluster.Summary, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, ok := factories[o.Format]
		if !ok {
			for range in {
			}
			errCh <- fmt.Errorf("unknown output format %q (no writer registered)", o.Format)
			return
		}
		err := fn(out, in, o)
		// Keep the producer unblocked if the writer bailed out early.
		for range in {
		}
		errCh <- err
	}()

	return in, errCh
}

// Sink feeds a writer channel and satisfies cluster.Sink.
type Sink struct {
	ctx context.Context
	ch  chan<- cluster.Summary
}

// NewSink wraps ch; sends give up when ctx is done.
func NewSink(ctx context.Context, ch chan<- cluster.Summary) Sink {
	return Sink{ctx: ctx, ch: ch}
}

func (s Sink) Write(sum cluster.Summary) error {
	select {
	case s.ch <- sum:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

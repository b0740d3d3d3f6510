// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/biogo/hts/sam"

	"meclust/internal/config"
	"meclust/internal/logging"
	"meclust/internal/metrics"
	"meclust/internal/output"
	"meclust/internal/pretty"
	"meclust/internal/samio"
	"meclust/internal/scan"
	"meclust/internal/writers"
)

// Exit codes shared by every meclust command.
const (
	ExitOK        = 0
	ExitNoMatch   = 1
	ExitUsage     = 2
	ExitIO        = 3
	ExitCancelled = 130
)

type Options struct {
	Inputs []string
	Config *config.Config

	RunID   string
	Version string

	Quiet           bool // no run summary on stderr
	Verbose         bool // per-reason breakdown in the summary
	NoMatchExitCode int
}

// ResolveFormat picks the output format: explicit, else from the output
// path suffix, else SAM.
func ResolveFormat(o config.OutputConfig) string {
	if o.Format != "" {
		return o.Format
	}
	if f := writers.FormatFromPath(o.Path); f != "" {
		return f
	}
	return output.FormatSAM
}

// Run scans every input in order and writes the emitted clusters.
func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	log *logging.Logger,
	reg *metrics.Registry,
) int {
	cfg := o.Config
	if log == nil {
		log = logging.NopLogger()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	srcs := make([]*samio.Source, 0, len(o.Inputs))
	defer func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}()
	headers := make([]*sam.Header, 0, len(o.Inputs))
	for _, in := range o.Inputs {
		src, err := samio.Open(in)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitIO
		}
		srcs = append(srcs, src)
		headers = append(headers, src.Header())
	}
	inHeader, err := samio.MergeHeaders(headers...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}

	if cfg.Metrics.Addr != "" {
		stop, err := serveMetrics(cfg.Metrics.Addr, reg, log)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitIO
		}
		defer stop()
	}

	dst, err := writers.OpenOutput(cfg.Output.Path, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	outw := bufio.NewWriter(dst)

	format := ResolveFormat(cfg.Output)
	inCh, writeErr := writers.Start(outw, writers.Options{
		Format:    format,
		Sort:      cfg.Output.Sort,
		Header:    cfg.Output.Header,
		SAMHeader: inHeader,
		Version:   o.Version,
	}, 64)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sc := scan.New(scan.Config{
		Window:     cfg.Cluster.Window,
		MinReads:   cfg.Cluster.MinReads,
		NamePrefix: cfg.Cluster.NamePrefix,
		Cluster:    cfg.ClusterSettings(),
	}, writers.NewSink(ctx, inCh), log, reg)

	log.Info("run started", "inputs", len(srcs), "format", format, "window", cfg.Cluster.Window)
	var perr error
	for _, src := range srcs {
		if perr = sc.ScanSource(ctx, src, cfg.Tags()); perr != nil {
			break
		}
	}

	close(inCh)
	st := sc.Stats()
	log.Info("run finished", "records", st.Records, "clusters", st.Emitted, "rejected", st.Rejections())

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return ExitIO
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return ExitIO
	}
	if e := dst.Close(); e != nil {
		fmt.Fprintln(stderr, e)
		return ExitIO
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return ExitCancelled
		}
		fmt.Fprintln(stderr, perr)
		return ExitIO
	}

	if !o.Quiet {
		_ = pretty.RenderSummary(stderr, st, pretty.Options{
			RunID:   o.RunID,
			Output:  cfg.Output.Path,
			Verbose: o.Verbose,
		})
	}
	if st.Emitted == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// serveMetrics exposes reg on addr until the returned stop is called.
func serveMetrics(addr string, reg *metrics.Registry, log *logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

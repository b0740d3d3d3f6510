// internal/scan/scan.go
package scan

import (
	"context"

	"meclust/internal/align"
	"meclust/internal/cluster"
	"meclust/internal/common"
	"meclust/internal/logging"
	"meclust/internal/metrics"
	"meclust/internal/samio"
)

// Drop reasons reported in Stats and metrics.
const (
	DropMinReads   = "min_reads"
	DropInvalidTag = "invalid_tag"
)

// Config controls the scan loop.
type Config struct {
	Window     int    // max distance from the last member's start
	MinReads   int    // clusters with fewer members are not written (>=1)
	NamePrefix string // emitted names are NamePrefix + ordinal
	Cluster    cluster.Config
}

// Stats summarizes one or more scanned inputs.
type Stats struct {
	Inputs   int
	Records  int
	Emitted  int
	Dropped  map[string]int
	Rejected map[string]int
}

// Rejections is the total number of refused offers.
func (s Stats) Rejections() int {
	n := 0
	for _, v := range s.Rejected {
		n += v
	}
	return n
}

// Scanner owns the naming counter and stats across inputs of one run.
type Scanner struct {
	cfg   Config
	sink  cluster.Sink
	log   *logging.Logger
	m     *metrics.Registry
	n     int
	stats Stats
}

// New returns a Scanner writing to sink. log and m may be nil.
func New(cfg Config, sink cluster.Sink, log *logging.Logger, m *metrics.Registry) *Scanner {
	if cfg.MinReads < 1 {
		cfg.MinReads = 1
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Scanner{
		cfg:  cfg,
		sink: sink,
		log:  log,
		m:    m,
		stats: Stats{
			Dropped:  map[string]int{},
			Rejected: map[string]int{},
		},
	}
}

// Stats returns a snapshot of the counters so far.
func (s *Scanner) Stats() Stats {
	out := s.stats
	out.Dropped = make(map[string]int, len(s.stats.Dropped))
	for k, v := range s.stats.Dropped {
		out.Dropped[k] = v
	}
	out.Rejected = make(map[string]int, len(s.stats.Rejected))
	for k, v := range s.stats.Rejected {
		out.Rejected[k] = v
	}
	return out
}

// Scan consumes records until the channel closes or ctx is done. The final
// open cluster is emitted on a clean end of input only.
func (s *Scanner) Scan(ctx context.Context, input string, records <-chan align.Record) error {
	return s.scan(ctx, input, records, nil)
}

// scan is Scan with a reader status: once records closes, readErr reports
// whether the input ended cleanly. A failed read discards the open cluster.
func (s *Scanner) scan(ctx context.Context, input string, records <-chan align.Record, readErr <-chan error) error {
	log := s.log.WithInput(input)
	s.stats.Inputs++
	cur := cluster.New(s.cfg.Cluster, log)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			rec align.Record
			ok  bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok = <-records:
		}
		if !ok {
			break
		}
		s.stats.Records++
		if s.m != nil {
			s.m.RecordRead(input)
		}

		if cur.WithinSearchArea(rec, s.cfg.Window) {
			v := cur.Offer(rec)
			if v == cluster.Accepted {
				continue
			}
			s.reject(v)
		}
		if err := s.close(cur, log); err != nil {
			return err
		}
		cur = cluster.New(s.cfg.Cluster, log)
		cur.Offer(rec)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if readErr != nil {
		if err := <-readErr; err != nil {
			log.Warn("read failed, open cluster discarded", "hits", cur.Len(), "error", err)
			return err
		}
	}
	return s.close(cur, log)
}

// ScanFile opens path with samio and scans it.
func (s *Scanner) ScanFile(ctx context.Context, path string, tags samio.Tags) error {
	src, err := samio.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	return s.ScanSource(ctx, src, tags)
}

// ScanSource streams an already opened source through Scan.
func (s *Scanner) ScanSource(ctx context.Context, src *samio.Source, tags samio.Tags) error {
	// The reader goroutine must stop when Scan returns early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recs, errc := samio.Stream(ctx, src, tags)
	return s.scan(ctx, src.Path(), recs, errc)
}

func (s *Scanner) reject(v cluster.Verdict) {
	s.stats.Rejected[v.String()]++
	if s.m == nil {
		return
	}
	s.m.RecordRejected(v.String())
	if v == cluster.RejectedTag {
		s.m.RecordTagError()
	}
}

func (s *Scanner) drop(reason string) {
	s.stats.Dropped[reason]++
	if s.m != nil {
		s.m.RecordDropped(reason)
	}
}

func (s *Scanner) close(c *cluster.Cluster, log *logging.Logger) error {
	if c.Empty() {
		return nil
	}
	if c.Len() < s.cfg.MinReads {
		log.Debug("dropping cluster below min reads", "hits", c.Len(), "min_reads", s.cfg.MinReads)
		s.drop(DropMinReads)
		return nil
	}
	name := common.ClusterID(s.cfg.NamePrefix, s.n+1)
	ok, err := c.Emit(name, s.sink)
	if err != nil {
		return err
	}
	if !ok {
		s.drop(DropInvalidTag)
		if s.m != nil {
			s.m.RecordTagError()
		}
		return nil
	}
	s.n++
	s.stats.Emitted++
	log.With("cluster", name).Debug("cluster written", "hits", c.Len(), "size", c.Size())
	if s.m != nil {
		s.m.RecordEmitted(c.Len(), c.Size())
	}
	return nil
}

// ForEachCluster scans one record stream with a fresh Scanner and calls
// visit for every emitted summary.
func ForEachCluster(
	ctx context.Context,
	cfg Config,
	records <-chan align.Record,
	visit func(cluster.Summary) error,
) (Stats, error) {
	s := New(cfg, cluster.SinkFunc(visit), nil, nil)
	err := s.Scan(ctx, "", records)
	return s.Stats(), err
}

package cluster

import (
	"errors"
	"fmt"
	"strconv"

	"meclust/internal/common"
	"meclust/internal/metag"
)

// Attribute keys of an emitted summary.
const (
	KeyClusterHits   = "CLUSTER_HITS"
	KeyClusterLength = "CLUSTER_LENGTH"
	KeyMobileHit     = "MOBILE_HIT"
	KeySplitCluster  = "SPLIT_CLUSTER"
	KeyUniqueHits    = "UNIQUE_HITS"
	KeyMultipleHits  = "MULTIPLE_HITS"
	KeyUnmappedHits  = "UNMAPPED_HITS"
	KeySampleCount   = "SAMPLECOUNT"
)

// Fixed fields of every summary record.
const (
	FlagForward = 0
	FlagReverse = 16
	MaxMapQ     = 255
	UnmappedRef = "*"
	AbsentQual  = "*"
)

// Sink receives one summary per emitted cluster.
type Sink interface {
	Write(Summary) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Summary) error

func (f SinkFunc) Write(s Summary) error { return f(s) }

// SummaryAttrs are the per-cluster statistics attached to a summary.
type SummaryAttrs struct {
	ClusterHits   int
	ClusterLength int
	MobileHit     string
	Split         bool
	UniqueHits    int
	MultipleHits  int
	UnmappedHits  int
	SampleCount   string
}

// Field is one rendered summary attribute.
type Field struct {
	Key   string
	Value string
}

// Fields renders the attributes as text, in key order.
func (a SummaryAttrs) Fields() []Field {
	return []Field{
		{KeyClusterHits, strconv.Itoa(a.ClusterHits)},
		{KeyClusterLength, strconv.Itoa(a.ClusterLength)},
		{KeyMobileHit, a.MobileHit},
		{KeySplitCluster, strconv.FormatBool(a.Split)},
		{KeyUniqueHits, strconv.Itoa(a.UniqueHits)},
		{KeyMultipleHits, strconv.Itoa(a.MultipleHits)},
		{KeyUnmappedHits, strconv.Itoa(a.UnmappedHits)},
		{KeySampleCount, a.SampleCount},
	}
}

// Summary is the synthetic alignment standing in for a whole cluster.
// Start is 1-based. Each Emit builds a new value.
type Summary struct {
	Name    string
	Ref     string
	Start   int
	Length  int
	Cigar   string
	Flags   int
	MapQ    int
	MateRef string
	TempLen int
	Seq     string
	Qual    string
	Attrs   SummaryAttrs
}

// Reverse reports whether the summary maps to the reverse strand.
func (s Summary) Reverse() bool { return s.Flags&FlagReverse != 0 }

// End is the last reference base covered, 1-based inclusive.
func (s Summary) End() int { return s.Start + s.Length - 1 }

// Emit summarizes the cluster under name and writes it to sink. A cluster
// whose first member carries an unusable mobile tag is logged and dropped;
// Emit then returns false with a nil error. Only sink failures are returned.
func (c *Cluster) Emit(name string, sink Sink) (bool, error) {
	if len(c.members) == 0 {
		return false, nil
	}
	s, err := c.Summarize(name)
	if err != nil {
		c.log.Error("could not write cluster: invalid mobile tag",
			"cluster", name, "read", c.members[0].Name, "error", err)
		return false, nil
	}
	if err := sink.Write(s); err != nil {
		return false, fmt.Errorf("write cluster %s: %w", name, err)
	}
	return true, nil
}

// ErrEmpty is returned when summarizing a cluster with no members.
var ErrEmpty = errors.New("cluster is empty")

// Summarize builds the synthetic summary record for the cluster without
// writing it anywhere. Tag failures on the first member are returned as is.
func (c *Cluster) Summarize(name string) (Summary, error) {
	if len(c.members) == 0 {
		return Summary{}, ErrEmpty
	}
	first := c.members[0]
	raw, err := first.Mobile()
	if err != nil {
		return Summary{}, err
	}
	tag, err := metag.Parse(raw)
	if err != nil {
		return Summary{}, err
	}

	size := c.Size()
	flags := FlagForward
	if first.Reverse {
		flags = FlagReverse
	}
	cats := c.CountCategories()

	return Summary{
		Name:    name,
		Ref:     common.WithChrPrefix(first.Ref),
		Start:   c.Start(),
		Length:  size,
		Cigar:   strconv.Itoa(size) + "M",
		Flags:   flags,
		MapQ:    MaxMapQ,
		MateRef: UnmappedRef,
		TempLen: 0,
		Seq:     common.NSequence(size),
		Qual:    AbsentQual,
		Attrs: SummaryAttrs{
			ClusterHits:   len(c.members),
			ClusterLength: size,
			MobileHit:     tag.Best(),
			Split:         c.cfg.Split,
			UniqueHits:    cats.Unique,
			MultipleHits:  cats.Multiple,
			UnmappedHits:  cats.Unmapped,
			SampleCount:   c.CountSamples().String(),
		},
	}, nil
}

package cluster

import (
	"meclust/internal/align"
	"meclust/internal/logging"
	"meclust/internal/metag"
)

// Config is fixed for the lifetime of a Cluster.
type Config struct {
	// Split clusters hold split-read evidence, which spans both strands.
	Split bool
	// AssumeSorted records that members arrive by non-decreasing start;
	// Start is only defined when it is set.
	AssumeSorted bool
	// Classes maps read-name prefixes to mate classes.
	Classes align.Classes
}

// Verdict is the outcome of offering a record to a cluster.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedStrand
	RejectedReference
	RejectedCategory
	RejectedTag
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedStrand:
		return "strand"
	case RejectedReference:
		return "reference"
	case RejectedCategory:
		return "category"
	case RejectedTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Cluster is an append-only group of records sharing reference, best mobile
// category and, unless split, strand.
type Cluster struct {
	cfg     Config
	log     *logging.Logger
	members []align.Record
}

// New returns an empty cluster. A nil logger discards diagnostics.
func New(cfg Config, log *logging.Logger) *Cluster {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Cluster{cfg: cfg, log: log}
}

// Len is the number of members.
func (c *Cluster) Len() int { return len(c.members) }

// Empty reports whether no record has been admitted.
func (c *Cluster) Empty() bool { return len(c.members) == 0 }

// Members returns a copy of the members in append order.
func (c *Cluster) Members() []align.Record {
	out := make([]align.Record, len(c.members))
	copy(out, c.members)
	return out
}

// Append adds rec if it is compatible with the first member and reports
// whether it was added.
func (c *Cluster) Append(rec align.Record) bool {
	return c.Offer(rec) == Accepted
}

// Offer is Append with the reason for a refusal. Tag problems are logged and
// surface only as RejectedTag.
func (c *Cluster) Offer(rec align.Record) Verdict {
	if len(c.members) == 0 {
		c.members = append(c.members, rec)
		return Accepted
	}
	first := c.members[0]
	if !c.cfg.Split && first.Reverse != rec.Reverse {
		return RejectedStrand
	}
	if first.Ref != rec.Ref {
		return RejectedReference
	}
	same, err := sameBestCategory(first, rec)
	if err != nil {
		c.log.Warn("could not add read to cluster: invalid mobile tag",
			"read", rec.Name, "error", err)
		return RejectedTag
	}
	if !same {
		return RejectedCategory
	}
	c.members = append(c.members, rec)
	return Accepted
}

// sameBestCategory compares only the best hit of each record.
func sameBestCategory(a, b align.Record) (bool, error) {
	ba, err := bestCategory(a)
	if err != nil {
		return false, err
	}
	bb, err := bestCategory(b)
	if err != nil {
		return false, err
	}
	return ba == bb, nil
}

func bestCategory(r align.Record) (string, error) {
	raw, err := r.Mobile()
	if err != nil {
		return "", err
	}
	return metag.BestCategory(raw)
}

// WithinSearchArea reports whether rec starts no more than window bases
// after the last member. An empty cluster accepts everything.
func (c *Cluster) WithinSearchArea(rec align.Record, window int) bool {
	if len(c.members) == 0 {
		return true
	}
	return rec.Start <= c.members[len(c.members)-1].Start+window
}

// Start is the first member's start when members are sorted, otherwise 0.
func (c *Cluster) Start() int {
	if len(c.members) == 0 || !c.cfg.AssumeSorted {
		return 0
	}
	return c.members[0].Start
}

// End is the largest member end. Read lengths vary, so every member is scanned.
func (c *Cluster) End() int {
	end := 0
	for _, m := range c.members {
		if m.End > end {
			end = m.End
		}
	}
	return end
}

// Size is the number of reference bases spanned, End - Start + 1.
func (c *Cluster) Size() int {
	return c.End() - c.Start() + 1
}

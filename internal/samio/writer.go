package samio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"meclust/internal/cluster"
	"meclust/internal/common"
)

// Aux tags of the summary attributes in SAM/BAM output.
var summaryTags = map[string]sam.Tag{
	cluster.KeyClusterHits:   sam.NewTag("CH"),
	cluster.KeyClusterLength: sam.NewTag("CL"),
	cluster.KeyMobileHit:     sam.NewTag("MH"),
	cluster.KeySplitCluster:  sam.NewTag("SP"),
	cluster.KeyUniqueHits:    sam.NewTag("UU"),
	cluster.KeyMultipleHits:  sam.NewTag("UM"),
	cluster.KeyUnmappedHits:  sam.NewTag("UX"),
	cluster.KeySampleCount:   sam.NewTag("SC"),
}

// SummaryTag returns the aux tag used for a summary attribute key.
func SummaryTag(key string) (sam.Tag, bool) {
	t, ok := summaryTags[key]
	return t, ok
}

const programID = "meclust"

// Writer encodes cluster summaries as SAM or BAM records.
type Writer struct {
	header *sam.Header
	refs   map[string]*sam.Reference
	write  func(*sam.Record) error
	close  func() error
}

// NewSAMWriter writes text SAM to w.
func NewSAMWriter(w io.Writer, in *sam.Header, version string) (*Writer, error) {
	h, refs, err := OutputHeader(in, version)
	if err != nil {
		return nil, err
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return nil, err
	}
	return &Writer{header: h, refs: refs, write: sw.Write, close: func() error { return nil }}, nil
}

// NewBAMWriter writes BGZF-compressed BAM to w. Close must be called to
// flush the final block.
func NewBAMWriter(w io.Writer, in *sam.Header, version string) (*Writer, error) {
	h, refs, err := OutputHeader(in, version)
	if err != nil {
		return nil, err
	}
	bw, err := bam.NewWriter(w, h, 1)
	if err != nil {
		return nil, err
	}
	return &Writer{header: h, refs: refs, write: bw.Write, close: bw.Close}, nil
}

// Header is the header written to the output.
func (w *Writer) Header() *sam.Header { return w.header }

// Write implements cluster.Sink.
func (w *Writer) Write(s cluster.Summary) error {
	r, err := w.record(s)
	if err != nil {
		return err
	}
	return w.write(r)
}

// Close flushes any buffered output.
func (w *Writer) Close() error { return w.close() }

func (w *Writer) record(s cluster.Summary) (*sam.Record, error) {
	ref, ok := w.refs[s.Ref]
	if !ok {
		return nil, fmt.Errorf("cluster %s: reference %q not in output header", s.Name, s.Ref)
	}
	aux, err := summaryAux(s.Attrs)
	if err != nil {
		return nil, fmt.Errorf("cluster %s: %w", s.Name, err)
	}
	cigar := []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, s.Length)}
	// 0xff quality bytes are written as "*".
	qual := bytes.Repeat([]byte{0xff}, len(s.Seq))
	r, err := sam.NewRecord(s.Name, ref, nil, s.Start-1, -1, s.TempLen, byte(s.MapQ), cigar, []byte(s.Seq), qual, aux)
	if err != nil {
		return nil, fmt.Errorf("cluster %s: %w", s.Name, err)
	}
	r.Flags = sam.Flags(s.Flags)
	return r, nil
}

func summaryAux(a cluster.SummaryAttrs) ([]sam.Aux, error) {
	values := []struct {
		key string
		v   any
	}{
		{cluster.KeyClusterHits, fmt.Sprint(a.ClusterHits)},
		{cluster.KeyClusterLength, fmt.Sprint(a.ClusterLength)},
		{cluster.KeyMobileHit, a.MobileHit},
		{cluster.KeySplitCluster, fmt.Sprint(a.Split)},
		{cluster.KeyUniqueHits, a.UniqueHits},
		{cluster.KeyMultipleHits, a.MultipleHits},
		{cluster.KeyUnmappedHits, a.UnmappedHits},
		{cluster.KeySampleCount, a.SampleCount},
	}
	aux := make([]sam.Aux, 0, len(values))
	for _, kv := range values {
		x, err := sam.NewAux(summaryTags[kv.key], kv.v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kv.key, err)
		}
		aux = append(aux, x)
	}
	return aux, nil
}

// OutputHeader derives the summary header from the input header: every
// reference is renamed with the "chr" prefix, keeping its length. References
// that collide after renaming are kept once.
func OutputHeader(in *sam.Header, version string) (*sam.Header, map[string]*sam.Reference, error) {
	var refs []*sam.Reference
	byName := make(map[string]*sam.Reference)
	if in != nil {
		for _, r := range in.Refs() {
			name := common.WithChrPrefix(r.Name())
			if _, dup := byName[name]; dup {
				continue
			}
			nr, err := sam.NewReference(name, r.AssemblyID(), r.Species(), r.Len(), r.MD5(), nil)
			if err != nil {
				return nil, nil, fmt.Errorf("reference %s: %w", name, err)
			}
			refs = append(refs, nr)
			byName[name] = nr
		}
	}
	h, err := sam.NewHeader(nil, refs)
	if err != nil {
		return nil, nil, err
	}
	if err := h.AddProgram(sam.NewProgram(programID, programID, "", "", version)); err != nil {
		return nil, nil, err
	}
	return h, byName, nil
}

// MergeHeaders returns a header holding the references of every input, in
// first-seen order. A reference name seen twice is kept once.
func MergeHeaders(hs ...*sam.Header) (*sam.Header, error) {
	var refs []*sam.Reference
	seen := make(map[string]bool)
	for _, h := range hs {
		if h == nil {
			continue
		}
		for _, r := range h.Refs() {
			if seen[r.Name()] {
				continue
			}
			seen[r.Name()] = true
			nr, err := sam.NewReference(r.Name(), r.AssemblyID(), r.Species(), r.Len(), r.MD5(), nil)
			if err != nil {
				return nil, fmt.Errorf("reference %s: %w", r.Name(), err)
			}
			refs = append(refs, nr)
		}
	}
	return sam.NewHeader(nil, refs)
}

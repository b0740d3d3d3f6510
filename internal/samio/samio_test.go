package samio

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meclust/internal/align"
	"meclust/internal/cluster"
)

const testSAM = "@HD\tVN:1.5\tSO:coordinate\n" +
	"@SQ\tSN:1\tLN:10000\n" +
	"@SQ\tSN:chr2\tLN:5000\n" +
	"UU_a\t0\t1\t100\t60\t51M\t*\t0\t0\t*\t*\tME:Z:LINE1,L1HS;ALU\tSN:Z:S1\n" +
	"UX_z\t4\t*\t0\t0\t*\t*\t0\t0\t*\t*\n" +
	"UM_b\t16\t1\t105\t60\t51M\t*\t0\t0\t*\t*\tME:Z:LINE1\n" +
	"UU_c\t0\tchr2\t7\t60\t10M\t*\t0\t0\t*\t*\tSN:Z:S2\n"

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func readAll(t *testing.T, src *Source) []align.Record {
	t.Helper()
	var out []align.Record
	for {
		r, err := src.Next(DefaultTags)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, r)
	}
}

func TestOpenSAM(t *testing.T) {
	src, err := Open(writeFile(t, "in.sam", testSAM))
	require.NoError(t, err)
	defer src.Close()

	assert.Len(t, src.Header().Refs(), 2)
	recs := readAll(t, src)
	require.Len(t, recs, 3, "unmapped record must be skipped")

	assert.Equal(t, align.Record{
		Name: "UU_a", Ref: "1", Start: 100, End: 150,
		Attrs: align.Attrs{MobileTag: "LINE1,L1HS;ALU", SampleName: "S1"},
	}, recs[0])
	assert.True(t, recs[1].Reverse)
	assert.Equal(t, "", recs[1].Attrs.SampleName)
	assert.Equal(t, "", recs[2].Attrs.MobileTag)
	assert.Equal(t, 16, recs[2].End)
}

func TestOpenGzipSAM(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(testSAM))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	src, err := Open(writeFile(t, "in.sam.gz", buf.String()))
	require.NoError(t, err)
	defer src.Close()
	assert.Len(t, readAll(t, src), 3)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.sam"))
	assert.Error(t, err)
}

func TestCustomTags(t *testing.T) {
	data := "@SQ\tSN:1\tLN:1000\n" +
		"r1\t0\t1\t10\t60\t5M\t*\t0\t0\t*\t*\tXM:Z:ALU\tRG:Z:grp\n"
	src, err := Open(writeFile(t, "tags.sam", data))
	require.NoError(t, err)
	defer src.Close()

	r, err := src.Next(Tags{Mobile: "XM", Sample: "RG"})
	require.NoError(t, err)
	assert.Equal(t, align.Attrs{MobileTag: "ALU", SampleName: "grp"}, r.Attrs)
}

func TestStream(t *testing.T) {
	src, err := Open(writeFile(t, "in.sam", testSAM))
	require.NoError(t, err)
	defer src.Close()

	recs, errc := Stream(context.Background(), src, DefaultTags)
	var names []string
	for r := range recs {
		names = append(names, r.Name)
	}
	require.NoError(t, <-errc)
	assert.Equal(t, []string{"UU_a", "UM_b", "UU_c"}, names)
}

func TestStreamCancelled(t *testing.T) {
	src, err := Open(writeFile(t, "in.sam", testSAM))
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recs, errc := Stream(ctx, src, DefaultTags)
	for range recs {
	}
	err = <-errc
	// The buffered channel may absorb every record before cancellation is seen.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func testSummary() cluster.Summary {
	return cluster.Summary{
		Name:    "cluster_1",
		Ref:     "chr1",
		Start:   100,
		Length:  56,
		Cigar:   "56M",
		Flags:   cluster.FlagReverse,
		MapQ:    cluster.MaxMapQ,
		MateRef: cluster.UnmappedRef,
		Seq:     strings.Repeat("N", 56),
		Qual:    cluster.AbsentQual,
		Attrs: cluster.SummaryAttrs{
			ClusterHits: 3, ClusterLength: 56, MobileHit: "LINE1",
			UniqueHits: 1, MultipleHits: 2, SampleCount: "S1=2, S2=1",
		},
	}
}

func inputHeader(t *testing.T) *sam.Header {
	t.Helper()
	src, err := Open(writeFile(t, "in.sam", testSAM))
	require.NoError(t, err)
	defer src.Close()
	return src.Header()
}

func checkSummaryRecord(t *testing.T, r *sam.Record) {
	t.Helper()
	assert.Equal(t, "cluster_1", r.Name)
	assert.Equal(t, "chr1", r.Ref.Name())
	assert.Equal(t, 99, r.Pos)
	assert.Equal(t, 155, r.End())
	assert.Equal(t, byte(255), r.MapQ)
	assert.Equal(t, sam.Reverse, r.Flags)
	assert.Nil(t, r.MateRef)
	assert.Equal(t, 0, r.TempLen)
	assert.Equal(t, "56M", r.Cigar.String())
	assert.Equal(t, strings.Repeat("N", 56), string(r.Seq.Expand()))

	want := map[string]any{
		cluster.KeyClusterHits:   "3",
		cluster.KeyClusterLength: "56",
		cluster.KeyMobileHit:     "LINE1",
		cluster.KeySplitCluster:  "false",
		cluster.KeySampleCount:   "S1=2, S2=1",
	}
	for key, v := range want {
		tag, ok := SummaryTag(key)
		require.True(t, ok)
		aux, ok := r.Tag(tag[:])
		require.True(t, ok, "missing %s", key)
		assert.Equal(t, v, aux.Value(), key)
	}
	tag, _ := SummaryTag(cluster.KeyMultipleHits)
	aux, ok := r.Tag(tag[:])
	require.True(t, ok)
	assert.EqualValues(t, 2, aux.Value())
}

func TestSAMWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSAMWriter(&buf, inputHeader(t), "test")
	require.NoError(t, err)

	names := []string{}
	for _, r := range w.Header().Refs() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"chr1", "chr2"}, names)

	require.NoError(t, w.Write(testSummary()))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "@PG\tID:meclust")
	assert.Contains(t, out, "\t*\t0\t0\t"+strings.Repeat("N", 56)+"\t*\t")

	sr, err := sam.NewReader(&buf)
	require.NoError(t, err)
	r, err := sr.Read()
	require.NoError(t, err)
	checkSummaryRecord(t, r)
}

func TestBAMWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewBAMWriter(&buf, inputHeader(t), "test")
	require.NoError(t, err)
	require.NoError(t, w.Write(testSummary()))
	require.NoError(t, w.Close())

	br, err := bam.NewReader(&buf, 0)
	require.NoError(t, err)
	defer br.Close()
	r, err := br.Read()
	require.NoError(t, err)
	checkSummaryRecord(t, r)
}

func TestSAMWriterEmptySampleCount(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSAMWriter(&buf, inputHeader(t), "test")
	require.NoError(t, err)

	s := testSummary()
	s.Attrs.SampleCount = ""
	require.NoError(t, w.Write(s))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "\tSC:Z:"), lines[len(lines)-1])
}

func TestWriterUnknownReference(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSAMWriter(&buf, inputHeader(t), "test")
	require.NoError(t, err)

	s := testSummary()
	s.Ref = "chr9"
	err = w.Write(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"chr9"`)
}

func TestOutputHeaderDeduplicatesRenamedReferences(t *testing.T) {
	h, err := sam.NewHeader([]byte("@SQ\tSN:1\tLN:100\n@SQ\tSN:chr1\tLN:100\n"), nil)
	require.NoError(t, err)
	out, refs, err := OutputHeader(h, "v")
	require.NoError(t, err)
	assert.Len(t, out.Refs(), 1)
	assert.Contains(t, refs, "chr1")
}

func TestMergeHeaders(t *testing.T) {
	a, err := sam.NewHeader([]byte("@SQ\tSN:1\tLN:100\n@SQ\tSN:2\tLN:200\n"), nil)
	require.NoError(t, err)
	b, err := sam.NewHeader([]byte("@SQ\tSN:2\tLN:200\n@SQ\tSN:X\tLN:300\n"), nil)
	require.NoError(t, err)

	h, err := MergeHeaders(a, nil, b)
	require.NoError(t, err)
	var names []string
	for _, r := range h.Refs() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"1", "2", "X"}, names)
	assert.Equal(t, 300, h.Refs()[2].Len())
}

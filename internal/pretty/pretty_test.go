package pretty

import (
	"bytes"
	"strings"
	"testing"

	"meclust/internal/scan"
)

func sampleStats() scan.Stats {
	return scan.Stats{
		Inputs:   2,
		Records:  120,
		Emitted:  7,
		Dropped:  map[string]int{"min_reads": 2, "invalid_tag": 1},
		Rejected: map[string]int{"strand": 4, "category": 3, "tag": 0},
	}
}

func TestRenderSummary_Counts(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleStats(), Options{RunID: "abc", Output: "out.bam"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"meclust run abc", "records", "120", "clusters", "7", "dropped", "3", "rejected", "out.bam"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "min_reads=") {
		t.Fatalf("breakdown should only appear when verbose:\n%s", out)
	}
}

func TestRenderSummary_VerboseBreakdown(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleStats(), Options{Verbose: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "(invalid_tag=1, min_reads=2)") {
		t.Fatalf("want sorted drop breakdown:\n%s", out)
	}
	if !strings.Contains(out, "(category=3, strand=4)") {
		t.Fatalf("zero counts should be omitted:\n%s", out)
	}
}

func TestBreakdownEmpty(t *testing.T) {
	if got := breakdown(nil); got != "" {
		t.Fatalf("want empty, got %q", got)
	}
}

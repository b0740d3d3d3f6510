package writers

import (
	"io"

	"meclust/internal/cluster"
	"meclust/internal/output"
)

func init() { Register(output.FormatText, writeText) }

func writeText(out io.Writer, in <-chan cluster.Summary, o Options) error {
	if !o.Sort {
		return output.StreamText(out, in, o.Header)
	}
	var buf []cluster.Summary
	for s := range in {
		buf = append(buf, s)
	}
	output.SortSummaries(buf)
	return output.WriteText(out, buf, o.Header)
}

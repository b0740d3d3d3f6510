// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"meclust/internal/cluster"
	"meclust/internal/output"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

func init() {
	Register(output.FormatJSONL, writeJSONL)
	Register(output.FormatJSON, writeJSON)
}

// writeJSONL streams each summary as one JSON line (v1).
func writeJSONL(out io.Writer, in <-chan cluster.Summary, _ Options) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	for s := range in {
		if err := enc.Encode(output.ToAPICluster(s)); err != nil {
			return err
		}
	}
	return IgnoreBrokenPipe(bw.Flush())
}

// writeJSON buffers everything into one pretty JSON array.
func writeJSON(out io.Writer, in <-chan cluster.Summary, o Options) error {
	var buf []cluster.Summary
	for s := range in {
		buf = append(buf, s)
	}
	if o.Sort {
		output.SortSummaries(buf)
	}
	return output.WriteJSON(out, buf)
}

// Package writers turns cluster summaries into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (SAM/BAM records, JSON/JSONL, TSV).
//   - The cluster package stays domain-only; scan stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
//   - Each format registers a Factory; Start runs it on its own goroutine and
//     callers feed it through a channel (or through Sink).
package writers

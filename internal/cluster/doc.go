// Package cluster groups anchor reads that support one mobile-element
// insertion breakpoint and summarizes each group as a synthetic alignment.
//
// A Cluster is single-use. The caller offers records in non-decreasing start
// order; when WithinSearchArea or Append refuses a record, the caller emits
// the cluster, discards it, and offers the record to a fresh one. Appending
// after Emit is not rejected; callers must not do it.
//
// The package is domain-only: it never imports samio, writers, scan, or app.
package cluster

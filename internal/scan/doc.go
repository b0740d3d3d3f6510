// Package scan drives clusters over a start-sorted record stream.
//
// For each record it applies the window test and admission rules of the open
// cluster. A refused record closes the cluster (aggregate + emit) and opens a
// fresh one, which always accepts it. Clusters never span input files.
//
// The only contract callers implement is cluster.Sink.
package scan

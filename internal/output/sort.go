// internal/output/sort.go
package output

import (
	"sort"

	"meclust/internal/cluster"
	"meclust/internal/common"
)

// LessSummary defines a stable order for summaries (for --sort).
func LessSummary(a, b cluster.Summary) bool {
	if a.Ref != b.Ref {
		return a.Ref < b.Ref
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	return lessName(a.Name, b.Name)
}

// lessName orders "cluster_2" before "cluster_10".
func lessName(a, b string) bool {
	pa, na, oka := common.SplitClusterID(a)
	pb, nb, okb := common.SplitClusterID(b)
	if oka && okb && pa == pb {
		return na < nb
	}
	return a < b
}

// SortSummaries sorts in place by reference, start, length, then name.
func SortSummaries(list []cluster.Summary) {
	sort.SliceStable(list, func(i, j int) bool { return LessSummary(list[i], list[j]) })
}

// internal/output/rows.go
package output

import (
	"fmt"

	"meclust/internal/cluster"
)

// Strand renders the summary strand as "+" or "-".
func Strand(s cluster.Summary) string {
	if s.Reverse() {
		return "-"
	}
	return "+"
}

// FormatRowTSV returns one TSV row (no trailing newline) matching TSVHeader.
func FormatRowTSV(s cluster.Summary) string {
	a := s.Attrs
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%s\t%s\t%d\t%t\t%d\t%d\t%d\t%s",
		s.Name, s.Ref, s.Start, s.End(), s.Length, Strand(s),
		a.MobileHit, a.ClusterHits, a.Split,
		a.UniqueHits, a.MultipleHits, a.UnmappedHits, a.SampleCount,
	)
}

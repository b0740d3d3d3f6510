// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"meclust/internal/cluster"
	"meclust/pkg/api"
)

// ToAPICluster converts a domain Summary to the stable wire schema (v1).
func ToAPICluster(s cluster.Summary) api.ClusterV1 {
	return api.ClusterV1{
		Name:         s.Name,
		Ref:          s.Ref,
		Start:        s.Start,
		End:          s.End(),
		Length:       s.Length,
		Strand:       Strand(s),
		Cigar:        s.Cigar,
		Flags:        s.Flags,
		MapQ:         s.MapQ,
		MobileHit:    s.Attrs.MobileHit,
		ClusterHits:  s.Attrs.ClusterHits,
		Split:        s.Attrs.Split,
		UniqueHits:   s.Attrs.UniqueHits,
		MultipleHits: s.Attrs.MultipleHits,
		UnmappedHits: s.Attrs.UnmappedHits,
		SampleCount:  s.Attrs.SampleCount,
	}
}

func toAPIClusters(list []cluster.Summary) []api.ClusterV1 {
	out := make([]api.ClusterV1, 0, len(list))
	for _, s := range list {
		out = append(out, ToAPICluster(s))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 clusters (pretty-indented).
func WriteJSON(w io.Writer, list []cluster.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toAPIClusters(list))
}

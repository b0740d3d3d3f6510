// pkg/api/cluster_v1.go
package api

// ClusterV1 is the stable JSON/JSONL schema for one emitted cluster.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ClusterV1 struct {
	Name         string `json:"name"`
	Ref          string `json:"ref"`
	Start        int    `json:"start"` // 1-based
	End          int    `json:"end"`   // 1-based, inclusive
	Length       int    `json:"length"`
	Strand       string `json:"strand"` // "+" | "-"
	Cigar        string `json:"cigar"`
	Flags        int    `json:"flags"`
	MapQ         int    `json:"mapq"`
	MobileHit    string `json:"mobile_hit"`
	ClusterHits  int    `json:"cluster_hits"`
	Split        bool   `json:"split_cluster"`
	UniqueHits   int    `json:"unique_hits"`
	MultipleHits int    `json:"multiple_hits"`
	UnmappedHits int    `json:"unmapped_hits"`
	SampleCount  string `json:"samplecount"`
}

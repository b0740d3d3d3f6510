package output

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatSAM   = "sam"
	FormatBAM   = "bam"
)

// Formats lists every supported output format.
var Formats = []string{FormatSAM, FormatBAM, FormatJSONL, FormatJSON, FormatText}

// TSVHeader is the canonical header row for text/TSV outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "name\tref\tstart\tend\tlength\tstrand\tmobile_hit\tcluster_hits\tsplit_cluster\tunique_hits\tmultiple_hits\tunmapped_hits\tsamplecount"

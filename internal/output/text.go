// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"meclust/internal/cluster"
)

// StreamText writes one TSV row per summary as it arrives.
func StreamText(w io.Writer, in <-chan cluster.Summary, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for s := range in {
		if _, err := fmt.Fprintln(w, FormatRowTSV(s)); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes a buffered list of summaries as TSV.
func WriteText(w io.Writer, list []cluster.Summary, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, s := range list {
		if _, err := fmt.Fprintln(w, FormatRowTSV(s)); err != nil {
			return err
		}
	}
	return nil
}

package writers

import (
	"errors"
	"io"

	"meclust/internal/cluster"
	"meclust/internal/output"
	"meclust/internal/samio"
)

func init() {
	Register(output.FormatSAM, func(out io.Writer, in <-chan cluster.Summary, o Options) error {
		w, err := samio.NewSAMWriter(out, o.SAMHeader, o.Version)
		if err != nil {
			return err
		}
		return drain(w, in)
	})
	Register(output.FormatBAM, func(out io.Writer, in <-chan cluster.Summary, o Options) error {
		w, err := samio.NewBAMWriter(out, o.SAMHeader, o.Version)
		if err != nil {
			return err
		}
		return drain(w, in)
	})
}

func drain(w *samio.Writer, in <-chan cluster.Summary) error {
	for s := range in {
		if err := w.Write(s); err != nil {
			return errors.Join(err, w.Close())
		}
	}
	return w.Close()
}

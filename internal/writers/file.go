package writers

import (
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// SnappySuffix marks output paths written as snappy-framed streams.
const SnappySuffix = ".sz"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type stackCloser struct {
	io.Writer
	closers []io.Closer
}

func (s stackCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenOutput returns the destination for path. "" and "-" mean stdout, which
// is never closed. Paths ending in ".sz" are snappy-compressed.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, SnappySuffix) {
		sw := snappy.NewBufferedWriter(f)
		return stackCloser{Writer: sw, closers: []io.Closer{sw, f}}, nil
	}
	return f, nil
}

// FormatFromPath guesses an output format from a file name, or returns "".
func FormatFromPath(path string) string {
	p := strings.TrimSuffix(path, SnappySuffix)
	for _, ext := range []string{".sam", ".bam", ".jsonl", ".json", ".tsv"} {
		if strings.HasSuffix(p, ext) {
			if ext == ".tsv" {
				return "text"
			}
			return ext[1:]
		}
	}
	return ""
}

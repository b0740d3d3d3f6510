// Package samio reads anchor alignments from SAM/BAM and writes cluster
// summaries back as SAM/BAM, using github.com/biogo/hts.
package samio

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"meclust/internal/align"
)

// Tags names the two-letter aux tags carrying record attributes.
type Tags struct {
	Mobile string
	Sample string
}

// DefaultTags are the tags written by the anchor extraction step.
var DefaultTags = Tags{Mobile: "ME", Sample: "SN"}

// Source yields SAM records from a file or stdin.
type Source struct {
	path   string
	header *sam.Header
	read   func() (*sam.Record, error)
	closer io.Closer
}

// Open opens path for reading. BAM is chosen by the ".bam" suffix, gzip
// SAM by ".gz"; "-" reads SAM from stdin.
func Open(path string) (*Source, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".bam") {
		br, err := bam.NewReader(rc, 0)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &Source{
			path:   path,
			header: br.Header(),
			read:   br.Read,
			closer: closers{br, rc},
		}, nil
	}
	sr, err := sam.NewReader(bufio.NewReader(rc))
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{path: path, header: sr.Header(), read: sr.Read, closer: rc}, nil
}

// Path is the name the source was opened with.
func (s *Source) Path() string { return s.path }

// Header is the input header.
func (s *Source) Header() *sam.Header { return s.header }

// Close releases the underlying file.
func (s *Source) Close() error { return s.closer.Close() }

// Next returns the next mapped record converted with tags. It returns io.EOF
// at the end of input.
func (s *Source) Next(tags Tags) (align.Record, error) {
	for {
		r, err := s.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return align.Record{}, io.EOF
			}
			return align.Record{}, fmt.Errorf("%s: %w", s.path, err)
		}
		if !Mapped(r) {
			continue
		}
		return Convert(r, tags), nil
	}
}

// Stream reads every mapped record on its own goroutine. The record channel
// is closed at end of input; the error channel then yields the first read
// error or nil.
func Stream(ctx context.Context, src *Source, tags Tags) (<-chan align.Record, <-chan error) {
	out := make(chan align.Record, 64)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		for {
			r, err := src.Next(tags)
			if err == io.EOF {
				errc <- nil
				return
			}
			if err != nil {
				errc <- err
				return
			}
			select {
			case out <- r:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

// Mapped reports whether r has a usable reference position.
func Mapped(r *sam.Record) bool {
	return r.Flags&sam.Unmapped == 0 && r.Ref != nil && r.Pos >= 0
}

// Convert maps a SAM record onto the cluster record view. Positions become
// 1-based inclusive.
func Convert(r *sam.Record, tags Tags) align.Record {
	rec := align.Record{
		Name:    r.Name,
		Start:   r.Pos + 1,
		End:     r.End(),
		Reverse: r.Flags&sam.Reverse != 0,
		Attrs: align.Attrs{
			MobileTag:  auxString(r, tags.Mobile),
			SampleName: auxString(r, tags.Sample),
		},
	}
	if r.Ref != nil {
		rec.Ref = r.Ref.Name()
	}
	return rec
}

func auxString(r *sam.Record, tag string) string {
	if len(tag) != 2 {
		return ""
	}
	aux, ok := r.Tag([]byte(tag))
	if !ok {
		return ""
	}
	switch v := aux.Value().(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

/* ---------------- small helpers ---------------- */

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}

type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for _, c := range cs {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

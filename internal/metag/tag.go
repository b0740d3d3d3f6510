// Package metag parses the mobile-element tag attached to anchor reads.
//
// The attribute lists mobile-element hits ordered by confidence, separated by
// ';'. Each hit is a comma-separated field list whose first field is the
// category name:
//
//	LINE1,L1HS,98.2;ALU,AluY,71.0
package metag

import (
	"fmt"
	"strings"
)

const (
	hitSep   = ";"
	fieldSep = ","
)

// Tag is a parsed mobile-element tag. Categories is never empty.
type Tag struct {
	Categories []string
}

// Best returns the highest-confidence category.
func (t Tag) Best() string { return t.Categories[0] }

// ParseError reports a malformed mobile-element tag.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid mobile tag %q: %s", e.Raw, e.Reason)
}

// Parse decodes raw into its ordered category names.
func Parse(raw string) (Tag, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Tag{}, &ParseError{Raw: raw, Reason: "empty"}
	}
	hits := strings.Split(s, hitSep)
	cats := make([]string, 0, len(hits))
	for i, h := range hits {
		h = strings.TrimSpace(h)
		if h == "" {
			return Tag{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("hit %d is empty", i+1)}
		}
		name, _, _ := strings.Cut(h, fieldSep)
		name = strings.TrimSpace(name)
		if name == "" {
			return Tag{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("hit %d has no category", i+1)}
		}
		cats = append(cats, name)
	}
	return Tag{Categories: cats}, nil
}

// BestCategory parses raw and returns only its best category.
func BestCategory(raw string) (string, error) {
	t, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return t.Best(), nil
}

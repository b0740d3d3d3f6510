package common

import "strings"

// ChrPrefix is prepended to reference names that lack it.
const ChrPrefix = "chr"

// UnknownBase fills placeholder sequences.
const UnknownBase = 'N'

// NSequence returns a placeholder read of n unknown bases.
func NSequence(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(UnknownBase), n)
}

// WithChrPrefix returns ref prefixed with "chr" unless it already is.
func WithChrPrefix(ref string) string {
	if strings.HasPrefix(ref, ChrPrefix) {
		return ref
	}
	return ChrPrefix + ref
}

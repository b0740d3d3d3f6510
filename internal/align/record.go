// Package align holds the alignment record view consumed by the clustering
// core. It never imports samio, writers, or app; decoders convert into it.
package align

import "strings"

// Attribute names understood by the cluster core.
const (
	AttrMobileTag  = "mobile-tag"
	AttrSampleName = "sample-name"
)

// Attrs is the fixed attribute schema carried by a Record.
// An empty string means the attribute was not present on the source record.
type Attrs struct {
	MobileTag  string
	SampleName string
}

// Record is one aligned read. Coordinates are 1-based and inclusive.
type Record struct {
	Name    string
	Ref     string
	Start   int
	End     int
	Reverse bool
	Attrs   Attrs
}

// Mobile returns the raw mobile-tag attribute.
func (r Record) Mobile() (string, error) {
	if r.Attrs.MobileTag == "" {
		return "", &MissingAttributeError{Read: r.Name, Attr: AttrMobileTag}
	}
	return r.Attrs.MobileTag, nil
}

// Sample returns the sample-name attribute.
func (r Record) Sample() (string, error) {
	if r.Attrs.SampleName == "" {
		return "", &MissingAttributeError{Read: r.Name, Attr: AttrSampleName}
	}
	return r.Attrs.SampleName, nil
}

// MissingAttributeError reports a required attribute absent from a record.
type MissingAttributeError struct {
	Read string
	Attr string
}

func (e *MissingAttributeError) Error() string {
	return "read " + e.Read + ": missing " + e.Attr + " attribute"
}

// Class is the mate-mapping class encoded in a read-name prefix.
type Class int

const (
	ClassNone Class = iota
	ClassUnique
	ClassMultiple
	ClassUnmapped
)

func (c Class) String() string {
	switch c {
	case ClassUnique:
		return "unique"
	case ClassMultiple:
		return "multiple"
	case ClassUnmapped:
		return "unmapped"
	default:
		return "none"
	}
}

// Classes holds the read-name prefixes of the three mate classes.
type Classes struct {
	Unique   string
	Multiple string
	Unmapped string
}

// DefaultClasses are the prefixes written by the upstream anchor extraction.
var DefaultClasses = Classes{
	Unique:   "UU_",
	Multiple: "UM_",
	Unmapped: "UX_",
}

// Classify returns the class whose prefix the read name starts with.
// Prefixes are tried in the order multiple, unique, unmapped; the first
// non-empty match wins.
func (c Classes) Classify(readName string) Class {
	switch {
	case c.Multiple != "" && strings.HasPrefix(readName, c.Multiple):
		return ClassMultiple
	case c.Unique != "" && strings.HasPrefix(readName, c.Unique):
		return ClassUnique
	case c.Unmapped != "" && strings.HasPrefix(readName, c.Unmapped):
		return ClassUnmapped
	}
	return ClassNone
}

package cluster

import (
	"strconv"
	"strings"

	"meclust/internal/align"
)

// Categories counts members by mate class.
type Categories struct {
	Unique   int
	Multiple int
	Unmapped int
}

// SampleCount is the number of members contributed by one sample.
type SampleCount struct {
	Name  string
	Count int
}

// SampleCounts lists samples in the order they were first seen.
type SampleCounts []SampleCount

// String renders "name=count" pairs joined by ", ".
func (s SampleCounts) String() string {
	var b strings.Builder
	for i, sc := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sc.Name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(sc.Count))
	}
	return b.String()
}

// CountCategories classifies every member by read-name prefix. Each call
// starts from zero.
func (c *Cluster) CountCategories() Categories {
	var cats Categories
	for _, m := range c.members {
		switch c.cfg.Classes.Classify(m.Name) {
		case align.ClassMultiple:
			cats.Multiple++
		case align.ClassUnique:
			cats.Unique++
		case align.ClassUnmapped:
			cats.Unmapped++
		}
	}
	return cats
}

// CountSamples tallies members per sample name. Members without a sample
// name are logged and left out.
func (c *Cluster) CountSamples() SampleCounts {
	var counts SampleCounts
	index := make(map[string]int)
	for _, m := range c.members {
		name, err := m.Sample()
		if err != nil {
			c.log.Warn("skipping read in sample count", "read", m.Name, "error", err)
			continue
		}
		if i, ok := index[name]; ok {
			counts[i].Count++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, SampleCount{Name: name, Count: 1})
	}
	return counts
}

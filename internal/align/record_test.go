package align

import (
	"errors"
	"testing"
)

func TestMissingAttributes(t *testing.T) {
	r := Record{Name: "r1"}
	_, err := r.Mobile()
	var mae *MissingAttributeError
	if !errors.As(err, &mae) {
		t.Fatalf("want MissingAttributeError, got %v", err)
	}
	if mae.Attr != AttrMobileTag || mae.Read != "r1" {
		t.Fatalf("unexpected error fields: %+v", mae)
	}
	if _, err := r.Sample(); !errors.As(err, &mae) || mae.Attr != AttrSampleName {
		t.Fatalf("want missing sample-name, got %v", err)
	}

	r.Attrs = Attrs{MobileTag: "ALU", SampleName: "S1"}
	if v, err := r.Mobile(); err != nil || v != "ALU" {
		t.Fatalf("Mobile() = %q, %v", v, err)
	}
	if v, err := r.Sample(); err != nil || v != "S1" {
		t.Fatalf("Sample() = %q, %v", v, err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want Class
	}{
		{"UU_read1", ClassUnique},
		{"UM_read2", ClassMultiple},
		{"UX_read3", ClassUnmapped},
		{"read4", ClassNone},
		{"uu_read5", ClassNone},
	}
	for _, tc := range cases {
		if got := DefaultClasses.Classify(tc.name); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Overlapping prefixes: multiple is checked before unique.
	c := Classes{Unique: "U", Multiple: "UM", Unmapped: "X"}
	if got := c.Classify("UM_1"); got != ClassMultiple {
		t.Fatalf("got %v, want multiple", got)
	}
	if got := c.Classify("UU_1"); got != ClassUnique {
		t.Fatalf("got %v, want unique", got)
	}
}

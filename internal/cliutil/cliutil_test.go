package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bam")
	b := filepath.Join(dir, "b.bam")
	_ = os.WriteFile(a, []byte("x"), 0o644)
	_ = os.WriteFile(b, []byte("x"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.bam"), "-"})
	if err != nil || len(got) != 3 || got[2] != "-" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
}

func TestExpandPositionals_NoMatch(t *testing.T) {
	if _, err := ExpandPositionals([]string{filepath.Join(t.TempDir(), "*.sam")}); err == nil {
		t.Fatal("expected error for unmatched glob")
	}
}

func TestExpandPositionals_StdinTwice(t *testing.T) {
	if _, err := ExpandPositionals([]string{"-", "-"}); err == nil {
		t.Fatal("expected error for repeated stdin")
	}
}

func TestCheckReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "in.sam")
	_ = os.WriteFile(f, []byte("x"), 0o644)
	if err := CheckReadable([]string{f, "-"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := CheckReadable([]string{dir}); err == nil {
		t.Fatal("directory should be rejected")
	}
	if err := CheckReadable([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Fatal("missing file should be rejected")
	}
}

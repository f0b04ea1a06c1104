package voicecmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestDirSource(dir string) *DirSource {
	return &DirSource{
		dir:      dir,
		interval: 10 * time.Millisecond,
		settle:   0,
		seen:     make(map[string]bool),
	}
}

func TestDirSourcePicksUpNewSegment(t *testing.T) {
	dir := t.TempDir()
	s := newTestDirSource(dir)

	want := []byte("wav-bytes")
	if err := os.WriteFile(filepath.Join(dir, "seg1.wav"), want, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := s.Record(ctx)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("segment = %q, want %q", got, want)
	}
}

func TestDirSourceConsumesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	s := newTestDirSource(dir)

	os.WriteFile(filepath.Join(dir, "seg1.wav"), []byte("one"), 0o644)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Record(ctx); err != nil {
		t.Fatalf("first Record: %v", err)
	}

	// No new file: Record must block until the context runs out.
	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	if _, err := s.Record(shortCtx); err == nil {
		t.Fatal("expected context deadline, got a duplicate segment")
	}
}

func TestDirSourceIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s := newTestDirSource(dir)

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := s.Record(ctx); err == nil {
		t.Fatal("expected context deadline for non-audio files")
	}
}

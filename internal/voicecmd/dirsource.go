package voicecmd

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DirSource yields segments from WAV files dropped into a directory by
// an external push-to-talk recorder. Files are picked up oldest first
// and each file is consumed once.
type DirSource struct {
	dir      string
	interval time.Duration
	settle   time.Duration
	seen     map[string]bool
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{
		dir:      dir,
		interval: 300 * time.Millisecond,
		settle:   500 * time.Millisecond,
		seen:     make(map[string]bool),
	}
}

// Record blocks until a new segment file appears or ctx is done.
func (s *DirSource) Record(ctx context.Context) ([]byte, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if data, ok := s.next(); ok {
			return data, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *DirSource) next() ([]byte, bool) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, false
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var files []candidate

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".wav" && ext != ".mp3" {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if s.seen[path] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		// Skip files the recorder may still be writing.
		if time.Since(info.ModTime()) < s.settle {
			continue
		}
		files = append(files, candidate{path: path, modTime: info.ModTime()})
	}

	if len(files) == 0 {
		return nil, false
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	path := files[0].path
	s.seen[path] = true
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

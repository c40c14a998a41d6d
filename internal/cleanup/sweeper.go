package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Sweeper removes orphaned audio temp files. Per-request asset release is the
// primary cleanup; the sweeper only catches files left behind by a crashed or
// killed process.
type Sweeper struct {
	tempDir  string
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

// NewSweeper creates a sweeper over tempDir.
func NewSweeper(tempDir string, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		tempDir:  tempDir,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

// Start runs one immediate sweep, then sweeps periodically until Stop.
func (s *Sweeper) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Temp sweeper started (interval: %s, max age: %s)", s.interval, s.maxAge)
}

// Stop stops the periodic sweeps.
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

// sweep deletes regular files in tempDir older than maxAge. Files younger
// than that may belong to an in-flight request and are left alone.
func (s *Sweeper) sweep() {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		log.Printf("Temp sweep failed to read %s: %v", s.tempDir, err)
		return
	}

	now := time.Now()
	var deleted int

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.maxAge {
			continue
		}

		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to delete orphaned temp file %s: %v", path, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Printf("Temp sweep removed %d orphaned file(s)", deleted)
	}
}

// EnsureTempDirExists creates the temp directory if it doesn't exist.
func EnsureTempDirExists(tempDir string) error {
	return os.MkdirAll(tempDir, 0755)
}

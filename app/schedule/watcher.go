package schedule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/go-pkgz/lgr"
)

// FileLoader loads schedule from yaml file and watches it for changes
type FileLoader struct {
	file        string
	updInterval time.Duration
}

// NewFileLoader makes loader for file, doesn't read it yet
func NewFileLoader(file string, updInterval time.Duration) *FileLoader {
	return &FileLoader{file: file, updInterval: updInterval}
}

// List loads jobs from the file
func (f *FileLoader) List() ([]JobSpec, error) {
	cfg, err := Load(f.file)
	if err != nil {
		return nil, err
	}
	return cfg.Jobs, nil
}

func (f *FileLoader) String() string { return f.file }

// Changes gets updates channel. Each time modification time of the file changes it gets loaded
// and the full list of jobs is sent to the channel. A change is picked up only after it is half of
// update interval old, so intermediate saves don't reload jobs. Invalid files are logged and skipped.
func (f *FileLoader) Changes(ctx context.Context) (<-chan []JobSpec, error) {
	mtime := func() (time.Time, error) {
		st, err := os.Stat(f.file)
		if err != nil {
			return time.Time{}, fmt.Errorf("can't stat schedule file %s: %w", f.file, err)
		}
		return st.ModTime(), nil
	}

	// missing file is fine, it will be picked up once created
	lastMtime, err := mtime()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	ch := make(chan []JobSpec)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(f.updInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m, err := mtime()
				if err != nil {
					log.Printf("[DEBUG] %v", err)
					continue
				}
				if m.Equal(lastMtime) || time.Since(m) < f.updInterval/2 {
					continue
				}
				lastMtime = m
				jobs, err := f.List()
				if err != nil {
					log.Printf("[WARN] can't load jobs from %s, %v", f.file, err)
					continue
				}
				select {
				case ch <- jobs:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

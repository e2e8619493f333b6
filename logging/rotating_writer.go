package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	logFilePrefix = "dashboard-"
	logFileSuffix = ".log"

	// DefaultMaxFileSize caps a single log file at 100MB
	DefaultMaxFileSize int64 = 100 * 1024 * 1024
)

var errWriterClosed = errors.New("log writer is closed")

var seqFilePattern = regexp.MustCompile(`^dashboard-\d{4}-W\d{2}_(\d{2})\.log$`)

// RotatingWriter writes one log file per ISO week (dashboard-2026-W42.log).
// When a file reaches maxSize, writing continues in a numbered sibling
// (dashboard-2026-W42_01.log). Files older than the retention period are
// removed once a day.
type RotatingWriter struct {
	dir       string
	retention time.Duration
	maxSize   int64

	mu     sync.Mutex
	file   *os.File
	week   string
	seq    int
	size   int64
	closed bool

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRotatingWriter opens the current week's file in dir, creating dir if needed
func NewRotatingWriter(dir string, retentionWeeks int, maxSize int64) (*RotatingWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	w := &RotatingWriter{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxSize:   maxSize,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	w.mu.Lock()
	err := w.openWeek(weekKey(time.Now()))
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go w.cleanupLoop(24 * time.Hour)

	return w, nil
}

// weekKey returns the ISO week in YYYY-Www format
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func fileName(week string, seq int) string {
	if seq == 0 {
		return logFilePrefix + week + logFileSuffix
	}
	return fmt.Sprintf("%s%s_%02d%s", logFilePrefix, week, seq, logFileSuffix)
}

// openWeek switches to the newest file of week that still has room.
// Caller must hold w.mu.
func (w *RotatingWriter) openWeek(week string) error {
	seq := w.highestSeq(week)
	for {
		info, err := os.Stat(filepath.Join(w.dir, fileName(week, seq)))
		if err != nil || w.maxSize <= 0 || info.Size() < w.maxSize {
			break
		}
		seq++
	}
	return w.open(week, seq)
}

// open closes the current file and opens week/seq for appending.
// Caller must hold w.mu.
func (w *RotatingWriter) open(week string, seq int) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		w.file = nil
	}

	path := filepath.Join(w.dir, fileName(week, seq))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	w.file = file
	w.week = week
	w.seq = seq
	w.size = size
	return nil
}

// highestSeq returns the largest sequence number already on disk for week
func (w *RotatingWriter) highestSeq(week string) int {
	matches, _ := filepath.Glob(filepath.Join(w.dir, logFilePrefix+week+"_??"+logFileSuffix))

	highest := 0
	for _, match := range matches {
		groups := seqFilePattern.FindStringSubmatch(filepath.Base(match))
		if len(groups) < 2 {
			continue
		}
		if n, err := strconv.Atoi(groups[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// Write implements io.Writer
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, errWriterClosed
	}

	if week := weekKey(time.Now()); week != w.week || w.file == nil {
		if err := w.openWeek(week); err != nil {
			return 0, err
		}
	} else if w.maxSize > 0 && w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.open(w.week, w.seq+1); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// CurrentFile returns the path being written to
func (w *RotatingWriter) CurrentFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return filepath.Join(w.dir, fileName(w.week, w.seq))
}

// cleanup deletes log files whose modification time is past the retention
// period and returns how many were removed
func (w *RotatingWriter) cleanup() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-w.retention)
	removed := 0

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(w.dir, name)); err == nil {
			removed++
		}
	}

	return removed, nil
}

func (w *RotatingWriter) cleanupLoop(every time.Duration) {
	defer close(w.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			removed, err := w.cleanup()
			if err != nil {
				// Console only, the file handler may be the thing failing
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			} else if removed > 0 {
				fmt.Printf("Cleaned up %d old log files\n", removed)
			}
		}
	}
}

// Close stops the cleanup goroutine and closes the current file
func (w *RotatingWriter) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done

		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		if w.file != nil {
			err = w.file.Close()
			w.file = nil
		}
	})
	return err
}

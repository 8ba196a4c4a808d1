package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives converted output bytes. Store may be called from multiple
// workers concurrently and returns the name the data was stored under.
type Sink interface {
	Exists(name string) bool
	Store(name string, data []byte) (string, error)
}

// DirSink writes outputs to the filesystem, treating names as paths
type DirSink struct{}

func (DirSink) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (DirSink) Store(name string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return name, nil
}

// ArchiveSink collects outputs into an in-memory ZIP archive. Duplicate
// names get a numeric suffix instead of clobbering earlier entries.
type ArchiveSink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	zw     *zip.Writer
	counts map[string]int
	closed bool
}

// NewArchiveSink creates an empty archive
func NewArchiveSink() *ArchiveSink {
	s := &ArchiveSink{counts: make(map[string]int)}
	s.zw = zip.NewWriter(&s.buf)
	return s
}

// Exists always reports false; archive entries never collide because Store
// renames duplicates.
func (s *ArchiveSink) Exists(string) bool {
	return false
}

func (s *ArchiveSink) Store(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("archive already closed")
	}

	entry := filepath.Base(name)
	s.counts[entry]++
	if n := s.counts[entry]; n > 1 {
		ext := filepath.Ext(entry)
		entry = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(entry, ext), n, ext)
	}

	w, err := s.zw.Create(entry)
	if err != nil {
		return "", fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write archive entry: %w", err)
	}

	return entry, nil
}

// Close finalizes the archive and returns its bytes
func (s *ArchiveSink) Close() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		if err := s.zw.Close(); err != nil {
			return nil, fmt.Errorf("finalize archive: %w", err)
		}
	}
	return s.buf.Bytes(), nil
}

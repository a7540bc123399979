package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// DocumentSink receives finished documents one at a time, in emission order.
type DocumentSink interface {
	Emit(ctx context.Context, doc domain.Document) error
}

// DirSink writes each document as a file under Dir.
type DirSink struct {
	Dir string
}

// compile-time check: DirSink must satisfy DocumentSink.
var _ DocumentSink = DirSink{}

// Emit writes doc to Dir/doc.Filename, replacing any existing file.
func (s DirSink) Emit(_ context.Context, doc domain.Document) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("service.DirSink.Emit: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(doc.Filename))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("service.DirSink.Emit: %w", err)
	}
	return nil
}

// ZipSink streams documents into a zip archive written to w.
// Close must be called once all documents are emitted.
type ZipSink struct {
	zw    *zip.Writer
	count int
}

// compile-time check: ZipSink must satisfy DocumentSink.
var _ DocumentSink = (*ZipSink)(nil)

// NewZipSink returns a ZipSink writing to w.
func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w)}
}

// Emit adds doc to the archive as one entry.
func (s *ZipSink) Emit(_ context.Context, doc domain.Document) error {
	f, err := s.zw.CreateHeader(&zip.FileHeader{
		Name:   doc.Filename,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("service.ZipSink.Emit: %w", err)
	}
	if _, err := f.Write(doc.Data); err != nil {
		return fmt.Errorf("service.ZipSink.Emit: %w", err)
	}
	s.count++
	return nil
}

// Count returns how many documents have been added.
func (s *ZipSink) Count() int {
	return s.count
}

// Close finishes the archive.
func (s *ZipSink) Close() error {
	if err := s.zw.Close(); err != nil {
		return fmt.Errorf("service.ZipSink.Close: %w", err)
	}
	return nil
}

// CollectSink keeps every emitted document in memory.
type CollectSink struct {
	mu   sync.Mutex
	docs []domain.Document
}

// compile-time check: CollectSink must satisfy DocumentSink.
var _ DocumentSink = (*CollectSink)(nil)

// Emit appends doc.
func (s *CollectSink) Emit(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

// Documents returns the collected documents in emission order.
func (s *CollectSink) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

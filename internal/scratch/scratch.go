// Package scratch stores stream bodies copied out of a PDF during parsing.
//
// Small bodies stay in memory. Once a body grows beyond the store's memory
// threshold it spills into a single temporary file shared by the whole
// store, so a document with many large streams holds one file handle.
// Closing the store removes the file.
package scratch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// DefaultThreshold is the body size above which a sink spills to disk.
const DefaultThreshold = 4 << 20

// ErrClosed is returned when writing to a closed sink or reading from a
// closed store.
var ErrClosed = errors.New("scratch: closed")

// Store owns the scratch file for one parse.
type Store struct {
	mu        sync.Mutex
	dir       string
	threshold int64
	file      *os.File
	end       int64 // next free offset in file
	writer    *Sink // sink currently appending to file, if any
	closed    bool
}

// NewStore creates a store. dir is the directory for the temporary file
// ("" means os.TempDir). A threshold <= 0 selects DefaultThreshold.
func NewStore(dir string, threshold int64) *Store {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Store{dir: dir, threshold: threshold}
}

// Threshold returns the spill threshold in bytes
func (s *Store) Threshold() int64 {
	return s.threshold
}

// NewSink opens a sink for one stream body. lengthHint is the declared
// length, or -1 when unknown; a hint above the threshold spills at once.
func (s *Store) NewSink(lengthHint int64) *Sink {
	sink := &Sink{store: s}
	if lengthHint > s.threshold {
		// A failed spill leaves the sink in memory.
		_ = sink.spill()
	}
	return sink
}

// Spilled reports whether the store has created its temporary file
func (s *Store) Spilled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Close removes the temporary file. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}
	s.file = nil
	return err
}

// claim makes sink the exclusive appender of the scratch file and returns
// the offset at which its data starts.
func (s *Store) claim(sink *Sink) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.writer != nil {
		return 0, fmt.Errorf("scratch: file busy")
	}
	if s.file == nil {
		f, err := os.CreateTemp(s.dir, "cosparse-*.scratch")
		if err != nil {
			return 0, fmt.Errorf("scratch: create temp file: %w", err)
		}
		s.file = f
	}
	s.writer = sink
	return s.end, nil
}

func (s *Store) writeAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, ErrClosed
	}
	n, err := s.file.WriteAt(p, off)
	if end := off + int64(n); end > s.end {
		s.end = end
	}
	return n, err
}

func (s *Store) readAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, ErrClosed
	}
	return s.file.ReadAt(p, off)
}

func (s *Store) release(sink *Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == sink {
		s.writer = nil
	}
}

// Sink receives the bytes of one stream body. It is written once, closed,
// and then read any number of times.
type Sink struct {
	store  *Store
	mem    bytes.Buffer
	onDisk bool
	start  int64
	n      int64
	closed bool
}

// Write appends p to the body.
func (k *Sink) Write(p []byte) (int, error) {
	if k.closed {
		return 0, ErrClosed
	}
	if !k.onDisk && k.n+int64(len(p)) > k.store.threshold {
		// Stay in memory if the file is unavailable.
		_ = k.spill()
	}
	if k.onDisk {
		n, err := k.store.writeAt(p, k.start+k.n)
		k.n += int64(n)
		return n, err
	}
	n, _ := k.mem.Write(p)
	k.n += int64(n)
	return n, nil
}

// WriteByte appends a single byte.
func (k *Sink) WriteByte(b byte) error {
	_, err := k.Write([]byte{b})
	return err
}

func (k *Sink) spill() error {
	start, err := k.store.claim(k)
	if err != nil {
		return err
	}
	if k.mem.Len() > 0 {
		if _, err := k.store.writeAt(k.mem.Bytes(), start); err != nil {
			k.store.release(k)
			return err
		}
	}
	k.start = start
	k.onDisk = true
	k.mem = bytes.Buffer{}
	return nil
}

// Close ends writing. Closing twice is a no-op.
func (k *Sink) Close() error {
	if k.closed {
		return nil
	}
	k.closed = true
	if k.onDisk {
		k.store.release(k)
	}
	return nil
}

// Len returns the number of bytes written
func (k *Sink) Len() int64 {
	return k.n
}

// OnDisk reports whether the body lives in the scratch file
func (k *Sink) OnDisk() bool {
	return k.onDisk
}

// Bytes returns a copy of the body.
func (k *Sink) Bytes() ([]byte, error) {
	if !k.onDisk {
		return append([]byte(nil), k.mem.Bytes()...), nil
	}
	buf := make([]byte, k.n)
	n, err := k.store.readAt(buf, k.start)
	if err != nil && !(err == io.EOF && int64(n) == k.n) {
		return buf[:n], fmt.Errorf("scratch: read body: %w", err)
	}
	return buf, nil
}

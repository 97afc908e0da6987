package core

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/tsawler/cosparse/internal/scratch"
)

// Config controls a parse.
type Config struct {
	// Lenient makes the body parser resynchronise after a failed object
	// instead of aborting.
	Lenient bool

	// PushbackSize is the initial unread buffer capacity.
	PushbackSize int

	// ScratchDir holds the temporary file for large stream bodies ("" means
	// the system temp directory).
	ScratchDir string

	// MemoryThreshold is the body size above which stream bodies spill to
	// the scratch file.
	MemoryThreshold int64
}

// DefaultConfig returns the configuration used when none is given: lenient,
// with default buffer sizes.
func DefaultConfig() Config {
	return Config{
		Lenient:         true,
		PushbackSize:    DefaultPushbackSize,
		MemoryThreshold: scratch.DefaultThreshold,
	}
}

// Diagnostics counts the repairs made while parsing. Every lenient recovery
// that changes or discards input increments one of these.
type Diagnostics struct {
	SkippedTokens        int // garbage where a value was expected
	DroppedArrayElements int // array elements that parsed to nothing
	DroppedDictValues    int // dictionary entries with a null or missing value
	DictResyncs          int // dictionaries resynchronised after a bad key
	RepairedNumbers      int // malformed numbers salvaged from a prefix
	StrayKeywords        int // tokens starting with 'e' between objects
	ObjectResyncs        int // failed units skipped in lenient mode
	UnboundObjects       int // objects parsed without a usable number
	MissingEndObj        int // objects whose endobj was missing or damaged
	MissingEOFMarker     int // startxref not followed by %%EOF
	BadXRefEntries       int // classic xref lines too short to use
	ConflictsApplied     int // later definitions that replaced an earlier one
	ConflictsDiscarded   int // later definitions the xref table did not confirm
	XRefStreamErrors     int // xref streams that could not be decoded
	ObjectStreamErrors   int // object streams that could not be decoded
}

// Repairs returns the total number of repairs.
func (d Diagnostics) Repairs() int {
	return d.SkippedTokens + d.DroppedArrayElements + d.DroppedDictValues +
		d.DictResyncs + d.RepairedNumbers + d.StrayKeywords + d.ObjectResyncs +
		d.UnboundObjects + d.MissingEndObj + d.MissingEOFMarker + d.BadXRefEntries +
		d.ConflictsApplied + d.ConflictsDiscarded + d.XRefStreamErrors + d.ObjectStreamErrors
}

// Document is the result of parsing a PDF body: the object pool, the
// trailer, the cross-reference table and the header version. It owns the
// scratch storage behind stream bodies and must be closed.
type Document struct {
	cfg       Config
	log       commonlog.Logger
	pool      *Pool
	xref      *XRefTable
	trailer   Dict
	store     *scratch.Store
	version   float64
	header    string
	startXRef int64
	diag      Diagnostics
	closed    bool
}

// NewDocument creates an empty document.
func NewDocument(cfg Config) *Document {
	if cfg.PushbackSize <= 0 {
		cfg.PushbackSize = DefaultPushbackSize
	}
	return &Document{
		cfg:       cfg,
		log:       commonlog.GetLogger("cosparse.core"),
		pool:      NewPool(),
		xref:      NewXRefTable(),
		store:     scratch.NewStore(cfg.ScratchDir, cfg.MemoryThreshold),
		startXRef: -1,
	}
}

// Config returns the configuration the document was parsed with
func (d *Document) Config() Config {
	return d.cfg
}

// Pool returns the object pool
func (d *Document) Pool() *Pool {
	return d.pool
}

// XRef returns the cross-reference table built from xref sections and
// streams. It records what the file claims; the pool holds what was parsed.
func (d *Document) XRef() *XRefTable {
	return d.xref
}

// Version returns the header version, e.g. 1.4
func (d *Document) Version() float64 {
	return d.version
}

// Header returns the header line from the marker on, e.g. "%PDF-1.4"
func (d *Document) Header() string {
	return d.header
}

// IsFDF reports whether the header marker was %FDF-
func (d *Document) IsFDF() bool {
	return len(d.header) >= 5 && d.header[:5] == "%FDF-"
}

// StartXRef returns the offset given after the last startxref keyword. It
// is recorded only; the parser reads the file front to back.
func (d *Document) StartXRef() (int64, bool) {
	return d.startXRef, d.startXRef >= 0
}

// Diagnostics returns the repair counters
func (d *Document) Diagnostics() Diagnostics {
	return d.diag
}

// Trailer returns the trailer dictionary, or nil if none was found
func (d *Document) Trailer() Dict {
	return d.trailer
}

// SetTrailer replaces the trailer
func (d *Document) SetTrailer(trailer Dict) {
	d.trailer = trailer
}

// MergeIntoTrailer adds the entries of dict that the trailer lacks. Keys
// already present keep their first value.
func (d *Document) MergeIntoTrailer(dict Dict) {
	if d.trailer == nil {
		d.trailer = make(Dict, len(dict))
	}
	d.trailer.AddAll(dict)
}

// RecordXRefEntry records that the file places key at offset.
func (d *Document) RecordXRefEntry(key ObjectKey, offset int64) {
	d.xref.Set(key, offset)
}

// XRefContainsOffset reports whether any xref entry points at offset
func (d *Document) XRefContainsOffset(offset int64) bool {
	return d.xref.ContainsOffset(offset)
}

// OpenStreamSink opens scratch storage for one stream body.
func (d *Document) OpenStreamSink(lengthHint int64) *scratch.Sink {
	return d.store.NewSink(lengthHint)
}

// IsEncrypted reports whether the trailer has an /Encrypt entry
func (d *Document) IsEncrypted() bool {
	return d.trailer != nil && d.trailer.Has("Encrypt")
}

// Close releases the object pool and the scratch storage. It is safe to
// call more than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.pool.clear()
	d.trailer = nil
	if err := d.store.Close(); err != nil {
		return fmt.Errorf("close scratch storage: %w", err)
	}
	return nil
}

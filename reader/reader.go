package reader

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/tsawler/cosparse/core"
	"github.com/tsawler/cosparse/info"
	"github.com/tsawler/cosparse/resolver"
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// parseVersion extracts major and minor numbers from a header such as
// "%PDF-1.7".
func parseVersion(header string) PDFVersion {
	m := versionPattern.FindStringSubmatch(header)
	if m == nil {
		return PDFVersion{}
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return PDFVersion{Major: major, Minor: minor}
}

// Reader gives access to a parsed PDF: its objects, trailer, catalog and
// document information. The whole file is read when the Reader is
// created; nothing is loaded lazily.
type Reader struct {
	doc      *core.Document
	resolver *resolver.ObjectResolver
	log      commonlog.Logger
	version  PDFVersion
	fileSize int64
}

// Option configures parsing
type Option func(*options)

type options struct {
	cfg      core.Config
	maxDepth int
}

// WithLenient turns recovery from damaged objects on or off (default on).
// A strict parse fails at the first error.
func WithLenient(lenient bool) Option {
	return func(o *options) {
		o.cfg.Lenient = lenient
	}
}

// WithScratchDir sets the directory for the temporary file that holds
// large stream bodies
func WithScratchDir(dir string) Option {
	return func(o *options) {
		o.cfg.ScratchDir = dir
	}
}

// WithMemoryThreshold sets the stream body size above which bodies are
// kept on disk
func WithMemoryThreshold(n int64) Option {
	return func(o *options) {
		o.cfg.MemoryThreshold = n
	}
}

// WithPushbackSize sets the initial pushback buffer capacity
func WithPushbackSize(n int) Option {
	return func(o *options) {
		o.cfg.PushbackSize = n
	}
}

// WithMaxDepth limits the nesting ResolveDeep follows (default: 100)
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

func newOptions(opts []Option) options {
	o := options{cfg: core.DefaultConfig(), maxDepth: 100}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Ensure Reader can back a resolver
var _ resolver.ObjectReader = (*Reader)(nil)

// NewReader parses a PDF from r. If r is an io.Closer it is closed once
// parsing ends.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	doc, err := core.Parse(r, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	reader := &Reader{
		doc:     doc,
		log:     commonlog.GetLogger("cosparse.reader"),
		version: parseVersion(doc.Header()),
	}
	reader.resolver = resolver.NewResolver(reader, resolver.WithMaxDepth(o.maxDepth))

	if d := doc.Diagnostics(); d.Repairs() > 0 {
		reader.log.Infof("parsed with %d repairs", d.Repairs())
	}
	return reader, nil
}

// Open opens and parses a PDF file
func Open(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var size int64
	if fileInfo, err := file.Stat(); err == nil {
		size = fileInfo.Size()
	}

	// NewReader closes the file.
	reader, err := NewReader(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	reader.fileSize = size
	return reader, nil
}

// Close releases the parsed objects and any scratch storage
func (r *Reader) Close() error {
	if r.doc == nil {
		return nil
	}
	return r.doc.Close()
}

// Document returns the underlying parsed document
func (r *Reader) Document() *core.Document {
	return r.doc
}

// Version returns the PDF version from the header
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Header returns the header marker, e.g. "%PDF-1.7"
func (r *Reader) Header() string {
	return r.doc.Header()
}

// IsFDF reports whether the file is an FDF rather than a PDF
func (r *Reader) IsFDF() bool {
	return r.doc.IsFDF()
}

// IsEncrypted reports whether the trailer names an encryption dictionary
func (r *Reader) IsEncrypted() bool {
	return r.doc.IsEncrypted()
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.doc.Trailer()
}

// Diagnostics returns the repairs made while parsing
func (r *Reader) Diagnostics() core.Diagnostics {
	return r.doc.Diagnostics()
}

// XRefTable returns the cross-reference table
// Exposed for debugging/inspection
func (r *Reader) XRefTable() *core.XRefTable {
	return r.doc.XRef()
}

// StartXRef returns the offset given by the last startxref marker
func (r *Reader) StartXRef() (int64, bool) {
	return r.doc.StartXRef()
}

// FileSize returns the size of the PDF file in bytes, or 0 when the
// Reader was not created by Open
func (r *Reader) FileSize() int64 {
	return r.fileSize
}

// Objects returns the keys of every defined object in ascending order
func (r *Reader) Objects() []core.ObjectKey {
	var keys []core.ObjectKey
	for _, key := range r.doc.Pool().Keys() {
		if slot, ok := r.doc.Pool().Lookup(key); ok && slot.Bound() {
			keys = append(keys, key)
		}
	}
	return keys
}

// Lookup returns the value of the object with the given key
func (r *Reader) Lookup(key core.ObjectKey) (core.Object, error) {
	slot, ok := r.doc.Pool().Lookup(key)
	if !ok || !slot.Bound() {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return slot.Object, nil
}

// GetObject returns the value of object objNum. Generation 0 is preferred;
// otherwise the lowest defined generation is used.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, err := r.Lookup(core.ObjectKey{Number: objNum}); err == nil {
		return obj, nil
	}
	for _, key := range r.doc.Pool().Keys() {
		if key.Number != objNum {
			continue
		}
		if obj, err := r.Lookup(key); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("object %d not found", objNum)
}

// Resolve follows references until it reaches a direct value
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	defer r.resolver.Reset()
	return r.resolver.Resolve(obj)
}

// ResolveDeep returns a copy of obj with every nested reference replaced by
// its value. A reference cycle is an error.
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	defer r.resolver.Reset()
	return r.resolver.ResolveDeep(obj)
}

// Catalog returns the document catalog (the trailer's /Root)
func (r *Reader) Catalog() (core.Dict, error) {
	trailer := r.Trailer()
	if trailer == nil {
		return nil, fmt.Errorf("document has no trailer")
	}
	rootRef := trailer.Raw("Root")
	if rootRef == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}

	obj, err := r.Resolve(rootRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}

	return catalog, nil
}

// Info returns the document information dictionary, or nil if the
// trailer has none
func (r *Reader) Info() (core.Dict, error) {
	trailer := r.Trailer()
	if trailer == nil {
		return nil, nil
	}
	infoRef := trailer.Raw("Info")
	if infoRef == nil {
		return nil, nil // Info is optional
	}

	obj, err := r.Resolve(infoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}

	switch v := obj.(type) {
	case core.Dict:
		return v, nil
	case core.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("info is not a dictionary: %T", obj)
}

// Metadata decodes the document information dictionary
func (r *Reader) Metadata() (*info.Metadata, error) {
	dict, err := r.Info()
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return &info.Metadata{}, nil
	}
	return info.FromDict(dict), nil
}

// NumObjects returns /Size from the trailer, or the number of defined
// objects when the trailer has no usable /Size
func (r *Reader) NumObjects() int {
	if trailer := r.Trailer(); trailer != nil {
		if size, ok := trailer.GetInt("Size"); ok && size > 0 {
			return int(size)
		}
	}
	return r.doc.Pool().Bound()
}

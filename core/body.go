package core

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
)

// objectHeader matches "N G obj" at the start of a resync window.
var objectHeader = regexp.MustCompile(`^\d+\s+\d+\s+obj`)

// resyncWindow is the number of bytes examined at each resync position.
const resyncWindow = 32

// resyncMarkers are the keywords a resync stops at.
var resyncMarkers = [][]byte{
	[]byte(kwTrailer),
	[]byte(kwXRef),
	[]byte(kwStartXRef),
	[]byte(kwStream),
}

// BodyParser reads a whole PDF front to back: header, indirect objects,
// xref sections, trailers and startxref markers, in whatever order and
// number they appear. Offsets in the file are never seeked to.
type BodyParser struct {
	doc       *Document
	lex       *Lexer
	parser    *Parser
	log       commonlog.Logger
	conflicts []PendingConflict
}

// Parse reads a PDF from r into a new Document. The reader is consumed and,
// if it is an io.Closer, closed. On error the partial document is released.
func Parse(r io.Reader, cfg Config) (*Document, error) {
	doc := NewDocument(cfg)
	pr := NewPushbackReaderSize(r, doc.cfg.PushbackSize)
	bp := NewBodyParser(pr, doc)

	err := bp.Parse()
	if closeErr := pr.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		doc.Close()
		return nil, err
	}
	return doc, nil
}

// NewBodyParser creates a body parser reading from r into doc.
func NewBodyParser(r *PushbackReader, doc *Document) *BodyParser {
	lex := NewLexer(r)
	return &BodyParser{
		doc:    doc,
		lex:    lex,
		parser: newParser(lex, doc),
		log:    commonlog.GetLogger("cosparse.body"),
	}
}

// Document returns the document being built
func (b *BodyParser) Document() *Document {
	return b.doc
}

// Parse runs the whole parse: header, every top-level unit until end of
// input, then xref stream merging, object stream decoding and conflict
// resolution.
func (b *BodyParser) Parse() error {
	if err := b.parseHeader(); err != nil {
		return err
	}
	if err := b.skipToNextObj(); err != nil {
		return err
	}

	lastWasEOF := false
	for !b.lex.AtEnd() {
		start := b.lex.Offset()
		isEOF, err := b.parseUnit()
		if err != nil {
			if !b.doc.cfg.Lenient {
				if lastWasEOF {
					// Trailing junk after %%EOF
					b.log.Debugf("ignoring error after %%%%EOF: %s", err)
					break
				}
				return err
			}
			b.doc.diag.ObjectResyncs++
			b.log.Warningf("skipping to next object: %s", err)
			if err := b.resync(start); err != nil {
				if lastWasEOF {
					b.log.Debugf("ignoring error after %%%%EOF: %s", err)
					break
				}
				return err
			}
		} else {
			lastWasEOF = isEOF
		}
		if err := b.lex.SkipSpaces(); err != nil {
			if lastWasEOF {
				break
			}
			return err
		}
	}
	if err := b.lex.Reader().Err(); err != nil && !lastWasEOF {
		return err
	}

	return b.finish()
}

// finish runs the steps that need the whole file: xref streams stand in
// for a missing trailer, object streams fill empty slots, and conflicting
// definitions are settled against the finished xref table.
func (b *BodyParser) finish() error {
	if b.doc.Trailer() == nil {
		if err := b.mergeXRefStreams(); err != nil {
			return err
		}
	}
	if !b.doc.IsEncrypted() {
		if err := b.doc.DecodeObjectStreams(); err != nil {
			return err
		}
	}

	applied, discarded := ResolveConflicts(b.doc.pool, b.doc.xref, b.conflicts)
	b.doc.diag.ConflictsApplied += applied
	b.doc.diag.ConflictsDiscarded += discarded
	if applied+discarded > 0 {
		b.log.Infof("duplicate object definitions: %d applied, %d discarded", applied, discarded)
	}
	b.conflicts = nil
	return nil
}

// mergeXRefStreams builds the trailer from the dictionaries of all /Type
// /XRef streams and records their entries in the xref table.
func (b *BodyParser) mergeXRefStreams() error {
	for _, slot := range b.doc.pool.ObjectsByType("XRef") {
		stream, ok := slot.Object.(*Stream)
		if !ok {
			continue
		}
		b.doc.MergeIntoTrailer(stream.Dict)
		if err := DecodeXRefStream(stream, b.doc.xref); err != nil {
			b.doc.diag.XRefStreamErrors++
			b.log.Warningf("xref stream %s: %s", slot.Key, err)
			if !b.doc.cfg.Lenient {
				return err
			}
		}
	}
	return nil
}

// parseHeader finds the %PDF- or %FDF- line and records its version.
// Garbage before the marker on the same line is dropped, and anything
// after the three version characters is pushed back as body input.
func (b *BodyParser) parseHeader() error {
	start := b.lex.Offset()
	line, err := b.lex.ReadLine()
	if err != nil {
		return &ParseError{Kind: KindInvalidHeader, Offset: start, Msg: "no header line", Err: err}
	}
	for !hasHeaderMarker(line) {
		if line != "" && isDigit(int(line[0])) {
			break
		}
		if line, err = b.lex.ReadLine(); err != nil {
			return &ParseError{Kind: KindInvalidHeader, Offset: start, Msg: "header not found", Err: err}
		}
	}
	if !hasHeaderMarker(line) {
		return newError(KindInvalidHeader, start, "header doesn't contain version info")
	}

	idx := strings.Index(line, "%PDF-")
	if idx < 0 {
		idx = strings.Index(line, "%FDF-")
	}
	line = line[idx:]
	const headerLen = len("%PDF-") + 3
	if len(line) > headerLen {
		b.lex.r.Unread([]byte(line[headerLen:] + "\n"))
		line = line[:headerLen]
	}

	version, err := strconv.ParseFloat(line[len("%PDF-"):], 64)
	if err != nil {
		return &ParseError{Kind: KindInvalidHeader, Offset: start, Msg: strconv.Quote(line), Err: err}
	}
	b.doc.header = line
	b.doc.version = version
	b.log.Debugf("header %s", line)
	return nil
}

func hasHeaderMarker(line string) bool {
	return strings.Contains(line, "%PDF-") || strings.Contains(line, "%FDF-")
}

// parseUnit parses one top-level unit and reports whether it was a
// startxref marker, after which input may legitimately end or hold junk.
func (b *BodyParser) parseUnit() (bool, error) {
	if err := b.lex.SkipSpaces(); err != nil {
		return false, err
	}
	c, err := b.lex.peek()
	if err != nil {
		return false, err
	}

	// Stray endobj, endstream and the like between objects
	for c == 'e' {
		tok, err := b.lex.ReadBareString()
		if err != nil {
			return false, err
		}
		b.doc.diag.StrayKeywords++
		b.log.Debugf("skipping stray %q at offset %d", tok, b.lex.Offset())
		if err := b.lex.SkipSpaces(); err != nil {
			return false, err
		}
		if c, err = b.lex.peek(); err != nil {
			return false, err
		}
	}

	switch c {
	case eof:
		return false, nil
	case 'x':
		return false, b.parser.parseXRefSection()
	case 't', 's':
		if c == 't' {
			if err := b.parseTrailer(); err != nil {
				return false, err
			}
			if c, err = b.lex.peek(); err != nil {
				return false, err
			}
		}
		if c != 's' {
			return false, nil
		}
		return b.parseStartXRef()
	}
	return false, b.parseIndirectObject()
}

// parseTrailer reads "trailer" and its dictionary. The first trailer is
// kept; later ones only add keys it lacks.
func (b *BodyParser) parseTrailer() error {
	start := b.lex.Offset()
	line, err := b.lex.ReadLine()
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) != kwTrailer {
		if !strings.HasPrefix(line, kwTrailer) {
			b.log.Debugf("expected %q at offset %d, got %q", kwTrailer, start, line)
			return nil
		}
		// "trailer<<..." on one line
		b.lex.r.Unread([]byte(line[len(kwTrailer):] + "\n"))
	}
	if err := b.lex.SkipSpaces(); err != nil {
		return err
	}

	dict, err := b.parser.parseDict()
	if err != nil {
		return err
	}
	if b.doc.Trailer() == nil {
		b.doc.SetTrailer(dict)
	} else {
		b.doc.MergeIntoTrailer(dict)
	}
	return b.lex.SkipSpaces()
}

// parseStartXRef reads "startxref", its offset and the %%EOF marker that
// should follow. A damaged marker is pushed back as input.
func (b *BodyParser) parseStartXRef() (bool, error) {
	tok, err := b.lex.ReadBareString()
	if err != nil {
		return false, err
	}
	if tok != kwStartXRef {
		b.log.Debugf("expected %q, got %q", kwStartXRef, tok)
		return false, nil
	}
	offset, err := b.lex.ReadInt()
	if err != nil {
		return false, err
	}
	b.doc.startXRef = int64(offset)

	// Whitespace only; %%EOF looks like a comment.
	c, err := b.lex.read()
	for err == nil && isWhitespace(c) {
		c, err = b.lex.read()
	}
	if err != nil {
		return false, err
	}
	b.lex.unread(c)
	if c == eof {
		b.doc.diag.MissingEOFMarker++
		return true, nil
	}

	line, err := b.lex.ReadLine()
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(line) != eofMarker {
		b.doc.diag.MissingEOFMarker++
		if strings.HasPrefix(line, eofMarker) {
			b.lex.r.Unread([]byte(line[len(eofMarker):] + " "))
		} else {
			b.log.Warningf("expected %s after startxref, got %q", eofMarker, line)
			b.lex.r.Unread([]byte(line + " "))
		}
	}
	return true, nil
}

// parseIndirectObject parses "N G obj value [stream] endobj" and binds the
// value into the pool. A second definition of a bound key is held back as
// a PendingConflict until the xref table is complete.
func (b *BodyParser) parseIndirectObject() error {
	offset := b.lex.Offset()
	key, missing, err := b.parseObjectHeader()
	if err != nil {
		return err
	}

	value, err := b.parser.parseDirectValue()
	if err != nil {
		return err
	}
	if _, ok := value.(danglingRef); ok {
		value = nil
	}

	kw, err := b.lex.ReadBareString()
	if err != nil {
		return err
	}
	endobjDone := false
	if kw == kwStream {
		dict, ok := value.(Dict)
		if !ok {
			return newError(KindUnexpectedByte, b.lex.Offset(), "stream not preceded by a dictionary in object %s", key)
		}
		b.lex.r.Unread([]byte(kwStream + " "))
		stream, consumed, err := b.parser.parseStream(dict)
		if err != nil {
			return err
		}
		value = stream
		endobjDone = consumed
		if !endobjDone {
			if kw, err = b.lex.ReadBareString(); err != nil {
				return err
			}
		}
	}

	b.bind(offset, key, missing, value)

	if endobjDone {
		return nil
	}
	return b.expectEndObj(kw)
}

// parseObjectHeader reads "N G obj". An object starting directly with '<'
// has no usable number; its value is parsed but not bound.
func (b *BodyParser) parseObjectHeader() (key ObjectKey, missing bool, err error) {
	c, err := b.lex.peek()
	if err != nil {
		return key, false, err
	}
	if c == '<' {
		return key, true, nil
	}

	num, err := b.lex.ReadInt()
	if err != nil {
		// Drop the offending token and try once more.
		if _, err := b.lex.ReadBareString(); err != nil {
			return key, false, err
		}
		if num, err = b.lex.ReadInt(); err != nil {
			return key, false, err
		}
	}
	gen, err := b.lex.ReadInt()
	if err != nil {
		return key, false, err
	}
	start := b.lex.Offset()
	kw, err := b.lex.ReadBoundedString(len(kwObj))
	if err != nil {
		return key, false, err
	}
	if kw != kwObj && !(b.doc.cfg.Lenient && kw == "o") {
		return key, false, newError(KindUnexpectedByte, start, "expected %q, got %q", kwObj, kw)
	}
	return ObjectKey{Number: num, Generation: gen}, false, nil
}

func (b *BodyParser) bind(offset int64, key ObjectKey, missing bool, value Object) {
	switch {
	case missing:
		b.doc.diag.UnboundObjects++
		b.log.Warningf("object at offset %d has no object number", offset)
	case value == nil:
		b.log.Debugf("object %s at offset %d has no value", key, offset)
	default:
		slot := b.doc.pool.GetOrCreate(key)
		if !slot.Bound() {
			b.doc.pool.Bind(slot, value)
			return
		}
		b.conflicts = append(b.conflicts, PendingConflict{Offset: offset, Key: key, Object: value})
	}
}

// expectEndObj checks the keyword after an object's value. Damage that
// still lets the next object parse is tolerated.
func (b *BodyParser) expectEndObj(kw string) error {
	if kw == kwEndObj {
		return nil
	}
	b.doc.diag.MissingEndObj++
	if strings.HasPrefix(kw, kwEndObj) {
		b.lex.r.Unread([]byte(kw[len(kwEndObj):]))
		return nil
	}
	if strings.HasSuffix(strings.TrimSpace(kw), kwEndObj) {
		b.log.Warningf("junk before %s: %q", kwEndObj, kw)
		return nil
	}
	if b.lex.AtEnd() {
		return nil
	}
	if _, err := strconv.ParseFloat(kw, 64); err == nil {
		// Probably the next object's number: endobj is missing.
		b.lex.r.Unread([]byte(kw + " "))
		return nil
	}

	second, err := b.lex.ReadBareString()
	if err != nil {
		return err
	}
	if second == kwEndObj {
		return nil
	}
	c, err := b.lex.peek()
	if err != nil {
		return err
	}
	if c == ']' {
		b.lex.read()
	}
	if err := b.lex.SkipSpaces(); err != nil {
		return err
	}
	third, err := b.lex.ReadBareString()
	if err != nil {
		return err
	}
	if third != kwEndObj {
		return newError(KindUnexpectedTrailingData, b.lex.Offset(), "expected %q, got %q %q %q", kwEndObj, kw, second, third)
	}
	return nil
}

// resync moves past a unit that failed to parse at start.
func (b *BodyParser) resync(start int64) error {
	if err := b.skipToNextObj(); err != nil {
		return err
	}
	if b.lex.Offset() <= start {
		// The failed unit starts at a resync marker. Step past it.
		b.lex.read()
		return b.skipToNextObj()
	}
	return nil
}

// skipToNextObj advances to the next "N G obj", trailer, xref, startxref
// or stream, examining a small window at each byte position. The matched
// window is pushed back whole.
func (b *BodyParser) skipToNextObj() error {
	buf := make([]byte, resyncWindow)
	for !b.lex.AtEnd() {
		n, err := io.ReadFull(b.lex.r, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return err
		}
		window := buf[:n]
		if isResyncPoint(window) {
			b.lex.r.Unread(window)
			return nil
		}
		if n > 1 {
			b.lex.r.Unread(window[1:])
		}
	}
	return nil
}

func isResyncPoint(window []byte) bool {
	for _, m := range resyncMarkers {
		if bytes.HasPrefix(window, m) {
			return true
		}
	}
	return objectHeader.Match(window)
}

package core

import (
	"bytes"
	"fmt"
)

// ObjectStream represents a PDF Object Stream (Type /ObjStm), introduced in PDF 1.5.
// Object streams store multiple objects in a single compressed stream. The
// objects are parsed with the document's parser, so references inside them
// resolve to the same pool slots as references in the file body.
type ObjectStream struct {
	doc     *Document
	stream  *Stream
	n       int
	first   int
	extends *IndirectObject      // optional ObjStm this one extends
	objects map[int]Object       // parsed objects by index
	offsets []objectStreamOffset // header pairs
	decoded []byte
}

// objectStreamOffset pairs an object number with its byte offset within the decoded data.
type objectStreamOffset struct {
	ObjNum int
	Offset int // relative to First
}

// NewObjectStream creates an ObjectStream from a Stream object.
// The stream must have Type /ObjStm and required entries /N and /First.
func NewObjectStream(doc *Document, stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}

	typeName, ok := stream.Dict.GetName("Type")
	if !ok || typeName != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type: %v", stream.Dict.Get("Type"))
	}

	nInt, ok := stream.Dict.GetInt("N")
	if !ok {
		return nil, fmt.Errorf("object stream missing /N")
	}
	if nInt < 0 {
		return nil, fmt.Errorf("invalid /N value: %d", nInt)
	}

	firstInt, ok := stream.Dict.GetInt("First")
	if !ok {
		return nil, fmt.Errorf("object stream missing /First")
	}
	if firstInt < 0 {
		return nil, fmt.Errorf("invalid /First value: %d", firstInt)
	}

	var extends *IndirectObject
	if stream.Dict.Has("Extends") {
		ref, ok := stream.Dict.GetIndirect("Extends")
		if !ok {
			return nil, fmt.Errorf("invalid /Extends type: %T", stream.Dict.Raw("Extends"))
		}
		extends = ref
	}

	return &ObjectStream{
		doc:     doc,
		stream:  stream,
		n:       int(nInt),
		first:   int(firstInt),
		extends: extends,
		objects: make(map[int]Object),
	}, nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int {
	return os.n
}

// First returns the byte offset to the first object's data in the decoded stream.
func (os *ObjectStream) First() int {
	return os.first
}

// Extends returns the slot of the object stream this one extends, or nil.
func (os *ObjectStream) Extends() *IndirectObject {
	return os.extends
}

// decode decodes the stream data and parses the header on first access.
func (os *ObjectStream) decode() error {
	if os.decoded != nil {
		return nil
	}

	decoded, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	os.decoded = decoded

	if err := os.parseHeader(); err != nil {
		return fmt.Errorf("failed to parse object stream header: %w", err)
	}
	return nil
}

// parseHeader reads the N pairs "objNum offset" before First. A header cut
// short keeps the pairs read so far.
func (os *ObjectStream) parseHeader() error {
	if os.first > len(os.decoded) {
		return fmt.Errorf("First offset (%d) exceeds decoded data length (%d)", os.first, len(os.decoded))
	}

	lex := NewLexer(NewPushbackReader(bytes.NewReader(os.decoded[:os.first])))
	os.offsets = make([]objectStreamOffset, 0, os.n)
	for i := 0; i < os.n; i++ {
		if err := lex.SkipSpaces(); err != nil {
			return err
		}
		if lex.AtEnd() {
			break
		}
		objNum, err := lex.ReadInt()
		if err != nil {
			return fmt.Errorf("object number %d: %w", i, err)
		}
		offset, err := lex.ReadInt()
		if err != nil {
			return fmt.Errorf("offset %d: %w", i, err)
		}
		os.offsets = append(os.offsets, objectStreamOffset{ObjNum: objNum, Offset: offset})
	}
	return nil
}

// GetObjectByIndex extracts an object by its index within the stream (0-based).
// Returns the object, its object number, and any error.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}

	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}

	if obj, ok := os.objects[index]; ok {
		return obj, os.offsets[index].ObjNum, nil
	}

	offset := os.first + os.offsets[index].Offset
	endOffset := len(os.decoded)
	if index+1 < len(os.offsets) {
		endOffset = os.first + os.offsets[index+1].Offset
	}
	if offset >= len(os.decoded) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", offset, len(os.decoded))
	}
	if endOffset > len(os.decoded) || endOffset < offset {
		endOffset = len(os.decoded)
	}

	obj, err := newObjectParser(os.decoded[offset:endOffset], os.doc).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}

	os.objects[index] = obj
	return obj, os.offsets[index].ObjNum, nil
}

// objectPushbackSize is the initial unread capacity for parsing one
// compressed object. The buffer still grows if a value needs more.
const objectPushbackSize = 64

// newObjectParser parses a compressed object's bytes into doc.
func newObjectParser(data []byte, doc *Document) *Parser {
	return NewDocumentParser(NewPushbackReaderSize(bytes.NewReader(data), objectPushbackSize), doc)
}

// GetObjectByNumber finds and extracts an object by its object number.
// Returns the object, its index within the stream, and any error.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}

	for i, entry := range os.offsets {
		if entry.ObjNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers returns a slice of all object numbers stored in this stream.
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.decode(); err != nil {
		return nil, err
	}

	nums := make([]int, len(os.offsets))
	for i, entry := range os.offsets {
		nums[i] = entry.ObjNum
	}
	return nums, nil
}

// ContainsObject reports whether the given object number is stored in this stream.
func (os *ObjectStream) ContainsObject(objNum int) (bool, error) {
	if err := os.decode(); err != nil {
		return false, err
	}

	for _, entry := range os.offsets {
		if entry.ObjNum == objNum {
			return true, nil
		}
	}
	return false, nil
}

// DecodeObjectStreams binds the objects held in every /Type /ObjStm stream
// of the pool. Only empty slots are filled: an object defined directly in
// the file body takes precedence over a compressed copy. A stream that
// fails to decode is logged and skipped.
func (d *Document) DecodeObjectStreams() error {
	for _, slot := range d.pool.ObjectsByType("ObjStm") {
		stream, ok := slot.Object.(*Stream)
		if !ok {
			continue
		}
		if err := d.decodeObjectStream(stream); err != nil {
			d.diag.ObjectStreamErrors++
			d.log.Warningf("object stream %s: %s", slot.Key, err)
			if !d.cfg.Lenient {
				return fmt.Errorf("object stream %s: %w", slot.Key, err)
			}
		}
	}
	return nil
}

func (d *Document) decodeObjectStream(stream *Stream) error {
	os, err := NewObjectStream(d, stream)
	if err != nil {
		return err
	}
	nums, err := os.ObjectNumbers()
	if err != nil {
		return err
	}
	for i, num := range nums {
		slot := d.pool.GetOrCreate(ObjectKey{Number: num})
		if slot.Bound() {
			continue
		}
		obj, _, err := os.GetObjectByIndex(i)
		if err != nil {
			d.diag.ObjectStreamErrors++
			d.log.Debugf("object %d in object stream: %s", num, err)
			continue
		}
		if obj != nil {
			d.pool.Bind(slot, obj)
		}
	}
	return nil
}

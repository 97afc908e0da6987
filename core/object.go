package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/cosparse/internal/scratch"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjString:
		return "String"
	case ObjName:
		return "Name"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjStream:
		return "Stream"
	case ObjIndirect:
		return "Indirect"
	default:
		return "Unknown"
	}
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF string. The value holds the decoded bytes of a
// literal or hexadecimal string.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// Name represents a PDF name
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	var parts []string
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index, following indirect objects
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return Resolve(a[index])
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := a.Get(index).(Int)
	return i, ok
}

// GetReal retrieves a real number at the given index
func (a Array) GetReal(index int) (Real, bool) {
	r, ok := a.Get(index).(Real)
	return r, ok
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// Dict represents a PDF dictionary
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	keys := d.Keys()
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("/%s %s", key, d[key].String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary, following indirect objects.
// Use Raw to see the stored value itself.
func (d Dict) Get(key string) Object {
	return Resolve(d[key])
}

// Raw returns the stored value without following indirect objects
func (d Dict) Raw(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d.Get(key).(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d.Get(key).(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d.Get(key).(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d.Get(key).(Array)
	return arr, ok
}

// GetReal retrieves a real number value
func (d Dict) GetReal(key string) (Real, bool) {
	r, ok := d.Get(key).(Real)
	return r, ok
}

// GetString retrieves a string value
func (d Dict) GetString(key string) (String, bool) {
	s, ok := d.Get(key).(String)
	return s, ok
}

// GetBool retrieves a boolean value
func (d Dict) GetBool(key string) (Bool, bool) {
	b, ok := d.Get(key).(Bool)
	return b, ok
}

// GetStream retrieves a stream value
func (d Dict) GetStream(key string) (*Stream, bool) {
	s, ok := d.Get(key).(*Stream)
	return s, ok
}

// GetIndirect retrieves the pool slot stored under key, if the value is an
// indirect reference
func (d Dict) GetIndirect(key string) (*IndirectObject, bool) {
	ref, ok := d[key].(*IndirectObject)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Delete removes a key from the dictionary
func (d Dict) Delete(key string) {
	delete(d, key)
}

// Keys returns all keys in the dictionary
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}

// AddAll copies every entry of other whose key is not already present.
func (d Dict) AddAll(other Dict) {
	for k, v := range other {
		if _, ok := d[k]; !ok {
			d[k] = v
		}
	}
}

// Stream represents a PDF stream object. Streams built in memory carry
// their bytes in Data; streams produced by the parser keep them in a
// scratch sink owned by the document.
type Stream struct {
	Dict Dict
	Data []byte
	body *scratch.Sink
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), s.Len())
}

// Len returns the number of raw (still encoded) bytes in the stream
func (s *Stream) Len() int64 {
	if s.body != nil {
		return s.body.Len()
	}
	return int64(len(s.Data))
}

// Raw returns the raw, still encoded stream bytes.
func (s *Stream) Raw() ([]byte, error) {
	if s.body != nil {
		return s.body.Bytes()
	}
	return s.Data, nil
}

// Length returns the declared /Length, following an indirect reference.
func (s *Stream) Length() (int64, bool) {
	n, ok := s.Dict.GetInt("Length")
	return int64(n), ok
}

// WithDict returns a stream sharing s's body with a different dictionary.
func (s *Stream) WithDict(dict Dict) *Stream {
	return &Stream{Dict: dict, Data: s.Data, body: s.body}
}

// ObjectKey identifies an indirect object by object and generation number.
type ObjectKey struct {
	Number     int
	Generation int
}

func (k ObjectKey) String() string {
	return fmt.Sprintf("%d %d", k.Number, k.Generation)
}

// IndirectObject is a slot in the document's object pool. The same pointer
// is stored wherever the file refers to the object with "N G R", so a
// reference parsed before its target is filled in once the target is bound.
type IndirectObject struct {
	Key    ObjectKey
	Object Object // nil until bound
}

func (o *IndirectObject) Type() ObjectType { return ObjIndirect }
func (o *IndirectObject) String() string {
	return fmt.Sprintf("%d %d R", o.Key.Number, o.Key.Generation)
}

// Bound reports whether a value has been stored in the slot
func (o *IndirectObject) Bound() bool {
	return o.Object != nil
}

// maxIndirection bounds Resolve on chains of references to references.
const maxIndirection = 32

// Resolve follows pool slots until it reaches a direct value. Unbound slots
// resolve to nil.
func Resolve(obj Object) Object {
	for i := 0; i < maxIndirection; i++ {
		ref, ok := obj.(*IndirectObject)
		if !ok {
			return obj
		}
		if ref == nil || ref.Object == nil {
			return nil
		}
		obj = ref.Object
	}
	return nil
}

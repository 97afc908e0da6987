package resolver

import (
	"fmt"

	"github.com/tsawler/cosparse/core"
)

// ObjectResolver expands pool slots in PDF objects. It can recursively
// resolve references in dictionaries, arrays and stream dictionaries.
type ObjectResolver struct {
	reader       ObjectReader
	visited      map[core.ObjectKey]bool // Cycle detection
	maxDepth     int                     // Maximum recursion depth
	currentDepth int                     // Current recursion depth
	undefined    core.Object             // Value of a reference to an unbound slot
}

// ObjectReader loads objects by number. reader.Reader implements it.
type ObjectReader interface {
	GetObject(objNum int) (core.Object, error)
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// WithUndefined sets the value substituted for references to objects the
// file never defines (default: null).
func WithUndefined(obj core.Object) Option {
	return func(r *ObjectResolver) {
		r.undefined = obj
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:    reader,
		visited:   make(map[core.ObjectKey]bool),
		maxDepth:  100,
		undefined: core.Null{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve follows a chain of references to a direct value. Dictionaries
// and arrays are returned as they are.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.resolve(obj, false)
}

// ResolveDeep returns a copy of obj with every reference inside it
// replaced by its value.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolve(obj, true)
}

func (r *ObjectResolver) resolve(obj core.Object, deep bool) (core.Object, error) {
	// A fresh visited set per top-level call; within one call it holds the
	// slots on the current path only.
	if r.currentDepth == 0 {
		r.visited = make(map[core.ObjectKey]bool)
	}

	if r.currentDepth >= r.maxDepth {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", r.maxDepth)
	}

	switch v := obj.(type) {
	case *core.IndirectObject:
		if v == nil || !v.Bound() {
			return r.undefined, nil
		}
		if r.visited[v.Key] {
			return nil, fmt.Errorf("circular reference detected for object %s", v.Key)
		}
		r.visited[v.Key] = true
		defer delete(r.visited, v.Key)

		// The slot may hold another reference; follow it either way.
		r.currentDepth++
		resolved, err := r.resolve(v.Object, deep)
		r.currentDepth--
		if err != nil {
			return nil, err
		}
		return resolved, nil

	case core.Dict:
		if !deep {
			return v, nil
		}

		resolved := make(core.Dict, len(v))
		for key, value := range v {
			r.currentDepth++
			resolvedValue, err := r.resolve(value, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			resolved[key] = resolvedValue
		}
		return resolved, nil

	case core.Array:
		if !deep {
			return v, nil
		}

		resolved := make(core.Array, len(v))
		for i, elem := range v {
			r.currentDepth++
			resolvedElem, err := r.resolve(elem, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = resolvedElem
		}
		return resolved, nil

	case *core.Stream:
		if !deep {
			return v, nil
		}

		r.currentDepth++
		resolvedDict, err := r.resolve(v.Dict, deep)
		r.currentDepth--
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return v.WithDict(resolvedDict.(core.Dict)), nil

	default:
		return obj, nil
	}
}

// Reset clears the visited set and depth counter
func (r *ObjectResolver) Reset() {
	r.visited = make(map[core.ObjectKey]bool)
	r.currentDepth = 0
}

// ResolveDict resolves the dictionary and all its values
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	defer r.Reset()
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray resolves all elements in the array
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	defer r.Reset()
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// GetObjectResolved loads an object by number and follows references to
// its direct value
func (r *ObjectResolver) GetObjectResolved(objNum int) (core.Object, error) {
	obj, err := r.reader.GetObject(objNum)
	if err != nil {
		return nil, err
	}
	defer r.Reset()
	return r.Resolve(obj)
}

// GetObjectResolvedDeep loads and fully resolves an object by number
func (r *ObjectResolver) GetObjectResolvedDeep(objNum int) (core.Object, error) {
	obj, err := r.reader.GetObject(objNum)
	if err != nil {
		return nil, err
	}
	defer r.Reset()
	return r.ResolveDeep(obj)
}

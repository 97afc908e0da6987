// Package resolver expands indirect references in parsed PDF objects.
//
// A parsed document stores every "N G R" as a pointer to the object's pool
// slot. This package follows those slots, through chains of references,
// and can copy an object tree with every reference replaced by its value.
//
// # Basic Usage
//
//	resolver := resolver.NewResolver(reader)
//	obj, err := resolver.Resolve(slot)
//
// # Deep Resolution
//
// For complete expansion of nested references in dictionaries and arrays:
//
//	resolved, err := resolver.ResolveDeep(obj)
//
// The input is not modified. Stream dictionaries are resolved too; the
// stream body is shared with the original.
//
// # Undefined Objects
//
// A reference to an object the file never defines resolves to null, or to
// the value set with [WithUndefined].
//
// # Cycle Detection
//
// A reference back to an object already on the current path is an error
// rather than an infinite loop. The maximum recursion depth is
// configurable:
//
//	resolver := resolver.NewResolver(reader, resolver.WithMaxDepth(50))
package resolver

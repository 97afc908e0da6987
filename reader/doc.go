// Package reader provides high-level access to a parsed PDF file.
//
// The whole file is parsed front to back when the Reader is created, with
// damaged objects repaired or skipped. Afterwards every object is held in
// memory, except large stream bodies, which live in a scratch file until
// the Reader is closed.
//
// # Opening PDF Files
//
// Use [Open] to parse a PDF file:
//
//	reader, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//
// Or use [NewReader] with any io.Reader.
//
// # Options
//
//   - WithLenient(false) - fail at the first damaged object
//   - WithScratchDir(dir) - directory for the stream body scratch file
//   - WithMemoryThreshold(n) - stream bodies above n bytes go to disk
//   - WithPushbackSize(n) - initial pushback buffer size
//   - WithMaxDepth(n) - nesting limit for ResolveDeep
//
// # Document Information
//
//   - Version(), Header() - from the %PDF- line
//   - Trailer() - trailer dictionary
//   - Catalog() - document catalog dictionary
//   - Info(), Metadata() - document info dictionary, raw or decoded
//   - Diagnostics() - repairs made while parsing
//
// # Object Access
//
//   - Objects() - keys of all defined objects
//   - GetObject(objNum), Lookup(key) - object values
//   - Resolve(obj) - follow references to a direct value
//   - ResolveDeep(obj) - copy with every nested reference resolved
//   - Images(), Image(key) - decoded image XObjects, convertible to PNG
package reader

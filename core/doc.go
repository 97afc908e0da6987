// Package core parses the COS object layer of PDF files.
//
// It reads a PDF front to back in a single pass, without seeking to the
// offsets the cross-reference table gives, and recovers from the damage
// real-world files carry: wrong stream lengths, missing endobj keywords,
// garbage between objects, truncated files and duplicate definitions.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types satisfying the
// Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects (literal or hexadecimal)
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// Additionally, [Stream] represents a PDF stream (dictionary + body bytes)
// and [IndirectObject] is both a slot of the object [Pool] and the value a
// reference "N G R" parses to. A reference read before its target is
// filled in when the target is bound.
//
// # Parsing
//
// [Parse] runs a [BodyParser] over an io.Reader and returns a [Document]
// holding the pool, trailer, xref table and header version:
//
//	doc, err := core.Parse(f, core.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer doc.Close()
//
// In lenient mode (the default) a unit that fails to parse is skipped by
// scanning ahead to the next "N G obj", trailer, xref, startxref or stream
// keyword. [Document.Diagnostics] counts every repair made.
//
// The [Parser] type parses single values, and the [Lexer] type reads the
// byte-level units (whitespace, comments, lines, keywords, integers) over
// a [PushbackReader].
//
// # Streams
//
// A stream body is located by scanning for endstream or endobj rather than
// trusting /Length. Bodies are stored in scratch storage owned by the
// document; large ones spill to a temporary file. [Stream.Filters] lists
// the filter chain and [Stream.Decode] removes it on demand.
//
// # Cross-Reference Data
//
// Classic xref sections and /Type /XRef streams fill an [XRefTable]. The
// table is not used to locate objects; it decides which of two definitions
// of the same object wins (see [ResolveConflicts]). Objects inside /Type
// /ObjStm streams are decoded into empty pool slots after the body is read.
package core

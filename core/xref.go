package core

import (
	"sort"
	"strconv"
	"strings"
)

// XRefEntry is one in-use cross-reference entry
type XRefEntry struct {
	Key    ObjectKey
	Offset int64 // byte offset of "N G obj" in the file
}

// XRefTable maps object keys to the byte offsets the file claims for them.
// Free entries are not recorded. The parser does not seek to these offsets;
// they are used to decide which of two definitions of an object is current.
type XRefTable struct {
	entries map[ObjectKey]int64
	offsets map[int64]int // number of entries pointing at each offset
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		entries: make(map[ObjectKey]int64),
		offsets: make(map[int64]int),
	}
}

// Get returns the offset recorded for key
func (x *XRefTable) Get(key ObjectKey) (int64, bool) {
	off, ok := x.entries[key]
	return off, ok
}

// Set records offset for key, replacing an earlier entry for the same key.
func (x *XRefTable) Set(key ObjectKey, offset int64) {
	if old, ok := x.entries[key]; ok {
		if x.offsets[old]--; x.offsets[old] == 0 {
			delete(x.offsets, old)
		}
	}
	x.entries[key] = offset
	x.offsets[offset]++
}

// ContainsOffset reports whether any entry points at offset
func (x *XRefTable) ContainsOffset(offset int64) bool {
	return x.offsets[offset] > 0
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.entries)
}

// Entries returns all entries ordered by key
func (x *XRefTable) Entries() []XRefEntry {
	out := make([]XRefEntry, 0, len(x.entries))
	for k, off := range x.entries {
		out = append(out, XRefEntry{Key: k, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Generation < b.Generation
	})
	return out
}

// parseXRefSection reads a classic "xref" section: one or more subsections
// of a "start count" header followed by entry lines "offset gen n|f".
// In-use entries are recorded in the document's table. It returns without
// error if the keyword is not "xref".
func (p *Parser) parseXRefSection() error {
	start := p.lex.Offset()
	kw, err := p.lex.ReadBareString()
	if err != nil {
		return err
	}
	if strings.TrimSpace(kw) != kwXRef {
		p.doc.log.Debugf("expected %q at offset %d, got %q", kwXRef, start, kw)
		return nil
	}

	for {
		first, err := p.lex.ReadInt()
		if err != nil {
			return err
		}
		count, err := p.lex.ReadInt()
		if err != nil {
			return err
		}
		if err := p.lex.SkipSpaces(); err != nil {
			return err
		}

		num := first
		for i := 0; i < count; i++ {
			c, err := p.lex.peek()
			if err != nil {
				return err
			}
			if c == eof || isEndOfName(c) || c == 't' {
				break
			}
			lineStart := p.lex.Offset()
			line, err := p.lex.ReadLine()
			if err != nil {
				return err
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				p.doc.diag.BadXRefEntries++
				p.doc.log.Warningf("invalid xref line at offset %d: %q", lineStart, line)
				break
			}
			switch fields[len(fields)-1] {
			case "n":
				offset, err1 := strconv.ParseInt(fields[0], 10, 64)
				gen, err2 := strconv.Atoi(fields[1])
				if err1 != nil || err2 != nil {
					return newError(KindCorruptXrefEntry, lineStart, "invalid in-use entry %q", line)
				}
				p.doc.RecordXRefEntry(ObjectKey{Number: num, Generation: gen}, offset)
			case "f":
			default:
				return newError(KindCorruptXrefEntry, lineStart, "entry is neither in use nor free: %q", line)
			}
			num++
			if err := p.lex.SkipSpaces(); err != nil {
				return err
			}
		}

		if err := p.lex.SkipSpaces(); err != nil {
			return err
		}
		c, err := p.lex.peek()
		if err != nil {
			return err
		}
		if !isDigit(c) {
			return nil
		}
	}
}

package core

import (
	"bufio"
	"strings"

	"github.com/tsawler/cosparse/internal/scratch"
)

// termState is a state of the matcher that finds the end of a stream body.
// Each state stands for the bytes of "endstream" or "endobj" matched so far.
type termState uint8

const (
	stNone termState = iota
	stE
	stEn
	stEnd
	stEnds
	stEndst
	stEndstr
	stEndstre
	stEndstrea
	stEndo
	stEndob
	stEndStream
	stEndObj
	numTermStates
)

// termPrefix is the text matched in each state.
var termPrefix = [numTermStates]string{
	"", "e", "en", "end",
	"ends", "endst", "endstr", "endstre", "endstrea",
	"endo", "endob",
	kwEndStream, kwEndObj,
}

// termStep is one transition: the next state, and how many of the pending
// bytes (the current state's text followed by the input byte) are body
// data that can be written out.
type termStep struct {
	next  termState
	flush uint8
}

// termTable holds every transition. The next state is the longest suffix of
// the pending bytes that is still a keyword prefix, so overlapping text
// such as "endendstream" is matched.
var termTable = buildTermTable()

func buildTermTable() [numTermStates][256]termStep {
	var table [numTermStates][256]termStep
	for s := stNone; s < stEndStream; s++ {
		for b := 0; b < 256; b++ {
			pending := termPrefix[s] + string([]byte{byte(b)})
			table[s][b] = longestPrefixSuffix(pending)
		}
	}
	return table
}

func longestPrefixSuffix(pending string) termStep {
	for cut := 0; cut <= len(pending); cut++ {
		suffix := pending[cut:]
		for s := stNone; s < numTermStates; s++ {
			if termPrefix[s] == suffix {
				return termStep{next: s, flush: uint8(cut)}
			}
		}
	}
	return termStep{next: stNone, flush: uint8(len(pending))}
}

// bodyWriter buffers writes to a scratch sink and holds back end-of-line
// bytes, which may belong to the separator before endstream rather than to
// the data.
type bodyWriter struct {
	w    *bufio.Writer
	held []byte
	n    int64 // bytes written, excluding held
}

func newBodyWriter(sink *scratch.Sink) *bodyWriter {
	return &bodyWriter{w: bufio.NewWriter(sink), held: make([]byte, 0, 2)}
}

func (b *bodyWriter) writeByte(c byte) error {
	if c == '\r' || c == '\n' {
		if len(b.held) == cap(b.held) {
			if err := b.w.WriteByte(b.held[0]); err != nil {
				return err
			}
			b.n++
			b.held = append(b.held[:0], b.held[1:]...)
		}
		b.held = append(b.held, c)
		return nil
	}
	if err := b.releaseHeld(); err != nil {
		return err
	}
	b.n++
	return b.w.WriteByte(c)
}

func (b *bodyWriter) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := b.writeByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *bodyWriter) releaseHeld() error {
	if len(b.held) == 0 {
		return nil
	}
	n, err := b.w.Write(b.held)
	b.n += int64(n)
	b.held = b.held[:0]
	return err
}

// finish writes any held end-of-line bytes that a declared length says are
// data, drops the rest, and flushes. declared is -1 when unknown.
func (b *bodyWriter) finish(declared int64) error {
	if declared > b.n && len(b.held) > 0 {
		keep := declared - b.n
		if keep > int64(len(b.held)) {
			keep = int64(len(b.held))
		}
		n, err := b.w.Write(b.held[:keep])
		b.n += int64(n)
		if err != nil {
			return err
		}
	}
	b.held = b.held[:0]
	return b.w.Flush()
}

// copyBody copies bytes into w until "endstream" or "endobj" is found, and
// pushes the keyword back. At end of input it returns stNone.
func (p *Parser) copyBody(w *bodyWriter) (termState, error) {
	state := stNone
	for {
		c, err := p.lex.read()
		if err != nil {
			return stNone, err
		}
		if c == eof {
			return stNone, w.writeString(termPrefix[state])
		}

		step := termTable[state][c]
		if step.flush > 0 {
			pending := termPrefix[state]
			n := int(step.flush)
			if n <= len(pending) {
				err = w.writeString(pending[:n])
			} else {
				if err = w.writeString(pending); err == nil {
					err = w.writeByte(byte(c))
				}
			}
			if err != nil {
				return stNone, err
			}
		}
		state = step.next
		if state == stEndStream || state == stEndObj {
			p.lex.r.Unread([]byte(termPrefix[state]))
			return state, nil
		}
	}
}

// parseStream reads "stream", the body and its closing keyword. The body is
// located by scanning for endstream or endobj, not by /Length, which is
// often wrong. endobjConsumed reports that the object's endobj was read as
// part of the stream's close and must not be expected again.
func (p *Parser) parseStream(dict Dict) (stream *Stream, endobjConsumed bool, err error) {
	start := p.lex.Offset()
	kw, err := p.lex.ReadBareString()
	if err != nil {
		return nil, false, err
	}
	if kw != kwStream {
		return nil, false, newError(KindUnexpectedByte, start, "expected %q, got %q", kwStream, kw)
	}
	if err := p.skipStreamEOL(); err != nil {
		return nil, false, err
	}

	hint := int64(-1)
	if n, ok := dict.Raw("Length").(Int); ok {
		hint = int64(n)
	}
	sink := p.doc.OpenStreamSink(hint)
	defer sink.Close()
	w := newBodyWriter(sink)

	// A second scan only happens when the first ran into garbage instead
	// of a keyword.
	for attempt := 0; ; attempt++ {
		if _, err := p.copyBody(w); err != nil {
			return nil, false, err
		}
		if err := p.lex.SkipSpaces(); err != nil {
			return nil, false, err
		}
		tok, err := p.lex.ReadBareString()
		if err != nil {
			return nil, false, err
		}

		done := true
		switch {
		case tok == kwEndStream:
		case strings.HasPrefix(tok, kwEndObj):
			// endobj without endstream
			p.lex.r.Unread([]byte(tok[len(kwEndObj):]))
			endobjConsumed = true
		case strings.HasPrefix(tok, kwEndStream):
			// endstream with trailing garbage
			p.lex.r.Unread([]byte(tok[len(kwEndStream):]))
		default:
			done = false
		}
		if done {
			break
		}
		if attempt > 0 {
			return nil, false, newError(KindMalformedStream, start, "missing %s", kwEndStream)
		}
		if err := w.writeString(tok); err != nil {
			return nil, false, err
		}
	}

	declared := int64(-1)
	if n, ok := dict.GetInt("Length"); ok {
		declared = int64(n)
	}
	if err := w.finish(declared); err != nil {
		return nil, false, err
	}
	if declared >= 0 && declared != sink.Len() {
		p.doc.log.Debugf("stream at offset %d: /Length %d, read %d bytes", start, declared, sink.Len())
	}
	return &Stream{Dict: dict, body: sink}, endobjConsumed, nil
}

// skipStreamEOL consumes the separator after "stream": any spaces, then
// CR LF, LF or a lone CR.
func (p *Parser) skipStreamEOL() error {
	c, err := p.lex.read()
	for err == nil && c == ' ' {
		c, err = p.lex.read()
	}
	if err != nil {
		return err
	}
	switch c {
	case '\r':
		next, err := p.lex.read()
		if err != nil {
			return err
		}
		if next != '\n' {
			p.lex.unread(next)
		}
	case '\n':
	default:
		p.lex.unread(c)
	}
	return nil
}

package core

import (
	"io"
	"strconv"
	"strings"
)

// Keywords recognised by the parser
const (
	kwObj       = "obj"
	kwEndObj    = "endobj"
	kwStream    = "stream"
	kwEndStream = "endstream"
	kwTrailer   = "trailer"
	kwXRef      = "xref"
	kwStartXRef = "startxref"
	kwTrue      = "true"
	kwFalse     = "false"
	kwNull      = "null"
	kwDef       = "def"
	eofMarker   = "%%EOF"
)

// danglingRef is returned for a bare "R" token. Arrays fold it together with
// the two integers before it into an indirect reference; anywhere else it is
// dropped.
type danglingRef struct{}

func (danglingRef) Type() ObjectType { return ObjIndirect }
func (danglingRef) String() string   { return "R" }

// Parser is a lenient recursive-descent parser for PDF values. Indirect
// references are resolved through the document's object pool as they are
// read, so "N G R" yields the pool slot for (N, G) even when the object
// itself appears later in the file.
type Parser struct {
	lex *Lexer
	doc *Document
}

// NewParser creates a parser over r with a private document, for parsing
// standalone values such as content fragments and test input.
func NewParser(r io.Reader) *Parser {
	return NewDocumentParser(r, NewDocument(DefaultConfig()))
}

// NewDocumentParser creates a parser over r that binds references into doc.
func NewDocumentParser(r io.Reader, doc *Document) *Parser {
	pr, ok := r.(*PushbackReader)
	if !ok {
		pr = NewPushbackReaderSize(r, doc.cfg.PushbackSize)
	}
	return newParser(NewLexer(pr), doc)
}

func newParser(lex *Lexer, doc *Document) *Parser {
	return &Parser{lex: lex, doc: doc}
}

// Document returns the document whose pool resolves references
func (p *Parser) Document() *Document {
	return p.doc
}

// Lexer returns the parser's lexer
func (p *Parser) Lexer() *Lexer {
	return p.lex
}

// ParseObject parses the next direct value. It returns (nil, nil) at end of
// input and for garbage that was skipped.
func (p *Parser) ParseObject() (Object, error) {
	obj, err := p.parseDirectValue()
	if _, ok := obj.(danglingRef); ok {
		obj = nil
	}
	return obj, err
}

// parseDirectValue dispatches on the next non-whitespace byte.
func (p *Parser) parseDirectValue() (Object, error) {
	if err := p.lex.SkipSpaces(); err != nil {
		return nil, err
	}
	c, err := p.lex.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case c == eof:
		return nil, nil

	case c == '<':
		p.lex.read()
		next, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		p.lex.unread('<')
		if next == '<' {
			dict, err := p.parseDict()
			if err != nil {
				return dict, err
			}
			return dict, p.skipDef()
		}
		return p.parseHexString()

	case c == '[':
		return p.parseArray()

	case c == '(':
		return p.parseLiteralString()

	case c == '/':
		return p.parseName()

	case c == 'n':
		s, err := p.lex.ReadBareString()
		if err != nil {
			return nil, err
		}
		if s != kwNull {
			return nil, newError(KindUnexpectedByte, p.lex.Offset(), "expected %q, got %q", kwNull, s)
		}
		return Null{}, nil

	case c == 't':
		return p.parseKeywordBool(kwTrue, Bool(true))

	case c == 'f':
		return p.parseKeywordBool(kwFalse, Bool(false))

	case c == 'R':
		p.lex.read()
		return danglingRef{}, nil

	case isDigit(c) || c == '-' || c == '+' || c == '.':
		return p.parseNumber()
	}

	// Not a value. Skip it as a bare token so the caller makes progress.
	start := p.lex.Offset()
	bad, err := p.lex.ReadBareString()
	if err != nil {
		return nil, err
	}
	if bad == "" {
		return nil, newError(KindUnexpectedByte, start, "unknown value starting with %q", byte(c))
	}
	if bad == kwEndObj || bad == kwEndStream {
		// Let the caller see the terminator.
		p.lex.r.Unread([]byte(bad))
		return nil, nil
	}
	p.doc.diag.SkippedTokens++
	p.doc.log.Debugf("skipped unexpected token %q at offset %d", bad, start)
	return nil, nil
}

// parseKeywordBool reads exactly len(kw) bytes and requires them to equal kw.
func (p *Parser) parseKeywordBool(kw string, value Bool) (Object, error) {
	start := p.lex.Offset()
	buf, err := p.lex.r.ReadFully(len(kw))
	if err != nil {
		return nil, err
	}
	if string(buf) != kw {
		return nil, newError(KindUnexpectedByte, start, "expected %q, got %q", kw, buf)
	}
	return value, nil
}

// skipDef consumes a "def" keyword following a dictionary. CMap streams
// write one after each key/value pair.
func (p *Parser) skipDef() error {
	if err := p.lex.SkipSpaces(); err != nil {
		return err
	}
	c, err := p.lex.peek()
	if err != nil || c != 'd' {
		return err
	}
	s, err := p.lex.ReadBareString()
	if err != nil {
		return err
	}
	if s != kwDef {
		p.lex.r.Unread([]byte(s))
		return nil
	}
	return p.lex.SkipSpaces()
}

// parseDict parses "<< /Key value ... >>". A byte other than '/' where a
// key is expected starts a resync: bytes are dropped up to the next '/' or
// '>'. Null values are dropped rather than stored.
func (p *Parser) parseDict() (Dict, error) {
	if err := p.lex.ReadExpected('<'); err != nil {
		return nil, err
	}
	if err := p.lex.ReadExpected('<'); err != nil {
		return nil, err
	}

	dict := make(Dict)
	for {
		if err := p.lex.SkipSpaces(); err != nil {
			return dict, err
		}
		c, err := p.lex.peek()
		if err != nil {
			return dict, err
		}
		if c == '>' {
			break
		}
		if c == eof {
			return dict, nil
		}
		if c != '/' {
			done, err := p.resyncDict(c)
			if err != nil || done {
				return dict, err
			}
			continue
		}

		key, err := p.parseName()
		if err != nil {
			return dict, err
		}
		value, err := p.parseDictValue()
		if err != nil {
			return dict, err
		}
		if err := p.skipDef(); err != nil {
			return dict, err
		}
		if value == nil {
			p.doc.diag.DroppedDictValues++
			p.doc.log.Debugf("dropped null value for key /%s", key)
			continue
		}
		if _, ok := value.(Null); ok {
			p.doc.diag.DroppedDictValues++
			continue
		}
		dict[string(key)] = value
	}

	if err := p.lex.ReadExpected('>'); err != nil {
		return dict, err
	}
	if err := p.lex.ReadExpected('>'); err != nil {
		return dict, err
	}
	return dict, nil
}

// resyncDict drops bytes until the next '/' or '>'. It reports done when the
// dictionary must end where it is: at end of input, or at an endobj or
// endstream keyword, which is left unread.
func (p *Parser) resyncDict(first int) (bool, error) {
	start := p.lex.Offset()
	p.doc.diag.DictResyncs++
	p.doc.log.Warningf("invalid dictionary at offset %d: found %q, expected '/'", start, byte(first))

	for {
		c, err := p.lex.read()
		if err != nil {
			return true, err
		}
		switch c {
		case eof:
			return true, nil
		case '/', '>':
			p.lex.unread(c)
			return false, nil
		case 'e':
			p.lex.unread(c)
			tok, err := p.lex.ReadBareString()
			if err != nil {
				return true, err
			}
			if tok == kwEndObj || tok == kwEndStream {
				p.lex.r.Unread([]byte(tok))
				return true, nil
			}
			if tok == "" {
				// 'e' followed directly by a terminator
				p.lex.read()
			}
		}
	}
}

// parseDictValue parses a dictionary value: either a direct value or
// "N G R", which resolves to the pool slot for (N, G).
func (p *Parser) parseDictValue() (Object, error) {
	value, err := p.parseDirectValue()
	if err != nil {
		return nil, err
	}
	if err := p.lex.SkipSpaces(); err != nil {
		return nil, err
	}
	c, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if !isDigit(c) {
		if _, ok := value.(danglingRef); ok {
			return nil, nil
		}
		return value, nil
	}

	gen, err := p.parseDirectValue()
	if err != nil {
		return nil, err
	}
	if err := p.lex.SkipSpaces(); err != nil {
		return nil, err
	}
	if err := p.lex.ReadExpected('R'); err != nil {
		return nil, err
	}
	num, ok1 := value.(Int)
	genNum, ok2 := gen.(Int)
	if !ok1 || !ok2 {
		return nil, newError(KindUnexpectedByte, p.lex.Offset(), "invalid indirect reference %v %v R", value, gen)
	}
	return p.doc.pool.GetOrCreate(ObjectKey{Number: int(num), Generation: int(genNum)}), nil
}

// parseArray parses "[ ... ]". References are recognised after the fact: a
// bare R following two integers replaces them with the referenced pool slot.
// An R without two integers before it is dropped, as is any value that
// parsed to nothing.
func (p *Parser) parseArray() (Array, error) {
	if err := p.lex.ReadExpected('['); err != nil {
		return nil, err
	}
	arr := Array{}
	if err := p.lex.SkipSpaces(); err != nil {
		return arr, err
	}

	for {
		c, err := p.lex.peek()
		if err != nil {
			return arr, err
		}
		if c == ']' || c == eof {
			break
		}

		obj, err := p.parseDirectValue()
		if err != nil {
			return arr, err
		}
		if _, ok := obj.(danglingRef); ok {
			obj = p.collapseReference(&arr)
		}

		if obj != nil {
			arr = append(arr, obj)
		} else {
			p.doc.diag.DroppedArrayElements++
			p.doc.log.Debugf("dropped array element at offset %d", p.lex.Offset())
			// An endobj or endstream here means the array was never closed.
			tok, err := p.lex.ReadBareString()
			if err != nil {
				return arr, err
			}
			p.lex.r.Unread([]byte(tok))
			if tok == kwEndObj || tok == kwEndStream {
				return arr, nil
			}
		}
		if err := p.lex.SkipSpaces(); err != nil {
			return arr, err
		}
	}

	// ']' or end of input
	p.lex.read()
	return arr, nil
}

// collapseReference removes the "N G" integers preceding an R from arr and
// returns the pool slot they name, or nil if they are not both integers.
func (p *Parser) collapseReference(arr *Array) Object {
	a := *arr
	if len(a) == 0 {
		return nil
	}
	gen, ok := a[len(a)-1].(Int)
	if !ok {
		return nil
	}
	a = a[:len(a)-1]
	*arr = a
	if len(a) == 0 {
		return nil
	}
	num, ok := a[len(a)-1].(Int)
	if !ok {
		return nil
	}
	*arr = a[:len(a)-1]
	return p.doc.pool.GetOrCreate(ObjectKey{Number: int(num), Generation: int(gen)})
}

// parseName parses "/Name". "#xx" with two hex digits is an escaped byte;
// a '#' not followed by two hex digits is kept as is.
func (p *Parser) parseName() (Name, error) {
	if err := p.lex.ReadExpected('/'); err != nil {
		return "", err
	}
	var buf strings.Builder
	c, err := p.lex.read()
	for err == nil && c != eof {
		if c == '#' {
			c1, err1 := p.lex.read()
			c2, err2 := p.lex.read()
			if err1 != nil || err2 != nil {
				return Name(buf.String()), firstErr(err1, err2)
			}
			if isHexDigit(c1) && isHexDigit(c2) {
				buf.WriteByte(hexValue(c1)<<4 | hexValue(c2))
				c, err = p.lex.read()
				continue
			}
			p.lex.unread(c2)
			buf.WriteByte('#')
			c = c1
			continue
		}
		if isEndOfName(c) {
			break
		}
		buf.WriteByte(byte(c))
		c, err = p.lex.read()
	}
	if err != nil {
		return Name(buf.String()), err
	}
	p.lex.unread(c)
	return Name(buf.String()), nil
}

// parseLiteralString parses "( ... )" with balanced parentheses and escape
// sequences. Unknown escapes are kept as a backslash and the character.
func (p *Parser) parseLiteralString() (String, error) {
	if err := p.lex.ReadExpected('('); err != nil {
		return "", err
	}
	var buf []byte
	depth := 1
	for depth > 0 {
		c, err := p.lex.read()
		if err != nil {
			return String(buf), err
		}
		if c == eof {
			break
		}

		switch c {
		case ')':
			depth--
			if depth > 0 && p.unbalancedClose() {
				depth = 0
			}
			if depth > 0 {
				buf = append(buf, ')')
			}
		case '(':
			depth++
			buf = append(buf, '(')
		case '\\':
			buf, err = p.parseEscape(buf)
			if err != nil {
				return String(buf), err
			}
		default:
			buf = append(buf, byte(c))
		}
	}
	return String(buf), nil
}

// unbalancedClose reports whether the bytes after a ')' are CR LF '/', in
// which case the string is taken to end there even though an unescaped '('
// left it unbalanced.
func (p *Parser) unbalancedClose() bool {
	var next [3]byte
	n, _ := io.ReadFull(p.lex.r, next[:])
	p.lex.r.Unread(next[:n])
	return n == 3 && next[0] == '\r' && next[1] == '\n' && next[2] == '/'
}

// parseEscape handles the byte(s) after a backslash in a literal string.
func (p *Parser) parseEscape(buf []byte) ([]byte, error) {
	c, err := p.lex.read()
	if err != nil {
		return buf, err
	}
	switch c {
	case eof:
		return buf, nil
	case 'n':
		return append(buf, '\n'), nil
	case 'r':
		return append(buf, '\r'), nil
	case 't':
		return append(buf, '\t'), nil
	case 'b':
		return append(buf, '\b'), nil
	case 'f':
		return append(buf, '\f'), nil
	case '(', ')', '\\':
		return append(buf, byte(c)), nil
	case '\r', '\n':
		// Line continuation: drop the backslash and the end-of-line run.
		for {
			c, err = p.lex.read()
			if err != nil {
				return buf, err
			}
			if !isEOL(c) {
				p.lex.unread(c)
				return buf, nil
			}
		}
	}
	if isOctalDigit(c) {
		val := c - '0'
		for i := 0; i < 2; i++ {
			next, err := p.lex.peek()
			if err != nil {
				return buf, err
			}
			if !isOctalDigit(next) {
				break
			}
			p.lex.read()
			val = val*8 + next - '0'
		}
		return append(buf, byte(val)), nil
	}
	return append(buf, '\\', byte(c)), nil
}

// parseHexString parses "<...>". Bytes other than hex digits are ignored;
// an odd digit count is padded with 0.
func (p *Parser) parseHexString() (String, error) {
	if err := p.lex.ReadExpected('<'); err != nil {
		return "", err
	}
	var digits []byte
	for {
		c, err := p.lex.read()
		if err != nil {
			return "", err
		}
		if c == eof {
			return "", newError(KindPrematureEnd, p.lex.Offset(), "missing '>' after hex string")
		}
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, byte(c))
		}
	}
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexValue(int(digits[2*i]))<<4 | hexValue(int(digits[2*i+1]))
	}
	return String(out), nil
}

// parseNumber reads digits, sign, '.', 'E' and 'e' and converts the token to
// an Int or Real. A token that does not convert is salvaged from its longest
// valid prefix. A token with no valid prefix, such as a lone sign, yields
// no value.
func (p *Parser) parseNumber() (Object, error) {
	start := p.lex.Offset()
	var buf []byte
	for {
		c, err := p.lex.read()
		if err != nil {
			return nil, err
		}
		if !(isDigit(c) || c == '-' || c == '+' || c == '.' || c == 'E' || c == 'e') {
			p.lex.unread(c)
			break
		}
		buf = append(buf, byte(c))
	}

	if obj, ok := parseNumberToken(string(buf)); ok {
		return obj, nil
	}
	for n := len(buf) - 1; n > 0; n-- {
		if obj, ok := parseNumberToken(string(buf[:n])); ok {
			p.doc.diag.RepairedNumbers++
			p.doc.log.Debugf("malformed number %q at offset %d", buf, start)
			return obj, nil
		}
	}
	p.doc.diag.SkippedTokens++
	p.doc.log.Debugf("skipped non-numeric token %q at offset %d", buf, start)
	return nil, nil
}

// parseNumberToken converts a numeric token.
func parseNumberToken(tok string) (Object, bool) {
	if tok == "" {
		return nil, false
	}
	if !strings.ContainsAny(tok, ".eE") {
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return Int(i), true
		}
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, false
	}
	return Real(f), true
}

// ParseInt parses a decimal integer token, failing with NotAnInteger.
func ParseInt(tok string) (Int, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: KindNotAnInteger, Offset: -1, Msg: strconv.Quote(tok), Err: err}
	}
	return Int(i), nil
}

// ParseReal parses a real number token, failing with NotAFloat.
func ParseReal(tok string) (Real, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return 0, &ParseError{Kind: KindNotAFloat, Offset: -1, Msg: strconv.Quote(tok), Err: err}
	}
	return Real(f), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

package extract

type lexState int

const (
	stateCode lexState = iota
	stateSingle
	stateDouble
	stateTemplate
	stateLineComment
	stateBlockComment
)

// lexer walks JavaScript source one byte at a time, reporting for each byte
// whether it is code. Brace depth is tallied for code bytes only.
type lexer struct {
	src   string
	pos   int
	state lexState
	depth int
	// subst holds, for every open ${ substitution, the depth at which its
	// closing brace hands control back to the template text.
	subst []int
	naive bool
}

func newLexer(src string, pos int, naive bool) *lexer {
	return &lexer{src: src, pos: pos, naive: naive}
}

func (l *lexer) done() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() byte {
	if l.pos < len(l.src) {
		return l.src[l.pos]
	}
	return 0
}

// next consumes the byte at the current position and returns its offset and
// whether it is a code byte. Escapes, comment openers and ${ consume two
// bytes; the second one is never reported.
func (l *lexer) next() (int, bool) {
	i := l.pos
	c := l.src[i]
	l.pos++

	if l.naive {
		if c == '{' || c == '}' {
			l.brace(c)
		}
		return i, true
	}

	switch l.state {
	case stateCode:
		switch c {
		case '\'':
			l.state = stateSingle
		case '"':
			l.state = stateDouble
		case '`':
			l.state = stateTemplate
		case '/':
			switch l.peek() {
			case '/':
				l.pos++
				l.state = stateLineComment
				return i, false
			case '*':
				l.pos++
				l.state = stateBlockComment
				return i, false
			}
		case '{', '}':
			l.brace(c)
		}
		return i, true

	case stateSingle, stateDouble:
		switch {
		case c == '\\':
			l.pos++
		case c == '\n':
			// Unterminated literal; JavaScript does not allow the line break.
			l.state = stateCode
		case c == '\'' && l.state == stateSingle, c == '"' && l.state == stateDouble:
			l.state = stateCode
		}
		return i, false

	case stateTemplate:
		switch c {
		case '\\':
			l.pos++
		case '`':
			l.state = stateCode
		case '$':
			if l.peek() == '{' {
				l.pos++
				l.subst = append(l.subst, l.depth)
				l.depth++
				l.state = stateCode
			}
		}
		return i, false

	case stateLineComment:
		if c == '\n' {
			l.state = stateCode
		}
		return i, false

	case stateBlockComment:
		if c == '*' && l.peek() == '/' {
			l.pos++
			l.state = stateCode
		}
		return i, false
	}

	return i, false
}

func (l *lexer) brace(c byte) {
	if c == '{' {
		l.depth++
		return
	}
	l.depth--
	if n := len(l.subst); n > 0 && l.depth == l.subst[n-1] {
		l.subst = l.subst[:n-1]
		l.state = stateTemplate
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

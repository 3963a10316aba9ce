package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Options tune how a block is located and scanned. The zero value locates
// object keys ("name: {") and skips braces inside strings and comments.
type Options struct {
	// Separator sits between the block name and its opening brace. Zero means
	// ':'; use '=' to locate a declaration such as "const NAME = {".
	Separator byte
	// Naive counts every brace, including those in strings and comments.
	Naive bool
	// TopLevel matches only keys at depth zero of the source, so a nested
	// property never shadows a later sibling block of the same name.
	TopLevel bool
}

func (o Options) separator() byte {
	if o.Separator == 0 {
		return ':'
	}
	return o.Separator
}

// Extract returns the trimmed text between the opening brace of the object
// keyed by name and its matching closing brace.
func Extract(source, name string) (string, error) {
	return ExtractWith(source, name, Options{})
}

// ExtractWith is Extract with explicit options.
func ExtractWith(source, name string, opts Options) (string, error) {
	start, end, err := Locate(source, name, opts)
	if err != nil {
		return "", err
	}
	return strings.Clone(strings.TrimSpace(source[start:end])), nil
}

// Locate returns the offsets of the untrimmed block body: start is just
// after the opening brace and end is the offset of the matching closing brace.
func Locate(source, name string, opts Options) (start, end int, err error) {
	open, ok := locate(source, name, opts)
	if !ok {
		return 0, 0, &NotFoundError{Block: name}
	}
	end, err = Closing(source, open, opts)
	if err != nil {
		var unbalanced *UnbalancedBracesError
		if errors.As(err, &unbalanced) {
			unbalanced.Block = name
		}
		return 0, 0, err
	}
	return open + 1, end, nil
}

// Closing returns the offset of the brace matching the opening brace at open.
func Closing(source string, open int, opts Options) (int, error) {
	if open < 0 || open >= len(source) || source[open] != '{' {
		return 0, fmt.Errorf("no opening brace at offset %d", open)
	}
	l := newLexer(source, open+1, opts.Naive)
	l.depth = 1
	for !l.done() {
		i, code := l.next()
		if code && source[i] == '}' && l.depth == 0 {
			return i, nil
		}
	}
	return 0, &UnbalancedBracesError{Offset: open, Depth: l.depth}
}

// locate returns the offset of the opening brace of the first block named
// name, considering code bytes only.
func locate(source, name string, opts Options) (int, bool) {
	if name == "" {
		return 0, false
	}
	sep := opts.separator()
	l := newLexer(source, 0, opts.Naive)
	for !l.done() {
		i, code := l.next()
		if !code {
			continue
		}
		// A key's first byte never changes depth.
		if opts.TopLevel && l.depth != 0 {
			continue
		}
		if open, ok := matchKey(source, i, name, sep); ok {
			return open, true
		}
	}
	return 0, false
}

// matchKey reports whether source[i:] starts the key name (bare or quoted)
// followed by sep and an opening brace, and returns the brace offset.
func matchKey(source string, i int, name string, sep byte) (int, bool) {
	j := i
	switch q := source[i]; q {
	case '\'', '"':
		j++
		if !strings.HasPrefix(source[j:], name) {
			return 0, false
		}
		j += len(name)
		if j >= len(source) || source[j] != q {
			return 0, false
		}
		j++
	default:
		if i > 0 && isIdentByte(source[i-1]) {
			return 0, false
		}
		if !strings.HasPrefix(source[i:], name) {
			return 0, false
		}
		j += len(name)
		if j < len(source) && isIdentByte(source[j]) {
			return 0, false
		}
	}

	j = skipSpace(source, j)
	if j >= len(source) || source[j] != sep {
		return 0, false
	}
	j = skipSpace(source, j+1)
	if j >= len(source) || source[j] != '{' {
		return 0, false
	}
	return j, true
}

// TopLevelKeys lists, in source order, the property names found at depth zero
// of an object body such as the one returned by Extract. Duplicates are kept.
func TopLevelKeys(body string, opts Options) []string {
	var keys []string
	expectKey := true

	l := newLexer(body, 0, opts.Naive)
	for !l.done() {
		i, code := l.next()
		if !code {
			continue
		}
		c := body[i]
		if l.depth != 0 || c == '}' {
			continue
		}
		switch {
		case c == ',':
			expectKey = true
		case isSpace(c):
		case expectKey:
			expectKey = false
			if key, ok := readKey(body, i); ok {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func readKey(body string, i int) (string, bool) {
	if q := body[i]; q == '\'' || q == '"' {
		end := strings.IndexByte(body[i+1:], q)
		if end < 0 {
			return "", false
		}
		return body[i+1 : i+1+end], true
	}
	j := i
	for j < len(body) && isIdentByte(body[j]) {
		j++
	}
	if j == i {
		return "", false
	}
	return body[i:j], true
}

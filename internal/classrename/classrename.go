// Package classrename renames CSS class names in markup and stylesheets.
//
// Matching is by whole class token: a token is a maximal run of
// [A-Za-z0-9_-], so "tab-content" never matches inside "tab-content-list".
// All renames of a file happen in one pass; a -> b and b -> c does not
// turn a into c.
package classrename

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/specialistvlad/mbtitools/internal/extract"
	"github.com/specialistvlad/mbtitools/internal/textio"
)

// Counts maps an old class name to the number of occurrences renamed.
type Counts map[string]int

// Total returns the number of renamed occurrences.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

var (
	// classAttr matches the start of a class attribute up to its value.
	classAttr = regexp.MustCompile(`\b(?:className|class)\s*=\s*`)
	// stringLiteral matches the string and template literals of an expression.
	stringLiteral = regexp.MustCompile("'[^'\\n]*'|\"[^\"\\n]*\"|`[^`]*`")
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isClassByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// renameTokens replaces every whole class token of s found in renames.
func renameTokens(s string, renames map[string]string, counts Counts) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if !isClassByte(s[i]) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isClassByte(s[j]) {
			j++
		}
		tok := s[i:j]
		if to, ok := renames[tok]; ok {
			sb.WriteString(to)
			counts[tok]++
		} else {
			sb.WriteString(tok)
		}
		i = j
	}
	return sb.String()
}

// RenameMarkup renames classes in the class and className attributes of JSX
// or HTML. Quoted values are renamed token by token; for {expression} values
// only the string and template literals inside the expression are touched.
func RenameMarkup(src string, renames map[string]string) (string, Counts, error) {
	counts := Counts{}
	var sb strings.Builder
	sb.Grow(len(src))

	pos := 0
	for {
		loc := classAttr.FindStringIndex(src[pos:])
		if loc == nil {
			break
		}
		valueStart := pos + loc[1]
		sb.WriteString(src[pos:valueStart])
		// An attribute name follows whitespace; data-class= and el.class = do not.
		if start := pos + loc[0]; start > 0 && !isSpace(src[start-1]) {
			pos = valueStart
			continue
		}
		pos = valueStart
		if valueStart >= len(src) {
			break
		}

		switch q := src[valueStart]; q {
		case '"', '\'':
			end := strings.IndexByte(src[valueStart+1:], q)
			if end < 0 {
				continue
			}
			end += valueStart + 1
			sb.WriteByte(q)
			sb.WriteString(renameTokens(src[valueStart+1:end], renames, counts))
			sb.WriteByte(q)
			pos = end + 1
		case '{':
			end, err := extract.Closing(src, valueStart, extract.Options{})
			if err != nil {
				return "", nil, fmt.Errorf("class attribute at offset %d: %w", valueStart, err)
			}
			expr := stringLiteral.ReplaceAllStringFunc(src[valueStart:end+1], func(lit string) string {
				return lit[:1] + renameTokens(lit[1:len(lit)-1], renames, counts) + lit[len(lit)-1:]
			})
			sb.WriteString(expr)
			pos = end + 1
		}
	}
	sb.WriteString(src[pos:])
	return sb.String(), counts, nil
}

// RenameStylesheet renames class selectors (a "." followed by an identifier)
// in CSS. Strings, comments, urls and every other token are left untouched.
func RenameStylesheet(src string, renames map[string]string) (string, Counts, error) {
	counts := Counts{}
	var sb strings.Builder
	sb.Grow(len(src))

	s := scanner.New(src)
	afterDot := false
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return sb.String(), counts, nil
		case scanner.TokenError:
			return "", nil, fmt.Errorf("stylesheet line %d, column %d: cannot tokenize", tok.Line, tok.Column)
		case scanner.TokenIdent:
			if to, ok := renames[tok.Value]; ok && afterDot {
				sb.WriteString(to)
				counts[tok.Value]++
				afterDot = false
				continue
			}
		}
		sb.WriteString(tok.Value)
		afterDot = tok.Type == scanner.TokenChar && tok.Value == "."
	}
}

// Rename dispatches on the file extension: .css files are stylesheets,
// everything else is markup.
func Rename(path, src string, renames map[string]string) (string, Counts, error) {
	if strings.EqualFold(filepath.Ext(path), ".css") {
		return RenameStylesheet(src, renames)
	}
	return RenameMarkup(src, renames)
}

// FileResult describes the outcome of renaming one file.
type FileResult struct {
	Path    string
	Changed bool
	Counts  Counts
}

// RenameFile renames classes in the file at path and writes it back when
// something changed and dryRun is false.
func RenameFile(path string, renames map[string]string, dryRun bool) (*FileResult, error) {
	src, err := textio.ReadFile(path, textio.DefaultEncoding)
	if err != nil {
		return nil, err
	}
	out, counts, err := Rename(path, src, renames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res := &FileResult{Path: path, Changed: out != src, Counts: counts}
	if res.Changed && !dryRun {
		if err := textio.WriteFile(path, out, textio.DefaultEncoding); err != nil {
			return nil, err
		}
	}
	return res, nil
}

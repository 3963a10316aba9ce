// Package indent checks and repairs the indentation of the first property in
// generated data files such as
//
//	export const INTJ = {
//	  name: '...',
//	}
//
// Only the line right after the opening "{" line is considered.
package indent

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/mbtitools/internal/fsutil"
	"github.com/specialistvlad/mbtitools/internal/textio"
)

// Status classifies the second line of a file.
type Status int

const (
	StatusUnknown Status = iota
	StatusOK
	StatusNeedsFix
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNeedsFix:
		return "NEEDS FIX"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of checking one file.
type Result struct {
	Path   string
	Status Status
	Line   string // the inspected line, for UNKNOWN reports
}

// Name returns the file name without directory and extension.
func (r Result) Name() string {
	base := filepath.Base(r.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Classify inspects the second line of content.
func Classify(content, indent string) (Status, string) {
	lines := strings.SplitN(content, "\n", 3)
	if len(lines) < 2 {
		return StatusUnknown, ""
	}
	line := strings.TrimRight(lines[1], "\r")
	switch {
	case strings.TrimSpace(line) == "":
		return StatusUnknown, line
	case strings.HasPrefix(line, indent):
		return StatusOK, line
	case line[0] != ' ' && line[0] != '\t':
		return StatusNeedsFix, line
	default:
		return StatusUnknown, line
	}
}

// Check reads path and classifies it.
func Check(path, indent string) (Result, error) {
	content, err := textio.ReadFile(path, textio.DefaultEncoding)
	if err != nil {
		return Result{Path: path}, err
	}
	status, line := Classify(content, indent)
	return Result{Path: path, Status: status, Line: line}, nil
}

// Apply indents every line that directly follows a line ending in "{" and
// starts without indentation. A closing brace on that line is left alone so
// that "{\n}" stays as it is.
func Apply(content, indent string) string {
	if indent == "" {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		prev := strings.TrimRight(lines[i-1], "\r")
		line := lines[i]
		if !strings.HasSuffix(prev, "{") || line == "" {
			continue
		}
		switch line[0] {
		case ' ', '\t', '\r', '}':
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// Fix rewrites path with Apply and reports whether the content changed.
// Unchanged files are not written.
func Fix(path, indent string) (bool, error) {
	content, err := textio.ReadFile(path, textio.DefaultEncoding)
	if err != nil {
		return false, err
	}
	fixed := Apply(content, indent)
	if fixed == content {
		return false, nil
	}
	if err := textio.WriteFile(path, fixed, textio.DefaultEncoding); err != nil {
		return false, err
	}
	return true, nil
}

// Files lists the files to inspect: dir/<stem><ext> for every stem, or every
// file in dir ending in ext when stems is empty.
func Files(dir string, stems []string, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("extension must not be empty")
	}
	if len(stems) == 0 {
		return fsutil.FindFilesByExtension(dir, ext)
	}
	files := make([]string, 0, len(stems))
	for _, stem := range stems {
		files = append(files, filepath.Join(dir, stem+ext))
	}
	return files, nil
}

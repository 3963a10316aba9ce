// Package textio reads and writes whole text files in a named character
// encoding. Content is always UTF-8 in memory; a leading byte order mark is
// dropped on read.
package textio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "utf-8"

// IOError reports a failed read or write of a project file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

// Error implements the error interface for IOError.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Lookup resolves a WHATWG encoding label such as "utf-8", "gbk" or
// "windows-1252".
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// ReadFile reads path and decodes it from the named encoding.
func ReadFile(path, encodingName string) (string, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return string(decoded), nil
}

// WriteFile encodes content in the named encoding and writes it to path,
// creating parent directories as needed.
func WriteFile(path, content, encodingName string) error {
	enc, err := Lookup(encodingName)
	if err != nil {
		return err
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

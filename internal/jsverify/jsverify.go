// Package jsverify checks generated JavaScript modules with esbuild: that
// they parse, and that an emitted declaration is structurally the same
// object as the block it was extracted from.
package jsverify

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/mbtitools/internal/extract"
)

// SyntaxError lists the parse errors esbuild reported for a file.
type SyntaxError struct {
	File     string
	Messages []string
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, strings.Join(e.Messages, "; "))
}

// MismatchError reports an emitted declaration that differs from its source block.
type MismatchError struct {
	Block string
	Diff  string // (-source +emitted)
}

// Error implements the error interface for MismatchError.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("block %q differs from its source (-source +emitted):\n%s", e.Block, e.Diff)
}

func transform(filename, code string, minify bool) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:           api.LoaderJS,
		Format:           api.FormatESModule,
		Sourcefile:       filename,
		MinifyWhitespace: minify,
		MinifySyntax:     minify,
		Charset:          api.CharsetUTF8,
		LogLevel:         api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		err := &SyntaxError{File: filename}
		for _, msg := range result.Errors {
			if loc := msg.Location; loc != nil {
				err.Messages = append(err.Messages, fmt.Sprintf("%d:%d: %s", loc.Line, loc.Column+1, msg.Text))
				continue
			}
			err.Messages = append(err.Messages, msg.Text)
		}
		return "", err
	}
	return string(result.Code), nil
}

// Check returns a *SyntaxError when code does not parse as an ES module.
func Check(filename, code string) error {
	_, err := transform(filename, code, false)
	return err
}

// Canonical returns the minified form of an ES module. Two modules that
// differ only in whitespace, quote style or trailing commas share it.
func Canonical(filename, code string) (string, error) {
	return transform(filename, code, true)
}

// Compare checks that the emitted module declares name with the same object
// as block, the text extracted from the source. It returns a *MismatchError
// when they differ and a *SyntaxError when either side does not parse.
func Compare(name, block, emittedFile, emitted string) error {
	want, err := Canonical(name+" (source)", extract.Render(name, block))
	if err != nil {
		return err
	}
	got, err := Canonical(emittedFile, emitted)
	if err != nil {
		return err
	}
	if want != got {
		return &MismatchError{Block: name, Diff: cmp.Diff(splitProperties(want), splitProperties(got))}
	}
	return nil
}

// splitProperties breaks minified output after every comma.
func splitProperties(code string) []string {
	return strings.SplitAfter(strings.TrimSpace(code), ",")
}

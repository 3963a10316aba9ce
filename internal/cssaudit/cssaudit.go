// Package cssaudit finds stylesheet files that no script imports.
package cssaudit

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/specialistvlad/mbtitools/internal/fsutil"
	"github.com/specialistvlad/mbtitools/internal/textio"
)

// importPattern matches static side-effect and binding imports, dynamic
// imports and require calls of a .css file, with an optional query suffix.
var importPattern = regexp.MustCompile(
	`(?:\bimport\s+(?:[\w$*{}\s,]+?\s+from\s+)?|\bimport\s*\(\s*|\brequire\s*\(\s*)['"]([^'"\n]+?\.css)(?:\?[^'"\n]*)?['"]`,
)

// Options scopes an audit. Root is the project root; StylesheetRoot and
// Scripts are relative to it, Stylesheets is relative to StylesheetRoot.
type Options struct {
	Root           string
	StylesheetRoot string
	Stylesheets    string
	Scripts        []string
}

// Report is the outcome of an audit. Stylesheet paths are slash-separated
// and relative to the stylesheet root.
type Report struct {
	Imports        []string // every imported .css specifier, unique and sorted
	Stylesheets    []string
	Used           []string
	UnusedTopLevel []string // directly under the stylesheet root
	UnusedNested   []string // in a subdirectory of the stylesheet root
}

// Unused returns every unused stylesheet.
func (r *Report) Unused() []string {
	return append(append([]string{}, r.UnusedTopLevel...), r.UnusedNested...)
}

// FindImports returns the .css specifiers imported by a script, in order of
// appearance.
func FindImports(script string) []string {
	var specs []string
	for _, m := range importPattern.FindAllStringSubmatch(script, -1) {
		specs = append(specs, m[1])
	}
	return specs
}

// resolve maps an import specifier in the script at scriptRel (slash path
// relative to the project root) to a project-relative slash path. Bare
// package specifiers do not resolve.
func resolve(scriptRel, spec string) (string, bool) {
	switch {
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		return path.Join(path.Dir(scriptRel), spec), true
	case strings.HasPrefix(spec, "/"):
		return strings.TrimPrefix(path.Clean(spec), "/"), true
	default:
		return "", false
	}
}

// Audit cross-references stylesheet files with the imports found in scripts.
func Audit(ctx context.Context, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	sheetRoot := filepath.Join(opts.Root, filepath.FromSlash(opts.StylesheetRoot))
	sheets, err := fsutil.FindFilesByGlob(sheetRoot, opts.Stylesheets)
	if err != nil {
		return nil, fmt.Errorf("failed to list stylesheets: %w", err)
	}
	scripts, err := fsutil.FindFilesByGlob(opts.Root, opts.Scripts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	logger.Debug("Audit scope resolved.", "stylesheets", len(sheets), "scripts", len(scripts))

	imported := make(map[string]struct{}) // project-relative slash paths
	specs := make(map[string]struct{})
	for _, script := range scripts {
		content, err := textio.ReadFile(script, textio.DefaultEncoding)
		if err != nil {
			logger.Warn("Skipping unreadable script.", "path", script, "error", err)
			continue
		}
		rel, err := filepath.Rel(opts.Root, script)
		if err != nil {
			return nil, err
		}
		for _, spec := range FindImports(content) {
			specs[spec] = struct{}{}
			if target, ok := resolve(filepath.ToSlash(rel), spec); ok {
				imported[target] = struct{}{}
			} else {
				logger.Debug("Import does not resolve to a project file.", "script", rel, "import", spec)
			}
		}
	}

	report := &Report{Imports: sortedKeys(specs)}
	rootRel := path.Clean(filepath.ToSlash(opts.StylesheetRoot))
	for _, sheet := range sheets {
		rel, err := filepath.Rel(sheetRoot, sheet)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		report.Stylesheets = append(report.Stylesheets, rel)

		switch _, used := imported[path.Join(rootRel, rel)]; {
		case used:
			report.Used = append(report.Used, rel)
		case strings.Contains(rel, "/"):
			report.UnusedNested = append(report.UnusedNested, rel)
		default:
			report.UnusedTopLevel = append(report.UnusedTopLevel, rel)
		}
	}
	return report, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

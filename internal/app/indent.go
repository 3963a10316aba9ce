package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/specialistvlad/mbtitools/internal/indent"
)

func (a *App) indentFiles() ([]string, string, error) {
	cfg := a.model.Indent
	if cfg == nil {
		return nil, "", errors.New("no indent section configured")
	}
	files, err := indent.Files(a.path(cfg.Dir), cfg.Files, cfg.Extension)
	if err != nil {
		return nil, "", err
	}
	return files, cfg.Indent, nil
}

// IndentCheck reports generated files whose first property is not indented.
func (a *App) IndentCheck(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	files, ind, err := a.indentFiles()
	if err != nil {
		return err
	}

	a.println("Checking indentation...")
	a.println(rule)
	var needsFix []string
	for _, f := range files {
		res, err := indent.Check(f, ind)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("File does not exist, skipping.", "path", f)
			a.printf("%s: MISSING\n", res.Name())
			continue
		}
		if err != nil {
			return err
		}
		switch res.Status {
		case indent.StatusUnknown:
			a.printf("%s: %s - %s\n", res.Name(), res.Status, truncate(res.Line, 30))
		case indent.StatusNeedsFix:
			needsFix = append(needsFix, res.Name())
			a.printf("%s: %s (no indent)\n", res.Name(), res.Status)
		default:
			a.printf("%s: %s\n", res.Name(), res.Status)
		}
	}

	a.println(rule)
	a.printf("Total: %d, Needs fix: %d\n", len(files), len(needsFix))
	if len(needsFix) > 0 {
		a.printf("Files to fix: %s\n", strings.Join(needsFix, ", "))
		return fmt.Errorf("%w: %d file(s) need an indentation fix", ErrFindings, len(needsFix))
	}
	return nil
}

// IndentFix indents the first property of every generated file.
func (a *App) IndentFix(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	files, ind, err := a.indentFiles()
	if err != nil {
		return err
	}

	a.banner("Fix indentation")
	fixed := 0
	for _, f := range files {
		changed, err := indent.Fix(f, ind)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("File does not exist, skipping.", "path", f)
			a.printf("  [-] Missing: %s\n", a.rel(f))
			continue
		}
		if err != nil {
			return err
		}
		if changed {
			fixed++
			a.printf("  [+] Fixed: %s\n", a.rel(f))
		} else {
			a.printf("  [=] OK: %s\n", a.rel(f))
		}
	}

	a.println(rule)
	a.printf("[+] Done: fixed %d/%d file(s).\n", fixed, len(files))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

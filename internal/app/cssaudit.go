package app

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/specialistvlad/mbtitools/internal/cssaudit"
)

// CSSAudit reports stylesheets that no script imports.
func (a *App) CSSAudit(ctx context.Context) error {
	ctx = a.context(ctx)
	cfg := a.model.CSSAudit
	if cfg == nil {
		return errors.New("no css_audit section configured")
	}

	report, err := cssaudit.Audit(ctx, cssaudit.Options{
		Root:           a.config.Root,
		StylesheetRoot: cfg.StylesheetRoot,
		Stylesheets:    cfg.Stylesheets,
		Scripts:        cfg.Scripts,
	})
	if err != nil {
		return err
	}

	a.println("Imported CSS files:")
	a.println(rule)
	for _, imp := range report.Imports {
		a.printf("  + %s\n", imp)
	}
	a.println()
	a.println(rule)
	a.println("Unused CSS files:")
	a.println(rule)

	a.println("\n[TOP LEVEL] (not imported, candidates for deletion):")
	for _, f := range report.UnusedTopLevel {
		a.printf("  - %s\n", path.Join(cfg.StylesheetRoot, f))
	}
	a.println("\n[NESTED] (not imported by path, check before deleting):")
	for _, f := range report.UnusedNested {
		a.printf("  - %s\n", path.Join(cfg.StylesheetRoot, f))
	}

	a.println()
	a.println(rule)
	a.println("Summary:")
	a.printf("  - Imported CSS files: %d\n", len(report.Imports))
	a.printf("  - Stylesheets scanned: %d\n", len(report.Stylesheets))
	a.printf("  - Unused top level: %d\n", len(report.UnusedTopLevel))
	a.printf("  - Unused nested: %d\n", len(report.UnusedNested))

	if n := len(report.Unused()); n > 0 {
		return fmt.Errorf("%w: %d unused stylesheet(s)", ErrFindings, n)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/mbtitools/internal/config"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/specialistvlad/mbtitools/internal/extract"
	"github.com/specialistvlad/mbtitools/internal/textio"
)

// ExtractOptions select what Extract does.
type ExtractOptions struct {
	Job    string // only this job; empty runs every job
	DryRun bool
}

// Extract splits every configured enclosing object into one file per block.
// The first error aborts the run.
func (a *App) Extract(ctx context.Context, opts ExtractOptions) error {
	ctx = a.context(ctx)
	jobs, err := a.model.ExtractJobs(opts.Job)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		ctxlog.FromContext(ctx).Warn("No extract jobs configured.")
		return nil
	}

	a.banner("Block extraction")
	for _, job := range jobs {
		if err := a.extractJob(ctxlog.With(ctx, "job", job.Name), job, opts.DryRun); err != nil {
			return fmt.Errorf("extract %q: %w", job.Name, err)
		}
	}
	a.println(rule)
	return nil
}

func (a *App) extractJob(ctx context.Context, job *config.ExtractJob, dryRun bool) error {
	logger := ctxlog.FromContext(ctx)

	body, err := a.readObject(ctx, job)
	if err != nil {
		return err
	}
	a.warnKeys(ctx, job, body)

	opts := extract.Options{Naive: job.Naive, TopLevel: true}
	outDir := a.path(job.OutputDir)
	a.printf("\n[*] Extracting %d blocks into %s\n", len(job.Blocks), a.rel(outDir))

	for i, name := range job.Blocks {
		block, err := extract.ExtractWith(body, name, opts)
		if err != nil {
			return err
		}
		if job.Reindent {
			block = extract.Reindent(block, job.Indent)
		} else {
			block = extract.NormalizeIndent(block, job.Indent)
		}
		rendered := extract.Render(name, block)
		target := filepath.Join(outDir, name+config.DefaultExtension)

		if dryRun {
			a.printf("  [%d/%d] %s: would write %s (%d chars)\n", i+1, len(job.Blocks), name, a.rel(target), len([]rune(rendered)))
			continue
		}
		if err := textio.WriteFile(target, rendered, job.Encoding); err != nil {
			return err
		}
		logger.Debug("Block written.", "block", name, "path", target, "bytes", len(rendered))
		a.printf("  [%d/%d] %s -> %s (%d chars)\n", i+1, len(job.Blocks), name, a.rel(target), len([]rune(block)))
	}

	if dryRun {
		a.printf("[=] Dry run: %d files not written.\n", len(job.Blocks))
	} else {
		a.printf("[+] %d files written.\n", len(job.Blocks))
	}
	return nil
}

// readObject reads the job source and returns the body of its enclosing object.
func (a *App) readObject(ctx context.Context, job *config.ExtractJob) (string, error) {
	src := a.path(job.Source)
	content, err := textio.ReadFile(src, job.Encoding)
	if err != nil {
		return "", err
	}
	a.printf("[*] Read %s (%d chars)\n", a.rel(src), len([]rune(content)))

	body, err := extract.ExtractWith(content, job.Object, extract.Options{Separator: '=', Naive: job.Naive})
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Enclosing object located.", "object", job.Object, "chars", len(body))
	return body, nil
}

// warnKeys logs top-level keys that appear twice or are not configured.
func (a *App) warnKeys(ctx context.Context, job *config.ExtractJob, body string) {
	logger := ctxlog.FromContext(ctx)

	configured := make(map[string]bool, len(job.Blocks))
	for _, b := range job.Blocks {
		configured[b] = true
	}
	seen := make(map[string]int)
	for _, key := range extract.TopLevelKeys(body, extract.Options{Naive: job.Naive}) {
		seen[key]++
		if seen[key] == 2 {
			logger.Warn("Key appears more than once; the first occurrence is extracted.", "key", key)
		}
		if !configured[key] && seen[key] == 1 {
			logger.Warn("Key is not in the configured block list and will not be extracted.", "key", key)
		}
	}
}

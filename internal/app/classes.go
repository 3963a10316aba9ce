package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/specialistvlad/mbtitools/internal/classrename"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
)

// RenameOptions select what RenameClasses does.
type RenameOptions struct {
	Job    string
	DryRun bool
}

// RenameClasses applies the configured class renames. Missing files are
// reported and skipped.
func (a *App) RenameClasses(ctx context.Context, opts RenameOptions) error {
	ctx = a.context(ctx)
	jobs, err := a.model.ClassRenameJobs(opts.Job)
	if err != nil {
		return err
	}

	a.banner("Rename conflicting CSS classes")
	changed := 0
	for _, job := range jobs {
		logger := ctxlog.FromContext(ctx).With("job", job.Name)
		logger.Debug("Applying renames.", "files", len(job.Files), "renames", len(job.Renames))

		for _, file := range job.Files {
			p := a.path(file)
			res, err := classrename.RenameFile(p, job.Renames, opts.DryRun)
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("File does not exist, skipping.", "path", p)
				a.printf("[-] Missing: %s\n", file)
				continue
			}
			if err != nil {
				return fmt.Errorf("class_rename %q: %w", job.Name, err)
			}

			a.printf("\n[*] %s\n", file)
			if !res.Changed {
				a.println("    [=] No changes")
				continue
			}
			changed++
			if opts.DryRun {
				a.println("    [~] Would update")
			} else {
				a.println("    [+] Updated")
			}
			for _, old := range job.SortedNames() {
				if n := res.Counts[old]; n > 0 {
					a.printf("        %s -> %s (%d)\n", old, job.Renames[old], n)
				}
			}
		}
	}

	a.println()
	a.println(rule)
	a.printf("[+] Done: %d file(s) changed.\n", changed)
	return nil
}

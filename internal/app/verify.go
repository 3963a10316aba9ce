package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/mbtitools/internal/config"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/specialistvlad/mbtitools/internal/extract"
	"github.com/specialistvlad/mbtitools/internal/jsverify"
	"github.com/specialistvlad/mbtitools/internal/textio"
)

// Verify checks that every emitted file parses as JavaScript and declares
// the same object as its block in the source.
func (a *App) Verify(ctx context.Context, job string) error {
	ctx = a.context(ctx)
	jobs, err := a.model.ExtractJobs(job)
	if err != nil {
		return err
	}

	a.banner("Verify extracted blocks")
	failed, total := 0, 0
	for _, j := range jobs {
		n, err := a.verifyJob(ctxlog.With(ctx, "job", j.Name), j)
		if err != nil {
			return fmt.Errorf("verify %q: %w", j.Name, err)
		}
		failed += n
		total += len(j.Blocks)
	}

	a.println(rule)
	a.printf("Total: %d, Failed: %d\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d blocks failed verification", ErrFindings, failed, total)
	}
	return nil
}

// verifyJob returns the number of failed blocks. Source errors abort.
func (a *App) verifyJob(ctx context.Context, job *config.ExtractJob) (int, error) {
	logger := ctxlog.FromContext(ctx)

	body, err := a.readObject(ctx, job)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, name := range job.Blocks {
		block, err := extract.ExtractWith(body, name, extract.Options{Naive: job.Naive, TopLevel: true})
		if err != nil {
			return 0, err
		}
		target := filepath.Join(a.path(job.OutputDir), name+config.DefaultExtension)
		emitted, err := textio.ReadFile(target, job.Encoding)
		if err == nil {
			err = jsverify.Compare(name, block, a.rel(target), emitted)
		}
		if err == nil {
			a.printf("  %s: OK\n", name)
			continue
		}

		failed++
		var mismatch *jsverify.MismatchError
		if errors.As(err, &mismatch) {
			a.printf("  %s: MISMATCH\n%s", name, mismatch.Diff)
		} else {
			a.printf("  %s: FAILED - %v\n", name, err)
		}
		logger.Debug("Block failed verification.", "block", name, "error", err)
	}
	return failed, nil
}

package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/mbtitools/internal/devserver"
)

// Dev frees the configured port range and relaunches the development server.
// answer skips the prompt unless it is devserver.ChoiceAsk.
func (a *App) Dev(ctx context.Context, answer devserver.Choice) error {
	ctx = a.context(ctx)
	cfg := a.model.DevServer
	if cfg == nil {
		return errors.New("no dev_server section configured")
	}

	l := &devserver.Launcher{
		Inspector: a.inspector,
		Runner:    a.runner,
		In:        a.in,
		Out:       a.outW,
	}
	return l.Launch(ctx, devserver.Options{
		PortMin: cfg.PortMin,
		PortMax: cfg.PortMax,
		Command: cfg.Command,
		Answer:  answer,
	})
}

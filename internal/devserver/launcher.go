package devserver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/mbtitools/internal/ctxlog"
)

// Options configure one Launch.
type Options struct {
	PortMin int
	PortMax int
	Command []string
	// Answer skips the prompt when it is not ChoiceAsk.
	Answer Choice
}

// Launcher ties port inspection, the operator prompt and the command runner
// together.
type Launcher struct {
	Inspector PortInspector
	Runner    Runner
	In        io.Reader
	Out       io.Writer
}

const rule = "======================================================================"

// Launch closes earlier instances if the operator agrees, then runs the
// command until it exits or ctx is cancelled. Quitting at the prompt returns
// nil without running anything.
func (l *Launcher) Launch(ctx context.Context, opts Options) error {
	logger := ctxlog.FromContext(ctx)
	out := l.Out

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Starting development server")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[*] Checking for existing instances...")

	listeners, err := l.Inspector.ListeningPorts(ctx)
	if err != nil {
		// Not fatal: the server is started regardless.
		logger.Warn("Could not list listening ports.", "error", err)
	}
	procs := Group(listeners, opts.PortMin, opts.PortMax)
	logger.Debug("Port scan finished.", "listeners", len(listeners), "processes", len(procs), "port_min", opts.PortMin, "port_max", opts.PortMax)

	if len(procs) == 0 {
		fmt.Fprintln(out, "[+] No existing instances found.")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintf(out, "[!] Found %d process(es) using ports %d-%d:\n\n", len(procs), opts.PortMin, opts.PortMax)
		for i, p := range procs {
			fmt.Fprintf(out, "    %d. PID: %d, Ports: %s\n", i+1, p.PID, joinPorts(p.Ports))
		}
		fmt.Fprintln(out)

		choice := opts.Answer
		if choice == ChoiceAsk {
			choice, err = Ask(bufio.NewReader(l.In), out)
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
		}

		switch choice {
		case ChoiceQuit:
			fmt.Fprintln(out, "\n[*] Cancelled. Exiting...")
			return nil
		case ChoiceYes:
			l.terminate(ctx, procs)
		default:
			fmt.Fprintln(out, "\n[!] Warning: New instance may use a different port.")
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintf(out, "[*] Starting %s...\n", strings.Join(opts.Command, " "))
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)

	err = l.Runner.Run(ctx, opts.Command)
	if ctx.Err() != nil {
		fmt.Fprintln(out, "\n\n[*] Development server stopped by user.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("development server: %w", err)
	}
	return nil
}

func (l *Launcher) terminate(ctx context.Context, procs []Process) {
	logger := ctxlog.FromContext(ctx)
	out := l.Out

	fmt.Fprintln(out, "\n[*] Closing existing instances...")
	closed := 0
	for _, p := range procs {
		if err := l.Inspector.Terminate(ctx, p.PID); err != nil {
			logger.Warn("Failed to terminate process.", "pid", p.PID, "error", err)
			fmt.Fprintf(out, "    [-] Failed to close PID %d\n", p.PID)
			continue
		}
		fmt.Fprintf(out, "    [+] Closed PID %d (Ports: %s)\n", p.PID, joinPorts(p.Ports))
		closed++
	}
	fmt.Fprintf(out, "\n[+] Successfully closed %d/%d process(es).\n\n", closed, len(procs))
}

func joinPorts(ports []uint32) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}

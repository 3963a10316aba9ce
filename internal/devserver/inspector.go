package devserver

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Listener is a listening TCP port and the process that owns it.
type Listener struct {
	Port uint32
	PID  int32
}

// PortInspector lists listening ports and terminates processes.
type PortInspector interface {
	ListeningPorts(ctx context.Context) ([]Listener, error)
	Terminate(ctx context.Context, pid int32) error
}

// SystemInspector is the PortInspector backed by the host operating system.
type SystemInspector struct{}

// ListeningPorts returns every TCP socket in the LISTEN state that has an
// owning process.
func (SystemInspector) ListeningPorts(ctx context.Context) ([]Listener, error) {
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	var out []Listener
	for _, c := range conns {
		if c.Status != "LISTEN" || c.Pid <= 0 {
			continue
		}
		out = append(out, Listener{Port: c.Laddr.Port, PID: c.Pid})
	}
	return out, nil
}

// Terminate asks the process to exit.
func (SystemInspector) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("process %d: %w", pid, err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", pid, err)
	}
	return nil
}

// Process is a process holding one or more ports of the watched range.
type Process struct {
	PID   int32
	Ports []uint32
}

// Group keeps the listeners whose port lies in [portMin, portMax] and groups
// them by process. Processes are ordered by PID, ports ascending and unique.
func Group(listeners []Listener, portMin, portMax int) []Process {
	byPID := make(map[int32]map[uint32]struct{})
	for _, l := range listeners {
		if int(l.Port) < portMin || int(l.Port) > portMax {
			continue
		}
		if byPID[l.PID] == nil {
			byPID[l.PID] = make(map[uint32]struct{})
		}
		byPID[l.PID][l.Port] = struct{}{}
	}

	procs := make([]Process, 0, len(byPID))
	for pid, ports := range byPID {
		p := Process{PID: pid}
		for port := range ports {
			p.Ports = append(p.Ports, port)
		}
		sort.Slice(p.Ports, func(i, j int) bool { return p.Ports[i] < p.Ports[j] })
		procs = append(procs, p)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })
	return procs
}

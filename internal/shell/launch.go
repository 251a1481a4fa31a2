package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Launcher starts external commands. The child side of a launch is a
// re-execution of Self with ChildMarker, so the signal and descriptor
// setup happens in the child and never in the interpreter.
type Launcher struct {
	Self   string
	Reaper *Reaper
	Out    io.Writer
	Err    io.Writer
	Trace  bool
	Color  bool

	// Standard descriptors handed to children; nil means the
	// interpreter's own.
	Stdin, Stdout, Stderr *os.File
}

// Launch forks cmd. A background launch announces the child's PID and
// returns at once with waited false. A foreground launch blocks until the
// child is reaped and returns its status; a child killed by a signal is
// also announced.
func (l *Launcher) Launch(ctx context.Context, cmd Command) (status Status, waited bool, err error) {
	if l.Trace {
		fmt.Fprintf(l.Err, "+ %s\n", cmd)
	}

	attr := &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{fd(l.Stdin, os.Stdin), fd(l.Stdout, os.Stdout), fd(l.Stderr, os.Stderr)},
	}
	argv := childArgv(l.Self, cmd, l.Color)

	job, err := l.Reaper.Spawn(func() (int, error) {
		return syscall.ForkExec(l.Self, argv, attr)
	}, cmd, func(job *Job) {
		if job.Command.Background {
			fmt.Fprintf(l.Out, "Background process PID is: %d\n", job.Pid)
		}
	})
	if err != nil {
		return Status{}, false, fmt.Errorf("fork failed: %w", err)
	}
	if cmd.Background {
		return Status{}, false, nil
	}

	select {
	case status = <-job.Done():
	case <-ctx.Done():
		return Status{}, false, ctx.Err()
	}

	if status.Signaled {
		fmt.Fprintln(l.Out, status)
	}
	return status, true, nil
}

func fd(f, fallback *os.File) uintptr {
	if f == nil {
		f = fallback
	}
	return f.Fd()
}

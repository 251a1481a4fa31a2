package shell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

const (
	enterForegroundOnly = "\nEntering foreground-only mode (& is ignored)\n"
	exitForegroundOnly  = "\nExiting foreground-only mode\n"
)

// Mode is the process-wide foreground-only flag. While it is set a
// trailing & is ignored by the parser.
type Mode struct {
	foregroundOnly atomic.Bool
}

func (m *Mode) ForegroundOnly() bool {
	if m == nil {
		return false
	}
	return m.foregroundOnly.Load()
}

// Toggle flips the flag and returns the notice describing the new state.
func (m *Mode) Toggle() string {
	for {
		old := m.foregroundOnly.Load()
		if m.foregroundOnly.CompareAndSwap(old, !old) {
			if old {
				return exitForegroundOnly
			}
			return enterForegroundOnly
		}
	}
}

// Watch handles the interpreter's share of the terminal signals until ctx
// is done: every SIGTSTP toggles the mode and prints its notice, SIGINT is
// swallowed. The signals are caught rather than ignored so that children
// start with the default dispositions.
func (m *Mode) Watch(ctx context.Context, sigs <-chan os.Signal, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			if sig == unix.SIGTSTP {
				io.WriteString(out, m.Toggle())
			}
		}
	}
}

// notifyInterpreter routes the signals the interpreter reacts to.
func notifyInterpreter() (mode, child chan os.Signal) {
	mode = make(chan os.Signal, 4)
	signal.Notify(mode, unix.SIGTSTP, unix.SIGINT)
	child = make(chan os.Signal, 1)
	signal.Notify(child, unix.SIGCHLD)
	return mode, child
}

// applyChildSignals sets the dispositions a child keeps across exec.
// Children never stop on SIGTSTP; background children also ignore SIGINT.
// A caught signal reverts to its default action on exec, so foreground
// children catch SIGINT here even if it was ignored on entry.
func applyChildSignals(background bool) {
	signal.Ignore(unix.SIGTSTP)
	if background {
		signal.Ignore(unix.SIGINT)
	} else {
		signal.Notify(make(chan os.Signal, 1), unix.SIGINT)
	}
}

// suspendSelf delivers SIGTSTP to the interpreter, the same path a
// terminal Ctrl-Z takes while a foreground child runs.
func suspendSelf() {
	unix.Kill(unix.Getpid(), unix.SIGTSTP)
}

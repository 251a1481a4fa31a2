package shell

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Status is how a child finished: exited with Code, or killed by Signal.
type Status struct {
	Code     int
	Signal   unix.Signal
	Signaled bool
}

func Exited(code int) Status { return Status{Code: code} }

func Killed(sig unix.Signal) Status { return Status{Signal: sig, Signaled: true} }

func statusFromWait(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Killed(ws.Signal())
	}
	return Exited(ws.ExitStatus())
}

// String renders the status the way the status built-in prints it.
func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %d", int(s.Signal))
	}
	return fmt.Sprintf("exit value %d", s.Code)
}

// LastStatus holds the outcome of the most recent foreground command.
// The zero value reports exit value 0.
type LastStatus struct {
	v atomic.Pointer[Status]
}

func (l *LastStatus) Get() Status {
	if s := l.v.Load(); s != nil {
		return *s
	}
	return Exited(0)
}

func (l *LastStatus) Set(s Status) {
	l.v.Store(&s)
}

package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Job is a launched child that has not been reaped yet.
type Job struct {
	Pid     int
	Command Command
	done    chan Status
}

// Done delivers the status of a foreground job once it is reaped.
func (j *Job) Done() <-chan Status {
	return j.done
}

type waitFunc func(pid int, ws *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error)

// Reaper owns every wait on the interpreter's children. Foreground jobs
// get their status through Job.Done; any other child is reported as a
// finished background process.
type Reaper struct {
	mu   sync.Mutex
	jobs map[int]*Job
	out  io.Writer
	wait waitFunc
}

func NewReaper(out io.Writer) *Reaper {
	return &Reaper{
		jobs: make(map[int]*Job),
		out:  out,
		wait: unix.Wait4,
	}
}

// Spawn runs start and records the child it created. The reaper is held
// for the duration so a child cannot be collected before it is known.
// started, if set, runs before any completion of the job can be reported.
func (r *Reaper) Spawn(start func() (int, error), cmd Command, started func(*Job)) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pid, err := start()
	if err != nil {
		return nil, err
	}

	job := &Job{
		Pid:     pid,
		Command: cmd,
		done:    make(chan Status, 1),
	}
	r.jobs[pid] = job
	if started != nil {
		started(job)
	}
	return job, nil
}

// Reap collects every child that has already terminated, without
// blocking, and returns how many it collected.
func (r *Reaper) Reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reaped := 0
	for {
		var ws unix.WaitStatus
		pid, err := r.wait(-1, &ws, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return reaped
		}
		reaped++

		status := statusFromWait(ws)
		job, ok := r.jobs[pid]
		delete(r.jobs, pid)
		if ok && !job.Command.Background {
			job.done <- status
			continue
		}
		fmt.Fprintf(r.out, "Background PID %d is done: %s\n", pid, status)
	}
}

// Pending returns the number of launched children not yet reaped.
func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.jobs)
}

// Watch reaps on every SIGCHLD until ctx is done.
func (r *Reaper) Watch(ctx context.Context, sigs <-chan os.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigs:
			r.Reap()
		}
	}
}

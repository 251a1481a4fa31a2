package shell

import (
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

const gatePollMillis = 50

// gatedStdin is the line editor's view of standard input. The editor
// reads ahead on its own goroutines, so input is only taken from the
// descriptor while the gate is open; between lines it belongs to the
// foreground child.
type gatedStdin struct {
	fd     int
	mu     sync.Mutex
	cond   *sync.Cond
	open   bool
	closed bool
}

func newGatedStdin(fd int) *gatedStdin {
	g := &gatedStdin{fd: fd}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Open lets reads through until the next Shut.
func (g *gatedStdin) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.open = true
	g.cond.Broadcast()
}

// Shut holds back reads. A read already waiting stays parked.
func (g *gatedStdin) Shut() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.open = false
}

// Close makes every pending and future read report end of input. The
// descriptor itself is left alone.
func (g *gatedStdin) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	g.cond.Broadcast()
	return nil
}

func (g *gatedStdin) Read(p []byte) (int, error) {
	for {
		if !g.wait() {
			return 0, io.EOF
		}

		fds := []unix.PollFd{{Fd: int32(g.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, gatePollMillis)
		if err == unix.EINTR || n == 0 {
			continue
		}
		if err != nil {
			return 0, err
		}
		if !g.isOpen() {
			continue
		}

		n, err = unix.Read(g.fd, p)
		switch {
		case err == unix.EINTR || err == unix.EAGAIN:
			continue
		case err != nil:
			return 0, err
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// wait blocks until the gate opens. It reports false once closed.
func (g *gatedStdin) wait() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for !g.open && !g.closed {
		g.cond.Wait()
	}
	return !g.closed
}

func (g *gatedStdin) isOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.open && !g.closed
}

package shell

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var errColor = color.New(color.FgRed)

func init() {
	SetColor(true)
}

// SetColor turns red diagnostics on when enabled is set and standard
// error is a terminal.
func SetColor(enabled bool) {
	if colorEnabled(enabled, os.Stderr) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}
}

func colorEnabled(enabled bool, f *os.File) bool {
	return enabled && isatty.IsTerminal(f.Fd())
}

// diag writes a single diagnostic line in one write.
func diag(w io.Writer, format string, a ...interface{}) {
	io.WriteString(w, errColor.Sprintf("smallsh: "+format, a...)+"\n")
}

// syncWriter serializes writes from the read loop, the mode watcher and
// the reaper.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

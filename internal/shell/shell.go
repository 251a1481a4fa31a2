package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/oklog/run"
	"github.com/spf13/afero"
	"smallsh/internal/config"
	"smallsh/internal/history"
)

type Shell struct {
	config   *config.Config
	history  *history.History
	mode     *Mode
	last     LastStatus
	parser   *Parser
	reaper   *Reaper
	launcher *Launcher
	reader   *readline.Instance
	stdin    *gatedStdin
	out      io.Writer
	errOut   io.Writer
}

// New builds a shell that reads from the terminal. History is kept in
// fsys when enabled.
func New(cfg *config.Config, fsys afero.Fs) (*Shell, error) {
	var hist *history.History
	if cfg.History {
		var err error
		hist, err = history.New(fsys, cfg.HistoryFile, cfg.MaxHistory)
		if err != nil {
			return nil, fmt.Errorf("error initializing history: %w", err)
		}
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error locating executable: %w", err)
	}

	stdin := newGatedStdin(int(os.Stdin.Fd()))
	rl, err := readline.NewEx(&readline.Config{
		Stdin:               stdin,
		Prompt:              cfg.Prompt,
		HistoryLimit:        cfg.MaxHistory,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	if hist != nil {
		for _, item := range hist.GetAll() {
			rl.SaveHistory(item)
		}
	}

	s := newShell(cfg, hist, self, rl.Stdout(), rl.Stderr())
	s.reader, s.stdin = rl, stdin
	return s, nil
}

func newShell(cfg *config.Config, hist *history.History, self string, out, errOut io.Writer) *Shell {
	out = newSyncWriter(out)
	errOut = newSyncWriter(errOut)

	mode := &Mode{}
	reaper := NewReaper(out)

	return &Shell{
		config:  cfg,
		history: hist,
		mode:    mode,
		parser: &Parser{
			Marker: cfg.PIDMarker,
			PID:    strconv.Itoa(os.Getpid()),
			Mode:   mode,
		},
		reaper: reaper,
		launcher: &Launcher{
			Self:   self,
			Reaper: reaper,
			Out:    out,
			Err:    errOut,
			Trace:  cfg.Trace,
			Color:  cfg.Color,
		},
		out:    out,
		errOut: errOut,
	}
}

// filterInput turns Ctrl-Z at the prompt into a SIGTSTP for the
// interpreter instead of letting the line editor suspend it.
func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		suspendSelf()
		return r, false
	}
	return r, true
}

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	modeSigs, childSigs := notifyInterpreter()
	defer signal.Stop(modeSigs)
	defer signal.Stop(childSigs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	g.Add(func() error {
		return s.mode.Watch(ctx, modeSigs, s.out)
	}, func(error) {
		cancel()
	})
	g.Add(func() error {
		return s.reaper.Watch(ctx, childSigs)
	}, func(error) {
		cancel()
	})
	g.Add(func() error {
		return s.loop(ctx)
	}, func(error) {
		cancel()
		s.stdin.Close()
		s.reader.Close()
	})

	err := g.Run()
	if errors.Is(err, ErrExit) || errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return nil
	}
	return err
}

func (s *Shell) loop(ctx context.Context) error {
	for {
		s.stdin.Open()
		line, err := s.reader.Readline()
		s.stdin.Shut()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			diag(s.errOut, "%v", err)
		}
	}
}

// Execute runs one input line. Blank lines and comments are skipped.
func (s *Shell) Execute(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	s.record(line)

	cmd, err := s.parser.Parse(line)
	if err != nil {
		return err
	}

	if ok, err := s.executeBuiltin(cmd); ok {
		return err
	}

	status, waited, err := s.launcher.Launch(ctx, cmd)
	if err != nil {
		return err
	}
	if waited {
		s.last.Set(status)
	}
	return nil
}

func (s *Shell) record(line string) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(line); err != nil {
		diag(s.errOut, "error saving history: %v", err)
	}
}

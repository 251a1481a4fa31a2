package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExit is returned by Execute when the exit built-in runs.
var ErrExit = errors.New("exit")

var errNoHome = errors.New("cd: HOME not set")

func (s *Shell) executeBuiltin(cmd Command) (bool, error) {
	switch cmd.Args[0] {
	case "cd":
		return true, s.changeDirectory(cmd.Args[1:])
	case "exit":
		return true, ErrExit
	case "status":
		fmt.Fprintln(s.out, s.last.Get())
		return true, nil
	case "history":
		return true, s.showHistory()
	default:
		return false, nil
	}
}

func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		if s.config.HomeDir == "" {
			return errNoHome
		}
		dir = s.config.HomeDir
	} else {
		dir = args[0]
	}

	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cd: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (s *Shell) showHistory() error {
	if s.history == nil {
		return nil
	}
	for i, cmd := range s.history.GetAll() {
		fmt.Fprintf(s.out, "%d: %s\n", i+1, cmd)
	}
	return nil
}

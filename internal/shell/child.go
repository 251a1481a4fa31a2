package shell

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ChildMarker as the first argument makes the binary act as the child
// half of a launch instead of an interpreter.
const ChildMarker = "__smallsh_child"

// Exit codes of a child that fails before its program starts.
const (
	ExitOpenFailure = 1
	ExitDupFailure  = 2
	ExitExecFailure = 1
	ExitUsage       = 2
)

const (
	roleForeground = "fg"
	roleBackground = "bg"
	colorOn        = "color"
	colorOff       = "nocolor"
)

func childArgv(self string, cmd Command, color bool) []string {
	role := roleForeground
	if cmd.Background {
		role = roleBackground
	}
	colorArg := colorOff
	if color {
		colorArg = colorOn
	}
	argv := []string{self, ChildMarker, role, colorArg, cmd.Input, cmd.Output, "--"}
	return append(argv, cmd.Args...)
}

// RunChild runs in a freshly forked child. It sets the signal
// dispositions for the child's role, applies the redirections and
// replaces the process image. It only returns on failure, with the exit
// code the child should terminate with.
func RunChild(args []string, stderr io.Writer) int {
	if len(args) < 6 || args[4] != "--" {
		diag(stderr, "malformed child invocation")
		return ExitUsage
	}
	SetColor(args[1] == colorOn)
	background := args[0] == roleBackground
	input, output, argv := args[2], args[3], args[5:]

	applyChildSignals(background)

	if background {
		if input == "" {
			input = os.DevNull
		}
		if output == "" {
			output = os.DevNull
		}
	}

	if input != "" {
		if code := redirect(stderr, input, unix.O_RDONLY, 0, 0); code != 0 {
			return code
		}
	}
	if output != "" {
		if code := redirect(stderr, output, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0600, 1); code != 0 {
			return code
		}
	}

	path, err := exec.LookPath(argv[0])
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	if err == nil {
		err = unix.Exec(path, argv, os.Environ())
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		err = execErr.Err
	}
	diag(stderr, "%s: %v", argv[0], err)
	return ExitExecFailure
}

// redirect opens path and installs it as descriptor target. The opened
// descriptor itself is closed on exec.
func redirect(stderr io.Writer, path string, flags int, perm uint32, target int) int {
	fd, err := unix.Open(path, flags, perm)
	if err != nil {
		diag(stderr, "cannot open %s: %v", path, err)
		return ExitOpenFailure
	}
	if fd == target {
		return 0
	}
	if err := dupTo(fd, target); err != nil {
		diag(stderr, "cannot redirect %s: %v", path, err)
		return ExitDupFailure
	}
	unix.CloseOnExec(fd)
	return 0
}

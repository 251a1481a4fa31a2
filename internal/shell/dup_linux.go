package shell

import "golang.org/x/sys/unix"

// Some linux ports have no dup2.
func dupTo(fd, target int) error {
	return unix.Dup3(fd, target, 0)
}

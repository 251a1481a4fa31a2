//go:build unix && !linux

package shell

import "golang.org/x/sys/unix"

func dupTo(fd, target int) error {
	return unix.Dup2(fd, target)
}

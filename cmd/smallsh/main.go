package main

import (
	"os"

	"smallsh/internal/shell"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == shell.ChildMarker {
		os.Exit(shell.RunChild(os.Args[2:], os.Stderr))
	}

	Execute()
}

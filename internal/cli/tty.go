package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsTerminal reports whether f is attached to a terminal, via the standard
// x/sys/unix TCGETS-ioctl probe (ioctl succeeds only on a tty fd). Used to
// decide whether the REPL prints prompts; results are printed either way.
func IsTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}

//go:build windows

package restart

import (
	"fmt"
	"os"
	"os/exec"
)

// reexec spawns a replacement process and exits. Windows has no
// in-place exec, so the PID changes.
func reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}

	child := exec.Command(exe, os.Args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		return fmt.Errorf("spawning replacement process: %w", err)
	}

	os.Exit(0)
	return nil
}

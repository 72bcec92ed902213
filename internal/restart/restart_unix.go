//go:build !windows

package restart

import (
	"fmt"
	"os"
	"syscall"
)

// reexec replaces the current process image. It returns only on
// failure; on success the call never comes back.
func reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", exe, err)
	}
	return nil
}

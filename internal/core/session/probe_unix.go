//go:build unix

package session

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Alive sends signal 0, which checks existence without delivering anything.
// EPERM means the process exists under another user.
func (p *SystemProbe) Alive(pid int) bool {
	if pid <= 0 {
		return true
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

//go:build !windows

// Package process terminates browser process trees.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group of pid, taking
// Chrome's renderer and GPU children down with it.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill already signalled the leader; errors mean it is gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

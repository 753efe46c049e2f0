//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid. Non-positive
// pids are ignored: -0 would be our own group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// The launcher kills the leader on its own if this fails.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-terminates pid and its children with taskkill.
// Non-positive pids are ignored.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// The launcher kills the leader on its own if this fails.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an int
}

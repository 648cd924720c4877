//go:build windows

package internal

import (
	"fmt"
	"os/exec"
)

// SetProcessGroup is a no-op on Windows; taskkill's /T flag walks the
// child tree by PID instead of relying on a process group.
func SetProcessGroup(cmd *exec.Cmd) {}

// Terminate kills cmd's process tree via taskkill. Windows has no SIGTERM
// equivalent that cmd.exe children reliably honor, so Terminate and Kill
// perform the same forceful tree-kill.
func Terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return exec.Command("taskkill", "/T", "/F", "/PID", fmt.Sprint(cmd.Process.Pid)).Run()
}

// Kill kills cmd's process tree via taskkill.
func Kill(cmd *exec.Cmd) error {
	return Terminate(cmd)
}

package internal

import (
	"os/exec"
	"runtime"
)

// ShellCommand builds an *exec.Cmd that runs command through the host's
// default shell: /bin/sh -c on POSIX systems, cmd.exe /c on Windows.
//
// The returned Cmd is not started; callers are expected to call
// SetProcessGroup before Start if they intend to Terminate or Kill the
// whole child tree later.
func ShellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd.exe", "/c", command)
	}
	return exec.Command("/bin/sh", "-c", command)
}

//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// relayedSignals are caught while the server runs and passed on to it
var relayedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

func forwardSignal(proc *os.Process, sig os.Signal) error {
	return proc.Signal(sig)
}

// exitStatus maps a child killed by a signal to 128+signo, like a shell does
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

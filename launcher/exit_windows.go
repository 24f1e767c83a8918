//go:build windows

package launcher

import "os"

// The console delivers Ctrl-C to every attached process, so the launcher only
// needs to survive it until the server exits.
var relayedSignals = []os.Signal{os.Interrupt}

func forwardSignal(_ *os.Process, _ os.Signal) error {
	return nil
}

func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}

// Package interpreter discovers a usable Python interpreter on the host.
//
// A Locator probes an ordered list of candidate commands with a version
// query and selects the first one that runs and exits cleanly. Probes go
// through the CommandRunner interface so that tests can substitute a mock.
//
// Usage:
//
//	locator := interpreter.NewLocator(logger, []string{"python3", "python"})
//	interp, err := locator.Locate(ctx)
//	if errors.Is(err, interpreter.ErrNotFound) {
//	    // no candidate answered
//	}
package interpreter

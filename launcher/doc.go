// Package launcher spawns the Python server and relays its exit code.
//
// A Launcher asks its Locator for an interpreter, runs the server script
// with the launcher's own arguments appended, wires the child to the
// parent's stdin, stdout and stderr, hands over the parent's environment
// unchanged and returns the child's exit code for the caller to exit with.
//
// Usage:
//
//	l := launcher.New(logger, locator, "/opt/mcp-postgres/server.py")
//	os.Exit(l.Run(ctx, os.Args[1:]))
package launcher

// Package main is the entry point for the mcp-postgres launcher.
//
// The launcher finds a Python interpreter on the host (python3, then python)
// and runs the PostgreSQL MCP server script installed next to it, passing
// every command-line argument through unchanged. The server inherits the
// launcher's stdin, stdout, stderr and environment, and the launcher exits
// with the server's exit code.
//
// The application uses Uber's fx framework for dependency injection and lifecycle
// management, with zap for structured logging and viper for configuration.
package main

// Package driving defines the interfaces the core exposes to its
// callers: the CLI, the TUI and the MCP server all drive the application
// through these and nothing else.
package driving

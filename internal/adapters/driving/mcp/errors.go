// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Spindraft. It enables AI assistants to inspect and modify the
// live simulation session.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")

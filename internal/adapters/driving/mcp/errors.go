// Package mcp provides an MCP (Model Context Protocol) server adapter for copilot.
// It lets AI assistants ask questions over the uploaded papers and browse
// their documents and claims.
package mcp

import "errors"

// Port validation errors.
var (
	ErrMissingRegistry        = errors.New("mcp: document registry is required")
	ErrMissingClaims          = errors.New("mcp: claims service is required")
	ErrMissingConversationNew = errors.New("mcp: conversation factory is required")
)

// ErrUnknownConversation is returned for a conversation id this server did not
// issue or has since evicted.
var ErrUnknownConversation = errors.New("unknown conversation")

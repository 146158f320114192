// Package domain defines the core entities of the research copilot client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF and its processing status
//   - Message: One chat turn, with Citations on assistant replies
//   - Claim: An extracted, categorised assertion tied to a page
//   - Selection: Search scope, PDF target and active view
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

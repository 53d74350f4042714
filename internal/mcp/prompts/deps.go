// Package prompts contains MCP prompt implementations for jsontypegen.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	// DefaultTarget is the target generation uses when none is given.
	DefaultTarget string
}

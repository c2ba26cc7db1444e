// Package driving defines the use cases the CLI and the MCP server call:
// scanning a directory, deleting reviewed documents, managing stored
// reports and changing settings.
//
// Implementations live in internal/core/services. Adapters depend on these
// interfaces only, so commands and tools can be tested against mocks.
package driving

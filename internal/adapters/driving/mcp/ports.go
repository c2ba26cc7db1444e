package mcp

import (
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Scan runs duplicate detection.
	Scan driving.ScanService

	// Document deletes reviewed documents.
	Document driving.DocumentService

	// Report stores and serves scan reports.
	Report driving.ReportService

	// Settings supplies the default threshold.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Scan == nil {
		return ErrMissingScanService
	}
	// Document, Report and Settings are optional
	return nil
}

// Package mcp provides an MCP (Model Context Protocol) server adapter for docdupe.
// It lets AI assistants scan directories for duplicate office documents,
// read stored reports and delete reviewed duplicates.
package mcp

import "errors"

// ErrMissingScanService is returned when the scan service is not provided.
var ErrMissingScanService = errors.New("mcp: scan service is required")

// ErrMissingDocumentService is returned by delete_documents when no document
// service is configured.
var ErrMissingDocumentService = errors.New("mcp: document service is not configured")

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docdupe resources.
	uriScheme = "docdupe://"

	latestReportURI = uriScheme + "reports/latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the newest report.
	s.server.AddResource(&mcp.Resource{
		URI:         latestReportURI,
		Name:        "latest-report",
		Description: "The most recent stored scan report",
		MIMEType:    "application/json",
	}, s.handleLatestReportResource)

	// Template for stored reports by ID.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{reportId}",
		Name:        "report",
		Description: "A stored scan report with its match records",
		MIMEType:    "application/json",
	}, s.handleReportResource)
}

// handleLatestReportResource returns the newest stored report.
func (s *Server) handleLatestReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Report == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Report.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest report: %w", err)
	}

	return reportContents(req.Params.URI, report)
}

// handleReportResource returns a stored report by ID.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Report == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract reportId from URI: docdupe://reports/{reportId}
	id := extractReportID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if id == "latest" {
		return s.handleLatestReportResource(ctx, req)
	}

	report, err := s.ports.Report.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	return reportContents(req.Params.URI, report)
}

func reportContents(uri string, report *domain.Report) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractReportID extracts the report ID from a URI like docdupe://reports/{reportId}.
func extractReportID(uri string) string {
	const prefix = uriScheme + "reports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

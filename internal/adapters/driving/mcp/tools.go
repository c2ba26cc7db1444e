package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
	"github.com/custodia-labs/docdupe/internal/logger"
)

// ScanInput is the input schema for the scan_directory tool.
type ScanInput struct {
	Root      string   `json:"root" jsonschema:"absolute path of the directory to scan recursively"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"near-duplicate threshold in [0,1] (default from settings, 0.85)"`
	NoSave    bool     `json:"no_save,omitempty" jsonschema:"do not store the result as a report"`
}

// ScanOutput is the output schema for the scan_directory tool.
type ScanOutput struct {
	ReportID    string             `json:"report_id,omitempty"`
	Root        string             `json:"root"`
	Threshold   float64            `json:"threshold"`
	Documents   int                `json:"documents"`
	Count       int                `json:"count"`
	Matches     []MatchOutput      `json:"matches"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty"`
}

// MatchOutput represents a single match record.
type MatchOutput struct {
	Type              string  `json:"type"`
	PathA             string  `json:"path_a"`
	PathB             string  `json:"path_b"`
	SimilarityPercent float64 `json:"similarity_percent"`
	Exact             bool    `json:"exact"`
}

// DiagnosticOutput represents a per-document problem found during a scan.
type DiagnosticOutput struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// DeleteInput is the input schema for the delete_documents tool.
type DeleteInput struct {
	Paths []string `json:"paths" jsonschema:"absolute paths of the documents to delete"`
}

// DeleteOutput is the output schema for the delete_documents tool.
type DeleteOutput struct {
	Deleted  []string        `json:"deleted"`
	Failures []FailureOutput `json:"failures,omitempty"`
	Purged   int             `json:"purged"`
}

// FailureOutput describes one path that could not be deleted.
type FailureOutput struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_directory",
		Description: "Find exact and near-duplicate .docx, .pptx and .xlsx files under a directory",
	}, s.handleScan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_documents",
		Description: "Delete reviewed duplicate documents by absolute path",
	}, s.handleDelete)
}

// handleScan handles the scan_directory tool invocation.
func (s *Server) handleScan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	if !filepath.IsAbs(input.Root) {
		return nil, ScanOutput{}, fmt.Errorf("%w: root must be an absolute path: %q", domain.ErrInvalidInput, input.Root)
	}

	threshold, err := s.threshold(input.Threshold)
	if err != nil {
		return nil, ScanOutput{}, err
	}

	result, err := s.ports.Scan.Scan(ctx, driving.ScanRequest{Root: input.Root, Threshold: threshold})
	if err != nil {
		return nil, ScanOutput{}, err
	}

	output := scanOutput(result)

	if s.ports.Report != nil && !input.NoSave {
		// The scan result still stands when the report store fails.
		report, err := s.ports.Report.Save(ctx, result)
		if err != nil {
			logger.Warn("could not save report: %v", err)
		} else {
			output.ReportID = report.ID
		}
	}

	return nil, output, nil
}

// handleDelete handles the delete_documents tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if s.ports.Document == nil {
		return nil, DeleteOutput{}, ErrMissingDocumentService
	}
	if len(input.Paths) == 0 {
		return nil, DeleteOutput{}, fmt.Errorf("%w: no paths given", domain.ErrInvalidInput)
	}

	result := s.ports.Document.DeleteBatch(ctx, input.Paths)

	output := DeleteOutput{Deleted: make([]string, 0, len(result.Deleted))}
	for _, path := range result.Deleted {
		output.Deleted = append(output.Deleted, path)
		if s.ports.Report == nil {
			continue
		}
		n, err := s.ports.Report.PurgePath(ctx, path)
		if err != nil {
			logger.Warn("purging %s from reports: %v", path, err)
			continue
		}
		output.Purged += n
	}
	for _, f := range result.Failures {
		output.Failures = append(output.Failures, FailureOutput{Path: f.Path, Error: f.Err.Error()})
	}

	return nil, output, nil
}

// threshold resolves the explicit value or the configured default.
func (s *Server) threshold(explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if s.ports.Settings == nil {
		return domain.DefaultThreshold, nil
	}
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return 0, fmt.Errorf("loading settings: %w", err)
	}
	return settings.Scan.Threshold, nil
}

func scanOutput(result *domain.ScanResult) ScanOutput {
	output := ScanOutput{
		Root:      result.Root,
		Threshold: result.Threshold,
		Documents: result.Documents,
		Count:     len(result.Matches),
		Matches:   make([]MatchOutput, len(result.Matches)),
	}
	for i, m := range result.Matches {
		output.Matches[i] = MatchOutput{
			Type:              m.Type.String(),
			PathA:             m.PathA,
			PathB:             m.PathB,
			SimilarityPercent: m.SimilarityPercent(),
			Exact:             m.Exact,
		}
	}
	for _, d := range result.Diagnostics {
		output.Diagnostics = append(output.Diagnostics, DiagnosticOutput{
			Kind:    string(d.Kind),
			Path:    d.Path,
			Message: d.Message,
		})
	}
	return output
}

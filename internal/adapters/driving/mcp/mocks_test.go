package mcp

import (
	"context"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
)

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	result *domain.ScanResult
	err    error
	req    driving.ScanRequest
}

func (m *mockScanService) Scan(_ context.Context, req driving.ScanRequest) (*domain.ScanResult, error) {
	m.req = req
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	result *domain.BatchDeleteResult
	err    error
	paths  []string
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) DeleteBatch(_ context.Context, paths []string) *domain.BatchDeleteResult {
	m.paths = paths
	return m.result
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	report  *domain.Report
	saved   *domain.ScanResult
	purged  []string
	purgeN  int
	err     error
	listErr error
}

func (m *mockReportService) Save(_ context.Context, result *domain.ScanResult) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.saved = result
	return &domain.Report{ID: "report-1", Result: *result}, nil
}

func (m *mockReportService) Get(_ context.Context, id string) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil || m.report.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.report, nil
}

func (m *mockReportService) Latest(_ context.Context) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil {
		return nil, domain.ErrNotFound
	}
	return m.report, nil
}

func (m *mockReportService) List(_ context.Context) ([]domain.ReportSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.report == nil {
		return nil, nil
	}
	return []domain.ReportSummary{m.report.Summary()}, nil
}

func (m *mockReportService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockReportService) PurgePath(_ context.Context, path string) (int, error) {
	m.purged = append(m.purged, path)
	return m.purgeN, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

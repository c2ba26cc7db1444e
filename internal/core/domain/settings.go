package domain

import (
	"fmt"
	"math"
)

const unknownDescription = "Unknown"

// DefaultThreshold is the near-duplicate threshold used when none is configured.
const DefaultThreshold = 0.85

// ValidateThreshold checks that a similarity threshold lies in [0, 1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidConfig, threshold)
	}
	return nil
}

// StorageBackend selects where scan reports are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite keeps reports in a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendMemory keeps reports for the lifetime of the process only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (persistent)"
	case StorageBackendMemory:
		return "Memory (discarded on exit)"
	default:
		return unknownDescription
	}
}

// OutputFormat selects how match records are rendered.
type OutputFormat string

// Available output formats.
const (
	// OutputFormatTable renders a styled terminal table.
	OutputFormatTable OutputFormat = "table"

	// OutputFormatCSV renders the tabular export shape as CSV.
	OutputFormatCSV OutputFormat = "csv"

	// OutputFormatJSON renders the full result as JSON.
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML renders the full result as YAML.
	OutputFormatYAML OutputFormat = "yaml"
)

// IsValid returns true if the format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatTable, OutputFormatCSV, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// ScanSettings holds scan behaviour configuration.
type ScanSettings struct {
	// Threshold is the inclusive near-duplicate lower bound in [0, 1].
	Threshold float64

	// Workers bounds the per-document worker pool. Zero means GOMAXPROCS.
	Workers int
}

// DeleteSettings holds file removal configuration.
type DeleteSettings struct {
	// MaxRetries is how often a transiently locked file is retried.
	MaxRetries int
}

// ReportSettings holds report history configuration.
type ReportSettings struct {
	// History is the number of stored reports kept. Zero keeps all.
	History int
}

// StorageSettings holds report storage configuration.
type StorageSettings struct {
	// Backend selects the report store.
	Backend StorageBackend
}

// OutputSettings holds presentation configuration.
type OutputSettings struct {
	// Format is the default rendering of results.
	Format OutputFormat
}

// AppSettings holds all application settings.
type AppSettings struct {
	Scan    ScanSettings
	Delete  DeleteSettings
	Report  ReportSettings
	Storage StorageSettings
	Output  OutputSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Scan: ScanSettings{
			Threshold: DefaultThreshold,
			Workers:   0,
		},
		Delete: DeleteSettings{
			MaxRetries: 3,
		},
		Report: ReportSettings{
			History: 20,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		Output: OutputSettings{
			Format: OutputFormatTable,
		},
	}
}

// Validate checks every setting and returns the first configuration error.
func (s AppSettings) Validate() error {
	if err := ValidateThreshold(s.Scan.Threshold); err != nil {
		return err
	}
	if s.Scan.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if s.Delete.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidConfig)
	}
	if s.Report.History < 0 {
		return fmt.Errorf("%w: report history must not be negative", ErrInvalidConfig)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, s.Storage.Backend)
	}
	if !s.Output.Format.IsValid() {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, s.Output.Format)
	}
	return nil
}

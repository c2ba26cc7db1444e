package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyScanThreshold    = "scan.threshold"
	keyScanWorkers      = "scan.workers"
	keyDeleteMaxRetries = "delete.max_retries"
	keyReportHistory    = "report.history"
	keyStorageBackend   = "storage.backend"
	keyOutputFormat     = "output.format"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults per key.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Scan: domain.ScanSettings{
			Threshold: s.getThreshold(defaults.Scan.Threshold),
			Workers:   s.getCount(keyScanWorkers, defaults.Scan.Workers),
		},
		Delete: domain.DeleteSettings{
			MaxRetries: s.getCount(keyDeleteMaxRetries, defaults.Delete.MaxRetries),
		},
		Report: domain.ReportSettings{
			History: s.getCount(keyReportHistory, defaults.Report.History),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
		},
		Output: domain.OutputSettings{
			Format: s.getFormat(defaults.Output.Format),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidConfig)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyScanThreshold, settings.Scan.Threshold); err != nil {
		return fmt.Errorf("save scan threshold: %w", err)
	}
	if err := s.configStore.Set(keyScanWorkers, settings.Scan.Workers); err != nil {
		return fmt.Errorf("save scan workers: %w", err)
	}
	if err := s.configStore.Set(keyDeleteMaxRetries, settings.Delete.MaxRetries); err != nil {
		return fmt.Errorf("save delete max_retries: %w", err)
	}
	if err := s.configStore.Set(keyReportHistory, settings.Report.History); err != nil {
		return fmt.Errorf("save report history: %w", err)
	}
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyOutputFormat, settings.Output.Format.String()); err != nil {
		return fmt.Errorf("save output format: %w", err)
	}

	return nil
}

// Set parses, validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyScanThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a number", domain.ErrInvalidConfig, key, value)
		}
		if err := domain.ValidateThreshold(f); err != nil {
			return err
		}
		return s.set(key, f)

	case keyScanWorkers, keyDeleteMaxRetries, keyReportHistory:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", domain.ErrInvalidConfig, key, value)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidConfig, key)
		}
		return s.set(key, n)

	case keyStorageBackend:
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidConfig, value)
		}
		return s.set(key, backend.String())

	case keyOutputFormat:
		format := domain.OutputFormat(strings.ToLower(value))
		if !format.IsValid() {
			return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidConfig, value)
		}
		return s.set(key, format.String())

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidConfig, key)
	}
}

// Keys returns the config keys accepted by Set, sorted.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyScanThreshold,
		keyScanWorkers,
		keyDeleteMaxRetries,
		keyReportHistory,
		keyStorageBackend,
		keyOutputFormat,
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingsService) set(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getThreshold(defaultVal float64) float64 {
	val, ok := s.configStore.GetFloat(keyScanThreshold)
	if !ok || domain.ValidateThreshold(val) != nil {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getCount(key string, defaultVal int) int {
	val, ok := s.configStore.GetInt(key)
	if !ok || val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := domain.StorageBackend(strings.ToLower(s.configStore.GetString(keyStorageBackend)))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFormat(defaultVal domain.OutputFormat) domain.OutputFormat {
	val := domain.OutputFormat(strings.ToLower(s.configStore.GetString(keyOutputFormat)))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

package driving

import "github.com/custodia-labs/docdupe/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults per key.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key ("scan.threshold").
	// The raw value is parsed and validated for the key.
	Set(key, value string) error

	// Keys returns the config keys accepted by Set.
	Keys() []string
}

package driving

import "github.com/custodia-labs/timetable-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current crawl settings, falling back to defaults.
	Get() (*domain.CrawlSettings, error)

	// Save validates and persists crawl settings.
	Save(settings *domain.CrawlSettings) error

	// Set updates one setting by key, e.g. "workers" or "rate".
	Set(key, value string) error

	// Reset removes all stored crawl settings.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.CrawlSettings
}

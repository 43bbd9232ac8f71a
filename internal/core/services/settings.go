package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkers   = "crawl.workers"
	keyRate      = "crawl.rate"
	keyUserAgent = "crawl.user_agent"
	keyTimeout   = "crawl.timeout"
	keyInterval  = "crawl.interval"
)

// settingKeys maps the short names accepted by Set to config keys.
var settingKeys = map[string]string{
	"workers":    keyWorkers,
	"rate":       keyRate,
	"user_agent": keyUserAgent,
	"timeout":    keyTimeout,
	"interval":   keyInterval,
}

// SettingKeys returns the short names accepted by Set, sorted.
func SettingKeys() []string {
	return []string{"interval", "rate", "timeout", "user_agent", "workers"}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get reads crawl settings from the config store. Missing or unreadable
// values fall back to the defaults.
func (s *SettingsService) Get() (*domain.CrawlSettings, error) {
	settings := domain.DefaultCrawlSettings()

	if n, ok := s.configStore.Int(keyWorkers); ok && n > 0 {
		settings.Workers = n
	}
	if f, ok := s.configStore.Float(keyRate); ok && f >= 0 {
		settings.RequestsPerSecond = f
	}
	if ua, ok := s.configStore.String(keyUserAgent); ok {
		settings.UserAgent = ua
	}
	if d, ok := s.configStore.Duration(keyTimeout); ok && d > 0 {
		settings.Timeout = d
	}
	if d, ok := s.configStore.Duration(keyInterval); ok && d > 0 {
		settings.Interval = d
	}

	return &settings, nil
}

// Save validates and persists crawl settings.
func (s *SettingsService) Save(settings *domain.CrawlSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyWorkers, settings.Workers); err != nil {
		return fmt.Errorf("save workers: %w", err)
	}
	if err := s.configStore.Set(keyRate, settings.RequestsPerSecond); err != nil {
		return fmt.Errorf("save rate: %w", err)
	}
	if err := s.configStore.Set(keyUserAgent, settings.UserAgent); err != nil {
		return fmt.Errorf("save user_agent: %w", err)
	}
	if err := s.configStore.Set(keyTimeout, settings.Timeout.String()); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if err := s.configStore.Set(keyInterval, settings.Interval.String()); err != nil {
		return fmt.Errorf("save interval: %w", err)
	}

	return nil
}

// Set parses and stores one setting by its short name.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: workers %q: %w", domain.ErrInvalidInput, value, err)
		}
		settings.Workers = n
	case "rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: rate %q: %w", domain.ErrInvalidInput, value, err)
		}
		settings.RequestsPerSecond = f
	case "user_agent":
		settings.UserAgent = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %w", domain.ErrInvalidInput, value, err)
		}
		settings.Timeout = d
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: interval %q: %w", domain.ErrInvalidInput, value, err)
		}
		settings.Interval = d
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Reset removes all stored crawl settings.
func (s *SettingsService) Reset() error {
	keys := make([]string, 0, len(settingKeys))
	for _, name := range SettingKeys() {
		keys = append(keys, settingKeys[name])
	}
	if err := s.configStore.Unset(keys...); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.CrawlSettings {
	return domain.DefaultCrawlSettings()
}

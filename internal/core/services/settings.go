package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBackendURL       = "backend.url"
	KeyBackendTimeout   = "backend.timeout"
	KeyBackendRateLimit = "backend.rate_limit"
	KeyPollInterval     = "poll.interval"
	KeyChatLimit        = "chat.limit"
	KeyClaimsStaleAfter = "claims.stale_after"
	KeyCacheDir         = "cache.dir"
)

var settingKeys = []string{
	KeyBackendURL,
	KeyBackendTimeout,
	KeyBackendRateLimit,
	KeyPollInterval,
	KeyChatLimit,
	KeyClaimsStaleAfter,
	KeyCacheDir,
}

// SettingsService maps config keys onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or unusable values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL:   s.getString(KeyBackendURL, defaults.Backend.BaseURL),
			Timeout:   s.getPositiveDuration(KeyBackendTimeout, defaults.Backend.Timeout),
			RateLimit: s.getRate(defaults.Backend.RateLimit),
		},
		Poll: domain.PollSettings{
			Interval: s.getPositiveDuration(KeyPollInterval, defaults.Poll.Interval),
		},
		Chat: domain.ChatSettings{
			Limit: s.getPositiveInt(KeyChatLimit, defaults.Chat.Limit),
		},
		Claims: domain.ClaimsSettings{
			StaleAfter: s.getStaleAfter(defaults.Claims.StaleAfter),
		},
		Cache: domain.CacheSettings{
			Dir: s.configStore.GetString(KeyCacheDir),
		},
	}

	return settings, nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case KeyBackendURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL: %w", key, domain.ErrInvalidInput)
		}
		stored = strings.TrimRight(value, "/")
	case KeyBackendTimeout, KeyPollInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration: %w", key, domain.ErrInvalidInput)
		}
		stored = d.String()
	case KeyClaimsStaleAfter:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%s must be a duration >= 0: %w", key, domain.ErrInvalidInput)
		}
		stored = d.String()
	case KeyBackendRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a number >= 0: %w", key, domain.ErrInvalidInput)
		}
		stored = f
	case KeyChatLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer: %w", key, domain.ErrInvalidInput)
		}
		stored = n
	case KeyCacheDir:
		stored = value
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getStaleAfter distinguishes an explicit "0s" from a missing key.
func (s *SettingsService) getStaleAfter(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(KeyClaimsStaleAfter); !exists {
		return defaultVal
	}
	val := s.configStore.GetDuration(KeyClaimsStaleAfter)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getRate(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(KeyBackendRateLimit); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(KeyBackendRateLimit)
	if val < 0 {
		return defaultVal
	}
	return val
}

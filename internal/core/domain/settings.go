package domain

import "time"

// Default settings values.
const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultBackendTimeout = 60 * time.Second
	DefaultRateLimit      = 10.0
	DefaultPollInterval   = 1500 * time.Millisecond
)

// BackendSettings configures the HTTP backend client.
type BackendSettings struct {
	// BaseURL is the scheme, host and optional base path of the backend.
	BaseURL string

	// Timeout bounds every request.
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables throttling.
	RateLimit float64
}

// PollSettings configures the document registry.
type PollSettings struct {
	// Interval between registry refreshes.
	Interval time.Duration
}

// ChatSettings configures question requests.
type ChatSettings struct {
	// Limit is the number of chunks requested per question.
	Limit int
}

// ClaimsSettings configures the claims snapshot cache.
type ClaimsSettings struct {
	// StaleAfter is how long a loaded snapshot is served before reloading.
	// Zero reloads on every entry to the claims view.
	StaleAfter time.Duration
}

// CacheSettings configures on-disk caches.
type CacheSettings struct {
	// Dir holds downloaded PDFs. Empty uses the user cache directory.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend BackendSettings
	Poll    PollSettings
	Chat    ChatSettings
	Claims  ClaimsSettings
	Cache   CacheSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL:   DefaultBackendURL,
			Timeout:   DefaultBackendTimeout,
			RateLimit: DefaultRateLimit,
		},
		Poll: PollSettings{Interval: DefaultPollInterval},
		Chat: ChatSettings{Limit: DefaultChatLimit},
	}
}

// Validate checks the settings for values the services cannot run with.
func (s AppSettings) Validate() error {
	switch {
	case s.Backend.BaseURL == "":
		return ErrInvalidInput
	case s.Poll.Interval <= 0:
		return ErrInvalidInput
	case s.Chat.Limit <= 0:
		return ErrInvalidInput
	case s.Claims.StaleAfter < 0:
		return ErrInvalidInput
	case s.Backend.RateLimit < 0:
		return ErrInvalidInput
	}
	return nil
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "http://localhost:8000", s.Backend.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, s.Poll.Interval)
	assert.Equal(t, 8, s.Chat.Limit)
	assert.Zero(t, s.Claims.StaleAfter)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"empty url", func(s *AppSettings) { s.Backend.BaseURL = "" }},
		{"zero interval", func(s *AppSettings) { s.Poll.Interval = 0 }},
		{"zero limit", func(s *AppSettings) { s.Chat.Limit = 0 }},
		{"negative stale", func(s *AppSettings) { s.Claims.StaleAfter = -time.Second }},
		{"negative rate", func(s *AppSettings) { s.Backend.RateLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrBackend", ErrBackend},
		{"ErrDocumentNotReady", ErrDocumentNotReady},
		{"ErrViewerUnavailable", ErrViewerUnavailable},
		{"ErrPageOutOfRange", ErrPageOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrBackend_Wrapped(t *testing.T) {
	err := fmt.Errorf("list documents: %w", ErrBackend)

	assert.True(t, errors.Is(err, ErrBackend))
	assert.False(t, errors.Is(err, ErrNotFound))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 8, Int(8))
	assert.Equal(t, 8, Int(int64(8)))
	assert.Equal(t, 8, Int(8.0))
	assert.Equal(t, 0, Int(8.5))
	assert.Equal(t, 0, Int("8"))
}

func TestFloat(t *testing.T) {
	assert.InDelta(t, 2.5, Float(2.5), 1e-9)
	assert.InDelta(t, 10.0, Float(int64(10)), 1e-9)
	assert.Zero(t, Float("10"))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
	}{
		{"string", "1.5s", 1500 * time.Millisecond},
		{"minutes", "2m", 2 * time.Minute},
		{"seconds int", int64(3), 3 * time.Second},
		{"native", 5 * time.Second, 5 * time.Second},
		{"garbage", "soon", 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "x", String("x"))
	assert.Empty(t, String(1))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a.b", "b", "c.a"}, SortedKeys(map[string]any{"c.a": 1, "a.b": 2, "b": 3}))
}

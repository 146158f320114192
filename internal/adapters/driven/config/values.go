// Package config holds value coercion shared by the config stores.
//
// TOML decodes integers as int64 and floats as float64, while values set at
// runtime keep their Go type. These helpers accept both.
package config

import (
	"sort"
	"time"
)

// String returns val as a string, or "" when it is not one.
func String(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// Int returns val as an int, or 0 when it is not a whole number.
func Int(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return 0
}

// Float returns val as a float64, or 0 when it is not a number.
func Float(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Duration parses val as a Go duration string ("1.5s", "2m").
// Bare integers are taken as seconds. Anything else yields 0.
func Duration(val any) time.Duration {
	switch v := val.(type) {
	case time.Duration:
		return v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0
		}
		return d
	case int, int64:
		return time.Duration(Int(v)) * time.Second
	}
	return 0
}

// SortedKeys returns the keys of m in order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

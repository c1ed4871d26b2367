package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ----------------------------------------------------------------------------
// scalarString Tests
// ----------------------------------------------------------------------------

func TestScalarString(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "string", input: "Alpha", want: "Alpha"},
		{name: "whole float", input: float64(1), want: "1"},
		{name: "fractional float", input: 12.5, want: "12.5"},
		{name: "int64", input: int64(-42), want: "-42"},
		{name: "bool", input: true, want: "true"},
		{name: "json number", input: json.Number("3.10"), want: "3.10"},
		{name: "time", input: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), want: "2024-01-15T09:30:00Z"},
		{name: "uuid bytes", input: [16]byte(id), want: id.String()},
		{name: "map renders as json", input: map[string]any{"a": 1.0}, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scalarString(tt.input))
		})
	}
}

// ----------------------------------------------------------------------------
// numberValue Tests
// ----------------------------------------------------------------------------

func TestNumberValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "float", input: 0.75, want: 0.75},
		{name: "int", input: 40, want: 40},
		{name: "numeric string", input: " 55.5 ", want: 55.5},
		{name: "garbage string", input: "half", want: 0},
		{name: "nil", input: nil, want: 0},
		{name: "NaN", input: math.NaN(), want: 0},
		{name: "infinity", input: math.Inf(1), want: 0},
		{name: "bool is not a number", input: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numberValue(tt.input))
		})
	}
}

// ----------------------------------------------------------------------------
// metadataValue Tests
// ----------------------------------------------------------------------------

func TestMetadataValue(t *testing.T) {
	t.Run("map is copied", func(t *testing.T) {
		src := map[string]any{"region": "US"}
		got := metadataValue(src)
		got["region"] = "EU"
		assert.Equal(t, "US", src["region"])
	})

	t.Run("json object string", func(t *testing.T) {
		got := metadataValue(`{"region":"US","tier":"Gold"}`)
		assert.Equal(t, map[string]any{"region": "US", "tier": "Gold"}, got)
	})

	t.Run("malformed values yield empty map", func(t *testing.T) {
		for _, in := range []any{nil, "plain text", `{"broken":`, 42.0, []any{"a"}} {
			got := metadataValue(in)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
	})
}
